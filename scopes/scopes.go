// Package scopes defines the Twitch OAuth2 authorization scopes and the
// operations the client performs on scope sets.
package scopes

import "strings"

// AuthScope is a named permission grant. A token is valid for an API call
// only when every scope the call requires is among the scopes the token
// was issued with.
type AuthScope string

const (
	// AnalyticsReadExtensions allows viewing analytics data for extensions owned by the authenticated account.
	AnalyticsReadExtensions AuthScope = "analytics:read:extensions"

	// AnalyticsReadGames allows viewing analytics data for games owned by the authenticated account.
	AnalyticsReadGames AuthScope = "analytics:read:games"

	// BitsRead allows viewing bits information for a channel.
	BitsRead AuthScope = "bits:read"

	// ChannelReadSubscriptions allows viewing a channel's subscribers.
	ChannelReadSubscriptions AuthScope = "channel:read:subscriptions"

	// ClipsEdit allows creating clips on behalf of the user.
	ClipsEdit AuthScope = "clips:edit"

	// UserEdit allows updating the user's profile.
	UserEdit AuthScope = "user:edit"

	// UserEditBroadcast allows editing the user's channel broadcast configuration.
	UserEditBroadcast AuthScope = "user:edit:broadcast"

	// UserReadBroadcast allows viewing the user's channel broadcast configuration.
	UserReadBroadcast AuthScope = "user:read:broadcast"

	// UserReadEmail allows reading the user's email address.
	UserReadEmail AuthScope = "user:read:email"

	// OpenID requests an OIDC id_token alongside the access token.
	OpenID AuthScope = "openid"
)

// Join encodes a scope set the way the authorization endpoint expects it,
// as a single space-delimited string.
func Join(scopes []AuthScope) string {
	parts := make([]string, 0, len(scopes))
	for _, s := range scopes {
		parts = append(parts, string(s))
	}
	return strings.Join(parts, " ")
}

// Split parses a space-delimited scope string back into a scope set.
func Split(raw string) []AuthScope {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Fields(raw)
	scopes := make([]AuthScope, 0, len(parts))
	for _, p := range parts {
		scopes = append(scopes, AuthScope(p))
	}
	return scopes
}

// Contains reports whether scope s is a member of the granted set.
func Contains(granted []AuthScope, s AuthScope) bool {
	for _, g := range granted {
		if g == s {
			return true
		}
	}
	return false
}

// Missing returns the first scope in required that is not a member of
// granted, or "" when required is fully covered.
func Missing(granted, required []AuthScope) AuthScope {
	for _, r := range required {
		if !Contains(granted, r) {
			return r
		}
	}
	return ""
}
