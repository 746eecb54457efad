package twitch

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-twitch-client/scopes"
)

// AuthType is the authentication an API call requires.
type AuthType int

const (
	// AuthTypeNone states no explicit requirement. A token is still sent
	// when one is available, since authenticated calls get better rate
	// limits.
	AuthTypeNone AuthType = iota

	// AuthTypeUser requires user authentication.
	AuthTypeUser

	// AuthTypeApp requires app authentication.
	AuthTypeApp
)

// generateHeader builds the headers for one request attempt and reports
// which stored credential was selected. It is a pure function of the
// current credential state: no network I/O, no mutation.
func (c *Client) generateHeader(authType AuthType, requiredScope []scopes.AuthScope) (http.Header, credentialKind, error) {
	header := http.Header{}
	header.Set("Client-Id", c.appID)

	switch authType {
	case AuthTypeApp:
		cred, ok := c.store.App()
		if !ok {
			return nil, credentialNone, errors.Wrap(ErrUnauthorized, "require app authentication")
		}
		if missing := scopes.Missing(cred.Scopes, requiredScope); missing != "" {
			return nil, credentialNone, &MissingScopeError{Scope: missing}
		}
		header.Set("Authorization", "Bearer "+cred.Token)
		return header, credentialApp, nil

	case AuthTypeUser:
		cred, ok := c.store.User()
		if !ok {
			return nil, credentialNone, errors.Wrap(ErrUnauthorized, "require user authentication")
		}
		if missing := scopes.Missing(cred.Scopes, requiredScope); missing != "" {
			return nil, credentialNone, &MissingScopeError{Scope: missing}
		}
		header.Set("Authorization", "Bearer "+cred.Token)
		return header, credentialUser, nil

	default:
		if cred, ok := c.store.User(); ok {
			header.Set("Authorization", "Bearer "+cred.Token)
			return header, credentialUser, nil
		}
		if cred, ok := c.store.App(); ok {
			header.Set("Authorization", "Bearer "+cred.Token)
			return header, credentialApp, nil
		}
		// No credential installed at all: the call goes out with only the
		// Client-Id header.
		return header, credentialNone, nil
	}
}
