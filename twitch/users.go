package twitch

import (
	"context"
	"net/url"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-twitch-client/scopes"
)

// User is a Twitch user record. Email is only populated when the request
// was authorized with the user:read:email scope.
type User struct {
	ID              string `json:"id"`
	Login           string `json:"login"`
	DisplayName     string `json:"display_name"`
	Type            string `json:"type"`
	BroadcasterType string `json:"broadcaster_type"`
	Description     string `json:"description"`
	ProfileImageURL string `json:"profile_image_url"`
	OfflineImageURL string `json:"offline_image_url"`
	ViewCount       int    `json:"view_count"`
	Email           string `json:"email,omitempty"`
}

type UsersResponse struct {
	Data []User `json:"data"`
}

// GetUsers gets information about one or more users, looked up by ID
// and/or login name. No authentication is required but the combined
// number of IDs and logins is limited to 100.
func (c *Client) GetUsers(ctx context.Context, userIDs, logins []string) (*UsersResponse, error) {
	if len(userIDs)+len(logins) > 100 {
		return nil, errors.New("[Client.GetUsers] the total number of entries in userIDs and logins can not be more than 100")
	}

	params := url.Values{}
	for _, id := range userIDs {
		params.Add("id", id)
	}
	for _, login := range logins {
		params.Add("login", login)
	}

	resp, err := c.get(ctx, c.buildURL("users", params), AuthTypeNone, nil)
	if err != nil {
		return nil, err
	}

	var out UsersResponse
	if err := decodeResponse(resp, &out); err != nil {
		return nil, errors.Wrap(err, "[Client.GetUsers]")
	}
	return &out, nil
}

// UpdateUser updates the description of the authenticated user.
// Requires user authentication with the user:edit scope.
func (c *Client) UpdateUser(ctx context.Context, description string) (*UsersResponse, error) {
	params := url.Values{}
	params.Set("description", description)

	resp, err := c.put(ctx, c.buildURL("users", params), AuthTypeUser, []scopes.AuthScope{scopes.UserEdit}, nil)
	if err != nil {
		return nil, err
	}

	var out UsersResponse
	if err := decodeResponse(resp, &out); err != nil {
		return nil, errors.Wrap(err, "[Client.UpdateUser]")
	}
	return &out, nil
}
