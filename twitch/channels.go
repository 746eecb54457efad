package twitch

import (
	"context"
	"net/url"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-twitch-client/scopes"
)

// ChannelInformation is the broadcast configuration of a channel.
type ChannelInformation struct {
	BroadcasterID       string `json:"broadcaster_id"`
	BroadcasterName     string `json:"broadcaster_name"`
	BroadcasterLanguage string `json:"broadcaster_language"`
	GameID              string `json:"game_id"`
	Title               string `json:"title"`
}

type ChannelInformationResponse struct {
	Data []ChannelInformation `json:"data"`
}

// GetChannelInformation gets channel information for a broadcaster.
// App or user authentication works.
func (c *Client) GetChannelInformation(ctx context.Context, broadcasterID string) (*ChannelInformationResponse, error) {
	params := url.Values{}
	params.Set("broadcaster_id", broadcasterID)

	resp, err := c.get(ctx, c.buildURL("channels", params), AuthTypeNone, nil)
	if err != nil {
		return nil, err
	}

	var out ChannelInformationResponse
	if err := decodeResponse(resp, &out); err != nil {
		return nil, errors.Wrap(err, "[Client.GetChannelInformation]")
	}
	return &out, nil
}

// ModifyChannelParams are the fields ModifyChannelInformation can change.
// At least one has to be set.
type ModifyChannelParams struct {
	GameID              *string
	BroadcasterLanguage *string
	Title               *string
}

// ModifyChannelInformation updates a channel's broadcast configuration.
// Requires user authentication with the user:edit:broadcast scope.
func (c *Client) ModifyChannelInformation(ctx context.Context, broadcasterID string, p ModifyChannelParams) error {
	if p.GameID == nil && p.BroadcasterLanguage == nil && p.Title == nil {
		return errors.New("[Client.ModifyChannelInformation] you need to specify at least one of the optional parameters")
	}

	params := url.Values{}
	params.Set("broadcaster_id", broadcasterID)
	if p.GameID != nil {
		params.Set("game_id", *p.GameID)
	}
	if p.BroadcasterLanguage != nil {
		params.Set("broadcaster_language", *p.BroadcasterLanguage)
	}
	if p.Title != nil {
		params.Set("title", *p.Title)
	}

	resp, err := c.patch(ctx, c.buildURL("channels", params), AuthTypeUser, []scopes.AuthScope{scopes.UserEditBroadcast}, nil)
	if err != nil {
		return err
	}
	if err := decodeResponse(resp, nil); err != nil {
		return errors.Wrap(err, "[Client.ModifyChannelInformation]")
	}
	return nil
}
