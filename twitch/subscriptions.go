package twitch

import (
	"context"
	"net/url"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-twitch-client/scopes"
)

// Subscription is a user's subscription to a broadcaster.
type Subscription struct {
	BroadcasterID   string `json:"broadcaster_id"`
	BroadcasterName string `json:"broadcaster_name"`
	IsGift          bool   `json:"is_gift"`
	Tier            string `json:"tier"`
	PlanName        string `json:"plan_name"`
	UserID          string `json:"user_id"`
	UserName        string `json:"user_name"`
}

type SubscriptionsResponse struct {
	Data       []Subscription `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

// GetBroadcasterSubscriptions gets all of a broadcaster's subscriptions,
// optionally filtered to the given subscriber user IDs (100 at most).
// Requires user authentication with the channel:read:subscriptions scope.
func (c *Client) GetBroadcasterSubscriptions(ctx context.Context, broadcasterID string, userIDs []string) (*SubscriptionsResponse, error) {
	if len(userIDs) > 100 {
		return nil, errors.New("[Client.GetBroadcasterSubscriptions] userIDs can have a maximum of 100 entries")
	}

	params := url.Values{}
	params.Set("broadcaster_id", broadcasterID)
	for _, id := range userIDs {
		params.Add("user_id", id)
	}

	resp, err := c.get(ctx, c.buildURL("subscriptions", params), AuthTypeUser, []scopes.AuthScope{scopes.ChannelReadSubscriptions})
	if err != nil {
		return nil, err
	}

	var out SubscriptionsResponse
	if err := decodeResponse(resp, &out); err != nil {
		return nil, errors.Wrap(err, "[Client.GetBroadcasterSubscriptions]")
	}
	return &out, nil
}
