package twitch

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// WebhookSubscription is an active webhook subscription of the client
// application.
type WebhookSubscription struct {
	Topic     string    `json:"topic"`
	Callback  string    `json:"callback"`
	ExpiresAt time.Time `json:"expires_at"`
}

type WebhookSubscriptionsResponse struct {
	Total      int                   `json:"total"`
	Data       []WebhookSubscription `json:"data"`
	Pagination Pagination            `json:"pagination"`
}

// GetWebhookSubscriptions gets the webhook subscriptions of the
// application, in order of expiration.
// Requires app authentication.
func (c *Client) GetWebhookSubscriptions(ctx context.Context, first int, after string) (*WebhookSubscriptionsResponse, error) {
	if first < 1 || first > 100 {
		return nil, errors.New("[Client.GetWebhookSubscriptions] first must be in range 1 to 100")
	}

	params := url.Values{}
	params.Set("first", strconv.Itoa(first))
	if after != "" {
		params.Set("after", after)
	}

	resp, err := c.get(ctx, c.buildURL("webhooks/subscriptions", params), AuthTypeApp, nil)
	if err != nil {
		return nil, err
	}

	var out WebhookSubscriptionsResponse
	if err := decodeResponse(resp, &out); err != nil {
		return nil, errors.Wrap(err, "[Client.GetWebhookSubscriptions]")
	}
	return &out, nil
}
