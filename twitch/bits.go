package twitch

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-twitch-client/scopes"
)

// BitsLeaderboardEntry is one user's rank on the Bits leaderboard.
type BitsLeaderboardEntry struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Rank     int    `json:"rank"`
	Score    int    `json:"score"`
}

type BitsLeaderboardResponse struct {
	Data      []BitsLeaderboardEntry `json:"data"`
	DateRange DateRange              `json:"date_range"`
	Total     int                    `json:"total"`
}

// GetBitsLeaderboardParams are the optional filters for GetBitsLeaderboard.
type GetBitsLeaderboardParams struct {
	Count     *int
	Period    *TimePeriod
	StartedAt *time.Time
	UserID    *string
}

// GetBitsLeaderboard gets a ranked list of Bits leaderboard information
// for the authorized broadcaster.
// Requires user authentication with the bits:read scope.
func (c *Client) GetBitsLeaderboard(ctx context.Context, p GetBitsLeaderboardParams) (*BitsLeaderboardResponse, error) {
	count := 10
	if p.Count != nil {
		count = *p.Count
	}
	if count < 1 || count > 100 {
		return nil, errors.New("[Client.GetBitsLeaderboard] Count must be between 1 and 100")
	}
	period := TimePeriodAll
	if p.Period != nil {
		period = *p.Period
	}

	params := url.Values{}
	params.Set("count", strconv.Itoa(count))
	params.Set("period", string(period))
	if p.StartedAt != nil {
		params.Set("started_at", p.StartedAt.Format(time.RFC3339))
	}
	if p.UserID != nil {
		params.Set("user_id", *p.UserID)
	}

	resp, err := c.get(ctx, c.buildURL("bits/leaderboard", params), AuthTypeUser, []scopes.AuthScope{scopes.BitsRead})
	if err != nil {
		return nil, err
	}

	var out BitsLeaderboardResponse
	if err := decodeResponse(resp, &out); err != nil {
		return nil, errors.Wrap(err, "[Client.GetBitsLeaderboard]")
	}
	return &out, nil
}
