package twitch

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-twitch-client/scopes"
)

// DateRange is the period an analytics report covers.
type DateRange struct {
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
}

// ExtensionAnalytics is a download URL for an extension analytics report.
// The URL is valid for 5 minutes.
type ExtensionAnalytics struct {
	ExtensionID string    `json:"extension_id"`
	URL         string    `json:"URL"`
	Type        string    `json:"type"`
	DateRange   DateRange `json:"date_range"`
}

type ExtensionAnalyticsResponse struct {
	Data       []ExtensionAnalytics `json:"data"`
	Pagination Pagination           `json:"pagination"`
}

// GameAnalytics is a download URL for a game analytics report.
type GameAnalytics struct {
	GameID    string    `json:"game_id"`
	URL       string    `json:"URL"`
	Type      string    `json:"type"`
	DateRange DateRange `json:"date_range"`
}

type GameAnalyticsResponse struct {
	Data       []GameAnalytics `json:"data"`
	Pagination Pagination      `json:"pagination"`
}

// AnalyticsParams are the shared optional filters of the analytics
// endpoints. StartedAt and EndedAt must be supplied together.
type AnalyticsParams struct {
	After      *string
	First      *int
	StartedAt  *time.Time
	EndedAt    *time.Time
	ReportType *AnalyticsReportType
}

func (p AnalyticsParams) validate(funcName string) (url.Values, error) {
	if p.StartedAt != nil || p.EndedAt != nil {
		if p.StartedAt == nil || p.EndedAt == nil {
			return nil, errors.Errorf("[%s] you must specify both EndedAt and StartedAt", funcName)
		}
		if p.StartedAt.After(*p.EndedAt) {
			return nil, errors.Errorf("[%s] StartedAt must be before EndedAt", funcName)
		}
	}
	first := 20
	if p.First != nil {
		first = *p.First
	}
	if first < 1 || first > 100 {
		return nil, errors.Errorf("[%s] First must be between 1 and 100", funcName)
	}

	params := url.Values{}
	params.Set("first", strconv.Itoa(first))
	if p.After != nil {
		params.Set("after", *p.After)
	}
	if p.StartedAt != nil {
		params.Set("started_at", p.StartedAt.Format(time.RFC3339))
		params.Set("ended_at", p.EndedAt.Format(time.RFC3339))
	}
	if p.ReportType != nil {
		params.Set("type", string(*p.ReportType))
	}
	return params, nil
}

// GetExtensionAnalytics gets URLs that extension developers can use to
// download analytics reports for their extensions.
// Requires user authentication with the analytics:read:extensions scope.
func (c *Client) GetExtensionAnalytics(ctx context.Context, extensionID string, p AnalyticsParams) (*ExtensionAnalyticsResponse, error) {
	params, err := p.validate("Client.GetExtensionAnalytics")
	if err != nil {
		return nil, err
	}
	if extensionID != "" {
		params.Set("extension_id", extensionID)
	}

	resp, err := c.get(ctx, c.buildURL("analytics/extensions", params), AuthTypeUser, []scopes.AuthScope{scopes.AnalyticsReadExtensions})
	if err != nil {
		return nil, err
	}

	var out ExtensionAnalyticsResponse
	if err := decodeResponse(resp, &out); err != nil {
		return nil, errors.Wrap(err, "[Client.GetExtensionAnalytics]")
	}
	return &out, nil
}

// GetGameAnalytics gets URLs that game developers can use to download
// analytics reports for their games.
// Requires user authentication with the analytics:read:games scope.
func (c *Client) GetGameAnalytics(ctx context.Context, gameID string, p AnalyticsParams) (*GameAnalyticsResponse, error) {
	params, err := p.validate("Client.GetGameAnalytics")
	if err != nil {
		return nil, err
	}
	if gameID != "" {
		params.Set("game_id", gameID)
	}

	resp, err := c.get(ctx, c.buildURL("analytics/games", params), AuthTypeUser, []scopes.AuthScope{scopes.AnalyticsReadGames})
	if err != nil {
		return nil, err
	}

	var out GameAnalyticsResponse
	if err := decodeResponse(resp, &out); err != nil {
		return nil, errors.Wrap(err, "[Client.GetGameAnalytics]")
	}
	return &out, nil
}
