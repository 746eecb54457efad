package twitch

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-twitch-client/internal/utils"
	"github.com/jrsteele09/go-twitch-client/scopes"
)

// Stream is a live stream as returned by the streams endpoint.
type Stream struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	UserName     string    `json:"user_name"`
	GameID       string    `json:"game_id"`
	Type         string    `json:"type"`
	Title        string    `json:"title"`
	ViewerCount  int       `json:"viewer_count"`
	StartedAt    time.Time `json:"started_at"`
	Language     string    `json:"language"`
	ThumbnailURL string    `json:"thumbnail_url"`
	TagIDs       []string  `json:"tag_ids"`
}

type StreamsResponse struct {
	Data       []Stream   `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// GetStreamsParams are the optional filters for GetStreams. Nil pointer
// fields are omitted; First defaults to 20.
type GetStreamsParams struct {
	After      *string
	Before     *string
	First      *int
	GameIDs    []string
	Languages  []string
	UserIDs    []string
	UserLogins []string
}

// GetStreams gets information about active streams, sorted by current
// viewer count. No authentication is required.
func (c *Client) GetStreams(ctx context.Context, p GetStreamsParams) (*StreamsResponse, error) {
	if len(p.UserIDs) > 100 {
		return nil, errors.New("[Client.GetStreams] a maximum of 100 UserIDs entries are allowed")
	}
	if len(p.UserLogins) > 100 {
		return nil, errors.New("[Client.GetStreams] a maximum of 100 UserLogins entries are allowed")
	}
	if len(p.Languages) > 100 {
		return nil, errors.New("[Client.GetStreams] a maximum of 100 Languages are allowed")
	}
	if len(p.GameIDs) > 100 {
		return nil, errors.New("[Client.GetStreams] a maximum of 100 GameIDs entries are allowed")
	}
	first := 20
	if p.First != nil {
		first = *p.First
	}
	if first < 1 || first > 100 {
		return nil, errors.New("[Client.GetStreams] First must be between 1 and 100")
	}

	params := url.Values{}
	params.Set("first", strconv.Itoa(first))
	if p.After != nil {
		params.Set("after", *p.After)
	}
	if p.Before != nil {
		params.Set("before", *p.Before)
	}
	for _, id := range p.GameIDs {
		params.Add("game_id", id)
	}
	for _, lang := range p.Languages {
		params.Add("language", lang)
	}
	for _, id := range p.UserIDs {
		params.Add("user_id", id)
	}
	for _, login := range p.UserLogins {
		params.Add("user_login", login)
	}

	resp, err := c.get(ctx, c.buildURL("streams", params), AuthTypeNone, nil)
	if err != nil {
		return nil, err
	}

	var out StreamsResponse
	if err := decodeResponse(resp, &out); err != nil {
		return nil, errors.Wrap(err, "[Client.GetStreams]")
	}
	return &out, nil
}

// StreamMarker is a marker placed in a live stream.
type StreamMarker struct {
	ID              string    `json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	Description     string    `json:"description"`
	PositionSeconds int       `json:"position_seconds"`
}

type CreateStreamMarkerResponse struct {
	Data []StreamMarker `json:"data"`
}

// CreateStreamMarker creates a marker in the live stream of the given
// user. The description is limited to 140 characters.
// Requires user authentication with the user:edit:broadcast scope.
func (c *Client) CreateStreamMarker(ctx context.Context, userID string, description *string) (*CreateStreamMarkerResponse, error) {
	if description != nil && len(*description) > 140 {
		return nil, errors.New("[Client.CreateStreamMarker] max length for description is 140")
	}

	body := map[string]string{"user_id": userID}
	if description != nil {
		body["description"] = utils.Value(description)
	}

	resp, err := c.post(ctx, c.buildURL("streams/markers", nil), AuthTypeUser, []scopes.AuthScope{scopes.UserEditBroadcast}, body)
	if err != nil {
		return nil, err
	}

	var out CreateStreamMarkerResponse
	if err := decodeResponse(resp, &out); err != nil {
		return nil, errors.Wrap(err, "[Client.CreateStreamMarker]")
	}
	return &out, nil
}
