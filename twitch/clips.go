package twitch

import (
	"context"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-twitch-client/scopes"
)

// CreatedClip is the ID and edit URL of a freshly created clip.
type CreatedClip struct {
	ID      string `json:"id"`
	EditURL string `json:"edit_url"`
}

type CreateClipResponse struct {
	Data []CreatedClip `json:"data"`
}

// CreateClip creates a clip of the given broadcaster's stream. When
// hasDelay is set, a delay is added before the clip is captured to
// account for the stream delay the viewer experiences.
// Requires user authentication with the clips:edit scope.
func (c *Client) CreateClip(ctx context.Context, broadcasterID string, hasDelay bool) (*CreateClipResponse, error) {
	params := url.Values{}
	params.Set("broadcaster_id", broadcasterID)
	params.Set("has_delay", strconv.FormatBool(hasDelay))

	resp, err := c.post(ctx, c.buildURL("clips", params), AuthTypeUser, []scopes.AuthScope{scopes.ClipsEdit}, nil)
	if err != nil {
		return nil, err
	}

	var out CreateClipResponse
	if err := decodeResponse(resp, &out); err != nil {
		return nil, errors.Wrap(err, "[Client.CreateClip]")
	}
	return &out, nil
}

// Clip is a clip of a broadcast.
type Clip struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	EmbedURL      string `json:"embed_url"`
	BroadcasterID string `json:"broadcaster_id"`
	CreatorID     string `json:"creator_id"`
	VideoID       string `json:"video_id"`
	GameID        string `json:"game_id"`
	Language      string `json:"language"`
	Title         string `json:"title"`
	ViewCount     int    `json:"view_count"`
	CreatedAt     string `json:"created_at"`
	ThumbnailURL  string `json:"thumbnail_url"`
}

type ClipsResponse struct {
	Data       []Clip     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// GetClips gets clip information. Exactly one of clipIDs, broadcasterID
// or gameID has to be given; at most 100 clips can be queried per call.
func (c *Client) GetClips(ctx context.Context, clipIDs []string, broadcasterID, gameID string, first int) (*ClipsResponse, error) {
	if len(clipIDs) > 100 {
		return nil, errors.New("[Client.GetClips] a maximum of 100 clips can be queried in one call")
	}
	selectors := 0
	if len(clipIDs) > 0 {
		selectors++
	}
	if broadcasterID != "" {
		selectors++
	}
	if gameID != "" {
		selectors++
	}
	if selectors != 1 {
		return nil, errors.New("[Client.GetClips] you need to specify exactly one of clipIDs, broadcasterID or gameID")
	}
	if first < 1 || first > 100 {
		return nil, errors.New("[Client.GetClips] first must be in range 1 to 100")
	}

	params := url.Values{}
	params.Set("first", strconv.Itoa(first))
	for _, id := range clipIDs {
		params.Add("id", id)
	}
	if broadcasterID != "" {
		params.Set("broadcaster_id", broadcasterID)
	}
	if gameID != "" {
		params.Set("game_id", gameID)
	}

	resp, err := c.get(ctx, c.buildURL("clips", params), AuthTypeNone, nil)
	if err != nil {
		return nil, err
	}

	var out ClipsResponse
	if err := decodeResponse(resp, &out); err != nil {
		return nil, errors.Wrap(err, "[Client.GetClips]")
	}
	return &out, nil
}
