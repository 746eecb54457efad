package twitch

import (
	"context"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
)

// Game is a game or category on Twitch.
type Game struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	BoxArtURL string `json:"box_art_url"`
}

type GamesResponse struct {
	Data       []Game     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// GetTopGames gets games sorted by number of current viewers.
// No authentication is required.
func (c *Client) GetTopGames(ctx context.Context, after, before string, first int) (*GamesResponse, error) {
	if first < 1 || first > 100 {
		return nil, errors.New("[Client.GetTopGames] first must be between 1 and 100")
	}

	params := url.Values{}
	params.Set("first", strconv.Itoa(first))
	if after != "" {
		params.Set("after", after)
	}
	if before != "" {
		params.Set("before", before)
	}

	resp, err := c.get(ctx, c.buildURL("games/top", params), AuthTypeNone, nil)
	if err != nil {
		return nil, err
	}

	var out GamesResponse
	if err := decodeResponse(resp, &out); err != nil {
		return nil, errors.Wrap(err, "[Client.GetTopGames]")
	}
	return &out, nil
}

// GetGames gets game information by game ID and/or name. At least one of
// gameIDs and names has to be given, 100 entries combined at most.
func (c *Client) GetGames(ctx context.Context, gameIDs, names []string) (*GamesResponse, error) {
	if len(gameIDs) == 0 && len(names) == 0 {
		return nil, errors.New("[Client.GetGames] at least one of either gameIDs and names has to be set")
	}
	if len(gameIDs)+len(names) > 100 {
		return nil, errors.New("[Client.GetGames] in total, only 100 gameIDs and names can be passed")
	}

	params := url.Values{}
	for _, id := range gameIDs {
		params.Add("id", id)
	}
	for _, name := range names {
		params.Add("name", name)
	}

	resp, err := c.get(ctx, c.buildURL("games", params), AuthTypeNone, nil)
	if err != nil {
		return nil, err
	}

	var out GamesResponse
	if err := decodeResponse(resp, &out); err != nil {
		return nil, errors.Wrap(err, "[Client.GetGames]")
	}
	return &out, nil
}
