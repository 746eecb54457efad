package twitch

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-twitch-client/scopes"
)

// doRequest executes one logical API call. Each attempt rebuilds the
// headers from the current credential state, so a refresh performed by
// this call (or a concurrent one) is picked up by the resend.
//
// With auto refresh enabled, a 401 triggers a token refresh and a resend
// while the retry budget lasts; a 503 is resent exactly once with no
// refresh, spending whatever budget remains. Every other status, and
// everything once the budget is spent, is returned to the caller
// untouched.
func (c *Client) doRequest(ctx context.Context, method, rawURL string, authType AuthType, requiredScope []scopes.AuthScope, body interface{}) (*http.Response, error) {
	retries := c.retries
	for {
		header, used, err := c.generateHeader(authType, requiredScope)
		if err != nil {
			return nil, err
		}

		resp, err := c.send(ctx, method, rawURL, header, body)
		if err != nil {
			return nil, errors.Wrapf(err, "[Client.doRequest] %s %s", method, rawURL)
		}

		if c.autoRefreshAuth && retries > 0 {
			switch resp.StatusCode {
			case http.StatusUnauthorized:
				if used == credentialNone {
					// Nothing was sent that a refresh could replace.
					return resp, nil
				}
				discardBody(resp)
				c.logger.Debug().Str("url", rawURL).Msg("got 401, refreshing token and retrying")
				if err := c.refreshUsedToken(ctx, used); err != nil {
					return nil, err
				}
				retries--
				continue
			case http.StatusServiceUnavailable:
				discardBody(resp)
				c.logger.Debug().Str("url", rawURL).Msg("got 503, retrying once")
				retries = 0
				continue
			}
		} else if c.autoRefreshAuth && retries <= 0 && resp.StatusCode == http.StatusServiceUnavailable {
			discardBody(resp)
			return nil, ErrTwitchBackend
		}

		return resp, nil
	}
}

func (c *Client) send(ctx context.Context, method, rawURL string, header http.Header, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "marshalling request body")
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func (c *Client) get(ctx context.Context, rawURL string, authType AuthType, requiredScope []scopes.AuthScope) (*http.Response, error) {
	return c.doRequest(ctx, http.MethodGet, rawURL, authType, requiredScope, nil)
}

func (c *Client) post(ctx context.Context, rawURL string, authType AuthType, requiredScope []scopes.AuthScope, body interface{}) (*http.Response, error) {
	return c.doRequest(ctx, http.MethodPost, rawURL, authType, requiredScope, body)
}

func (c *Client) put(ctx context.Context, rawURL string, authType AuthType, requiredScope []scopes.AuthScope, body interface{}) (*http.Response, error) {
	return c.doRequest(ctx, http.MethodPut, rawURL, authType, requiredScope, body)
}

func (c *Client) patch(ctx context.Context, rawURL string, authType AuthType, requiredScope []scopes.AuthScope, body interface{}) (*http.Response, error) {
	return c.doRequest(ctx, http.MethodPatch, rawURL, authType, requiredScope, body)
}

// buildURL joins the endpoint path onto the API base and encodes the query
// parameters.
func (c *Client) buildURL(path string, params url.Values) string {
	u := c.apiBaseURL + path
	if encoded := params.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

// decodeResponse reads and closes the response body, decoding a 2xx body
// into out. Statuses the retry state machine passed through (anything but
// the handled 401/503 cases) become plain errors here, at the endpoint
// layer that owns their meaning.
func decodeResponse(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "reading response body")
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return errors.Errorf("unexpected status %d (%s)", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrap(err, "decoding response body")
	}
	return nil
}

func discardBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
