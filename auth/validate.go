package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

// TokenValidation is the result of validating an access token. Login and
// UserID are empty for app access tokens.
type TokenValidation struct {
	ClientID  string   `json:"client_id"`
	Login     string   `json:"login"`
	Scopes    []string `json:"scopes"`
	UserID    string   `json:"user_id"`
	ExpiresIn int      `json:"expires_in"`

	// Status and Message are set by the endpoint when the token is not
	// valid, e.g. 401 / "invalid access token".
	Status  int    `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

// Valid reports whether the endpoint accepted the token.
func (v *TokenValidation) Valid() bool {
	return v.Status == 0
}

// ValidateToken asks the authorization endpoint whether an access token
// is still valid and what it is valid for.
func ValidateToken(ctx context.Context, token string, options ...Option) (*TokenValidation, error) {
	s := newSettings(options...)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"oauth2/validate", nil)
	if err != nil {
		return nil, errors.Wrap(err, "[auth.ValidateToken] building request")
	}
	// The validate endpoint expects the OAuth scheme, not Bearer.
	req.Header.Set("Authorization", "OAuth "+token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "[auth.ValidateToken]")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "[auth.ValidateToken] reading response body")
	}

	var validation TokenValidation
	if err := json.Unmarshal(raw, &validation); err != nil {
		return nil, errors.Wrap(err, "[auth.ValidateToken] decoding response body")
	}
	return &validation, nil
}

// RevokeToken invalidates an access token at the authorization endpoint.
// Returns true when the endpoint confirmed the revocation.
func RevokeToken(ctx context.Context, appID, token string, options ...Option) (bool, error) {
	s := newSettings(options...)

	params := url.Values{}
	params.Set("client_id", appID)
	params.Set("token", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"oauth2/revoke?"+params.Encode(), nil)
	if err != nil {
		return false, errors.Wrap(err, "[auth.RevokeToken] building request")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return false, errors.Wrap(err, "[auth.RevokeToken]")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK, nil
}
