// Package auth implements the user side of Twitch OAuth2: the browser
// authorization-code flow, refresh-grant exchange, and token validation
// and revocation against the id.twitch.tv endpoints.
package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// BaseURL is the base URL of the Twitch authorization endpoints.
const BaseURL = "https://id.twitch.tv/"

const defaultTimeout = 30 * time.Second

type settings struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option modifies how the package talks to the authorization endpoints.
type Option func(*settings)

// WithBaseURL overrides the authorization base URL. Primarily for testing.
func WithBaseURL(baseURL string) Option {
	return func(s *settings) {
		s.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client used for token endpoint calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *settings) {
		s.httpClient = hc
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

func newSettings(options ...Option) *settings {
	s := &settings{
		baseURL:    BaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     zerolog.Nop(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *settings) oauthConfig(appID, appSecret, redirectURI string, scope []string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     appID,
		ClientSecret: appSecret,
		RedirectURL:  redirectURI,
		Scopes:       scope,
		Endpoint: oauth2.Endpoint{
			AuthURL:   s.baseURL + "oauth2/authorize",
			TokenURL:  s.baseURL + "oauth2/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// oauthContext routes the oauth2 package's internal HTTP calls through the
// configured client.
func (s *settings) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
}

// RefreshAccessToken exchanges a refresh token for a new access/refresh
// token pair. Twitch rotates the refresh token on every exchange, so the
// returned pair replaces both stored values.
func RefreshAccessToken(ctx context.Context, refreshToken, appID, appSecret string, options ...Option) (string, string, error) {
	s := newSettings(options...)

	cfg := s.oauthConfig(appID, appSecret, "", nil)
	tok, err := cfg.TokenSource(s.oauthContext(ctx), &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return "", "", errors.Wrap(err, "[auth.RefreshAccessToken] token exchange")
	}
	if tok.AccessToken == "" {
		return "", "", errors.New("[auth.RefreshAccessToken] response did not contain access_token")
	}

	s.logger.Debug().Msg("user access token refreshed")
	return tok.AccessToken, tok.RefreshToken, nil
}
