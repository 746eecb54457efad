// Package twitch implements a client for the Twitch Helix API. It owns
// authentication renewal, permission checking and the retry behaviour
// wrapped around every outbound request.
package twitch

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"

	"github.com/jrsteele09/go-twitch-client/auth"
	"github.com/jrsteele09/go-twitch-client/credentials"
	"github.com/jrsteele09/go-twitch-client/scopes"
)

const (
	// APIBaseURL is the base URL of the Helix resource endpoints.
	APIBaseURL = "https://api.twitch.tv/helix/"

	// AuthBaseURL is the base URL of the Twitch authorization endpoints.
	AuthBaseURL = "https://id.twitch.tv/"

	defaultTimeout = 30 * time.Second
	defaultRetries = 1
)

// credentialKind identifies which stored credential a request was built
// with, so a rejected request refreshes the credential it actually used.
type credentialKind int

const (
	credentialNone credentialKind = iota
	credentialApp
	credentialUser
)

// Client is the Twitch API client. A single instance may be shared across
// goroutines; credential replacement during a token refresh is an atomic
// swap and concurrent refreshes of the same credential are coalesced.
type Client struct {
	appID     string
	appSecret string

	store       *credentials.Store
	httpClient  *http.Client
	apiBaseURL  string
	authBaseURL string

	// autoRefreshAuth controls whether a 401 response triggers a token
	// refresh and resend, and whether a 503 response is retried.
	autoRefreshAuth bool
	retries         int

	logger       zerolog.Logger
	refreshGroup singleflight.Group
}

// Option modifies the Client during construction.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client used for all requests,
// including calls to the authorization endpoint.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithAutoRefresh toggles automatic token refreshing. When disabled, 401
// and 503 responses are returned to the caller as-is.
func WithAutoRefresh(enabled bool) Option {
	return func(c *Client) {
		c.autoRefreshAuth = enabled
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithAPIBaseURL overrides the Helix base URL. Primarily for testing.
func WithAPIBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.apiBaseURL = baseURL
	}
}

// WithAuthBaseURL overrides the authorization base URL. Primarily for testing.
func WithAuthBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.authBaseURL = baseURL
	}
}

// WithRetries sets how many times a request may be resent after a token
// refresh before the response is handed back unchanged.
func WithRetries(retries int) Option {
	return func(c *Client) {
		c.retries = retries
	}
}

// New creates a Twitch API client for the given application credentials.
func New(appID, appSecret string, options ...Option) (*Client, error) {
	if appID == "" {
		return nil, errors.New("[twitch.New] appID is required")
	}
	if appSecret == "" {
		return nil, errors.New("[twitch.New] appSecret is required")
	}

	c := &Client{
		appID:           appID,
		appSecret:       appSecret,
		store:           credentials.NewStore(),
		httpClient:      &http.Client{Timeout: defaultTimeout},
		apiBaseURL:      APIBaseURL,
		authBaseURL:     AuthBaseURL,
		autoRefreshAuth: true,
		retries:         defaultRetries,
		logger:          zerolog.Nop(),
	}

	for _, opt := range options {
		opt(c)
	}

	return c, nil
}

// AuthenticateApp obtains a fresh app access token through the
// client-credentials grant and installs it, replacing any previous app
// credential. The requested scope set is recorded so later refreshes
// re-request the same scopes.
func (c *Client) AuthenticateApp(ctx context.Context, scope []scopes.AuthScope) error {
	return c.generateAppToken(ctx, scope)
}

func (c *Client) generateAppToken(ctx context.Context, scope []scopes.AuthScope) error {
	cfg := &clientcredentials.Config{
		ClientID:     c.appID,
		ClientSecret: c.appSecret,
		TokenURL:     c.authBaseURL + "oauth2/token",
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	for _, s := range scope {
		cfg.Scopes = append(cfg.Scopes, string(s))
	}

	tok, err := cfg.Token(context.WithValue(ctx, oauth2.HTTPClient, c.httpClient))
	if err != nil {
		return authorizationError(err)
	}

	c.store.SetApp(credentials.AppCredential{Token: tok.AccessToken, Scopes: scope})
	c.logger.Debug().Msg("app access token generated")
	return nil
}

// SetUserAuthentication installs a user token obtained through the user
// authorization flow (see the auth package). The scope set is the set the
// token was issued with; it is not verified against the server. A refresh
// token is required while auto-refresh is enabled.
func (c *Client) SetUserAuthentication(token string, scope []scopes.AuthScope, refreshToken string) error {
	if refreshToken == "" && c.autoRefreshAuth {
		return errors.New("[Client.SetUserAuthentication] refreshToken has to be provided when auto refresh is enabled")
	}
	c.store.SetUser(credentials.UserCredential{
		Token:        token,
		RefreshToken: refreshToken,
		Scopes:       scope,
	})
	return nil
}

// AppToken returns the app access token the client uses, or "" when app
// authentication has not been set.
func (c *Client) AppToken() string {
	return c.store.AppToken()
}

// UserAuthToken returns the current user access token, or "" when no user
// authentication is set.
func (c *Client) UserAuthToken() string {
	return c.store.UserToken()
}

// UsedToken returns the token used for calls with no explicit auth
// requirement: the user token when present, else the app token.
func (c *Client) UsedToken() string {
	return c.store.UsedToken()
}

// refreshUsedToken replaces the credential a rejected request was built
// with. Concurrent refreshes of the same credential collapse into one
// exchange; every waiter observes the same outcome.
func (c *Client) refreshUsedToken(ctx context.Context, used credentialKind) error {
	switch used {
	case credentialUser:
		_, err, _ := c.refreshGroup.Do("user", func() (interface{}, error) {
			return nil, c.refreshUserToken(ctx)
		})
		return err
	case credentialApp:
		_, err, _ := c.refreshGroup.Do("app", func() (interface{}, error) {
			cred, _ := c.store.App()
			return nil, c.generateAppToken(ctx, cred.Scopes)
		})
		return err
	}
	return nil
}

func (c *Client) refreshUserToken(ctx context.Context) error {
	cred, ok := c.store.User()
	if !ok {
		return errors.Wrap(ErrUnauthorized, "[Client.refreshUserToken]")
	}
	if cred.RefreshToken == "" {
		return &AuthorizationError{Message: "no refresh token set"}
	}

	c.logger.Debug().Msg("refreshing user access token")
	accessToken, refreshToken, err := auth.RefreshAccessToken(ctx, cred.RefreshToken, c.appID, c.appSecret,
		auth.WithBaseURL(c.authBaseURL),
		auth.WithHTTPClient(c.httpClient))
	if err != nil {
		return authorizationError(err)
	}

	// Token and refresh token are replaced as a pair.
	c.store.SetUser(credentials.UserCredential{
		Token:        accessToken,
		RefreshToken: refreshToken,
		Scopes:       cred.Scopes,
	})
	return nil
}
