package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/jrsteele09/go-twitch-client/scopes"
)

// DefaultRedirectURI is where the browser lands after the user clicks
// Authorize. The authenticator runs a local server on this address; the
// same URI has to be registered on the application's Twitch console.
const DefaultRedirectURI = "http://localhost:17563"

const callbackPage = `<!DOCTYPE html>
<html><head><title>Twitch Authentication</title></head>
<body><h3>Authentication complete.</h3>You may now close this page.</body></html>`

// UserToken is the result of a completed user authorization flow.
type UserToken struct {
	AccessToken  string
	RefreshToken string
	Scopes       []scopes.AuthScope
	// IDToken is only present when the openid scope was requested.
	IDToken string
}

// UserAuthenticator drives the browser authorization-code flow: it hands
// out the authorization URL, receives the redirect on a local callback
// server, validates the state parameter and exchanges the code for a
// token pair.
type UserAuthenticator struct {
	appID       string
	appSecret   string
	scope       []scopes.AuthScope
	redirectURI string
	forceVerify bool
	state       string
	nonce       string

	settings *settings
}

// AuthenticatorOption modifies the UserAuthenticator during construction.
type AuthenticatorOption func(*UserAuthenticator)

// WithRedirectURI overrides the callback address. The local callback
// server binds to its host and port.
func WithRedirectURI(redirectURI string) AuthenticatorOption {
	return func(a *UserAuthenticator) {
		a.redirectURI = redirectURI
	}
}

// WithForceVerify makes Twitch re-prompt the user even when the
// application was already authorized.
func WithForceVerify(force bool) AuthenticatorOption {
	return func(a *UserAuthenticator) {
		a.forceVerify = force
	}
}

// WithSettings applies endpoint options (base URL, HTTP client, logger).
func WithSettings(options ...Option) AuthenticatorOption {
	return func(a *UserAuthenticator) {
		for _, opt := range options {
			opt(a.settings)
		}
	}
}

// NewUserAuthenticator creates an authenticator for the given application
// and scope set. Every authenticator carries a fresh random state value.
func NewUserAuthenticator(appID, appSecret string, scope []scopes.AuthScope, options ...AuthenticatorOption) *UserAuthenticator {
	a := &UserAuthenticator{
		appID:       appID,
		appSecret:   appSecret,
		scope:       scope,
		redirectURI: DefaultRedirectURI,
		state:       uuid.New().String(),
		nonce:       uuid.New().String(),
		settings:    newSettings(),
	}
	for _, opt := range options {
		opt(a)
	}
	return a
}

// State returns the random state value bound to this authenticator. The
// callback redirect has to carry it back unchanged.
func (a *UserAuthenticator) State() string {
	return a.state
}

// AuthenticationURL returns the URL the user has to open in a browser to
// authorize the application.
func (a *UserAuthenticator) AuthenticationURL() string {
	cfg := a.config()

	opts := []oauth2.AuthCodeOption{}
	if a.forceVerify {
		opts = append(opts, oauth2.SetAuthURLParam("force_verify", "true"))
	}
	if scopes.Contains(a.scope, scopes.OpenID) {
		opts = append(opts, oauth2.SetAuthURLParam("nonce", a.nonce))
	}
	return cfg.AuthCodeURL(a.state, opts...)
}

// Authenticate runs the local callback server, waits for the user to
// complete the authorization in the browser, and exchanges the received
// code for a token pair. It blocks until the redirect arrives or ctx is
// done.
func (a *UserAuthenticator) Authenticate(ctx context.Context) (*UserToken, error) {
	redirect, err := url.Parse(a.redirectURI)
	if err != nil {
		return nil, errors.Wrap(err, "[UserAuthenticator.Authenticate] parsing redirect URI")
	}

	type callback struct {
		code string
		err  error
	}
	done := make(chan callback, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("state") != a.state {
			http.Error(w, "bad state", http.StatusBadRequest)
			done <- callback{err: errors.New("state parameter mismatch")}
			return
		}
		if errCode := query.Get("error"); errCode != "" {
			http.Error(w, errCode, http.StatusBadRequest)
			done <- callback{err: errors.Errorf("authorization denied: %s (%s)", errCode, query.Get("error_description"))}
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, callbackPage)
		done <- callback{code: query.Get("code")}
	})

	server := &http.Server{Addr: redirect.Host, Handler: mux}
	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()
	defer a.shutdown(server)

	a.settings.logger.Info().Str("url", a.AuthenticationURL()).Msg("waiting for user authorization")

	var cb callback
	select {
	case cb = <-done:
	case err := <-serveErr:
		return nil, errors.Wrap(err, "[UserAuthenticator.Authenticate] callback server")
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if cb.err != nil {
		return nil, errors.Wrap(cb.err, "[UserAuthenticator.Authenticate]")
	}

	return a.exchangeCode(ctx, cb.code)
}

func (a *UserAuthenticator) exchangeCode(ctx context.Context, code string) (*UserToken, error) {
	tok, err := a.config().Exchange(a.settings.oauthContext(ctx), code)
	if err != nil {
		return nil, errors.Wrap(err, "[UserAuthenticator.exchangeCode] code exchange")
	}

	userToken := &UserToken{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Scopes:       a.scope,
	}

	if rawIDToken, ok := tok.Extra("id_token").(string); ok && rawIDToken != "" {
		claims, err := IDTokenClaims(rawIDToken)
		if err != nil {
			return nil, errors.Wrap(err, "[UserAuthenticator.exchangeCode] reading id_token")
		}
		if nonce, _ := claims["nonce"].(string); nonce != a.nonce {
			return nil, errors.New("[UserAuthenticator.exchangeCode] id_token nonce mismatch")
		}
		userToken.IDToken = rawIDToken
	}

	return userToken, nil
}

func (a *UserAuthenticator) config() *oauth2.Config {
	scope := make([]string, 0, len(a.scope))
	for _, s := range a.scope {
		scope = append(scope, string(s))
	}
	return a.settings.oauthConfig(a.appID, a.appSecret, a.redirectURI, scope)
}

func (a *UserAuthenticator) shutdown(server *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(ctx)
}
