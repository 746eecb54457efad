package twitch

import (
	"errors"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/jrsteele09/go-twitch-client/scopes"
)

var (
	// ErrUnauthorized is returned before any network I/O when a call
	// requires an authentication that has not been set on the client.
	ErrUnauthorized = errors.New("authentication not set")

	// ErrTwitchBackend is returned when the API answered 503 to a request
	// and to its single mandated retry.
	ErrTwitchBackend = errors.New("the Twitch API returned a server error")
)

// MissingScopeError is returned before any network I/O when the selected
// credential was not issued with a scope the call requires.
type MissingScopeError struct {
	Scope scopes.AuthScope
}

func (e *MissingScopeError) Error() string {
	return fmt.Sprintf("require auth scope %s", e.Scope)
}

// AuthorizationError is returned when the authorization endpoint rejects
// an authentication or refresh attempt, answers with an unparsable body,
// or omits the expected token field. StatusCode and Body are zero when the
// failure happened before a response was received.
type AuthorizationError struct {
	StatusCode int
	Body       string
	Message    string
}

func (e *AuthorizationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("authentication failed with code %d (%s)", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("authentication failed: %s", e.Message)
}

// authorizationError converts a token-endpoint failure into an
// *AuthorizationError, preserving the response status and body when the
// oauth2 transport captured them.
func authorizationError(err error) *AuthorizationError {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return &AuthorizationError{
			StatusCode: retrieveErr.Response.StatusCode,
			Body:       string(retrieveErr.Body),
			Message:    err.Error(),
		}
	}
	return &AuthorizationError{Message: err.Error()}
}
