// Package credentials holds the bearer credentials a client is operating
// with: at most one app credential and at most one user credential.
package credentials

import (
	"sync"

	"github.com/jrsteele09/go-twitch-client/scopes"
)

// AppCredential is a bearer credential identifying the client application
// itself, obtained through the client-credentials grant.
type AppCredential struct {
	Token  string
	Scopes []scopes.AuthScope
}

// UserCredential is a bearer credential identifying an end user, paired
// with the refresh token used to mint a replacement access token without
// re-prompting the user.
type UserCredential struct {
	Token        string
	RefreshToken string
	Scopes       []scopes.AuthScope
}

// Store is the in-memory credential holder shared by all calls issued
// through one client. Replacement is a whole-value swap under the lock so
// a concurrent reader never observes a token paired with a stale refresh
// token.
type Store struct {
	mu   sync.RWMutex
	app  *AppCredential
	user *UserCredential
}

func NewStore() *Store {
	return &Store{}
}

// SetApp installs or replaces the app credential.
func (s *Store) SetApp(cred AppCredential) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.app = &cred
}

// SetUser installs or replaces the user credential.
func (s *Store) SetUser(cred UserCredential) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &cred
}

// App returns the current app credential and whether one is installed.
func (s *Store) App() (AppCredential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.app == nil {
		return AppCredential{}, false
	}
	return *s.app, true
}

// User returns the current user credential and whether one is installed.
func (s *Store) User() (UserCredential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return UserCredential{}, false
	}
	return *s.user, true
}

// AppToken returns the app token, or "" when no app credential is set.
func (s *Store) AppToken() string {
	cred, ok := s.App()
	if !ok {
		return ""
	}
	return cred.Token
}

// UserToken returns the user token, or "" when no user credential is set.
func (s *Store) UserToken() string {
	cred, ok := s.User()
	if !ok {
		return ""
	}
	return cred.Token
}

// UsedToken returns the token a call with no explicit auth requirement
// would use: the user token when present, else the app token, else "".
func (s *Store) UsedToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user != nil {
		return s.user.Token
	}
	if s.app != nil {
		return s.app.Token
	}
	return ""
}
