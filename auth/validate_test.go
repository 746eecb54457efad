package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-twitch-client/auth"
)

func TestValidateToken(t *testing.T) {
	t.Run("valid token", func(t *testing.T) {
		var gotAuthHeader string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuthHeader = r.Header.Get("Authorization")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"client_id":"test-app-id","login":"somelogin","scopes":["bits:read"],"user_id":"1234","expires_in":5520838}`))
		}))
		defer srv.Close()

		validation, err := auth.ValidateToken(context.Background(), "some-token", auth.WithBaseURL(srv.URL+"/"))
		require.NoError(t, err)
		require.Equal(t, "OAuth some-token", gotAuthHeader)
		require.True(t, validation.Valid())
		require.Equal(t, "somelogin", validation.Login)
		require.Equal(t, []string{"bits:read"}, validation.Scopes)
	})

	t.Run("invalid token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"status":401,"message":"invalid access token"}`))
		}))
		defer srv.Close()

		validation, err := auth.ValidateToken(context.Background(), "expired", auth.WithBaseURL(srv.URL+"/"))
		require.NoError(t, err)
		require.False(t, validation.Valid())
		require.Equal(t, "invalid access token", validation.Message)
	})
}

func TestRevokeToken(t *testing.T) {
	t.Run("confirmed revocation", func(t *testing.T) {
		var gotQuery string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.RawQuery
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		revoked, err := auth.RevokeToken(context.Background(), testAppID, "some-token", auth.WithBaseURL(srv.URL+"/"))
		require.NoError(t, err)
		require.True(t, revoked)
		require.Contains(t, gotQuery, "client_id="+testAppID)
		require.Contains(t, gotQuery, "token=some-token")
	})

	t.Run("rejected revocation", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer srv.Close()

		revoked, err := auth.RevokeToken(context.Background(), testAppID, "bad-token", auth.WithBaseURL(srv.URL+"/"))
		require.NoError(t, err)
		require.False(t, revoked)
	})
}
