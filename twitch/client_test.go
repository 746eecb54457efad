package twitch_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-twitch-client/scopes"
	"github.com/jrsteele09/go-twitch-client/twitch"
)

func TestNew_RequiresAppCredentials(t *testing.T) {
	_, err := twitch.New("", "secret")
	require.Error(t, err)

	_, err = twitch.New("app-id", "")
	require.Error(t, err)

	client, err := twitch.New("app-id", "secret")
	require.NoError(t, err)
	require.NotNil(t, client)
}

func TestAuthenticateApp(t *testing.T) {
	t.Run("installs the app token with the requested scopes", func(t *testing.T) {
		var gotScope, gotGrant string
		authSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = r.ParseForm()
			gotGrant = r.FormValue("grant_type")
			gotScope = r.FormValue("scope")
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"access_token": "new-app-token",
				"token_type":   "bearer",
				"expires_in":   3600,
			})
		}))
		defer authSrv.Close()

		client, err := twitch.New("app-id", "secret", twitch.WithAuthBaseURL(authSrv.URL+"/"))
		require.NoError(t, err)

		err = client.AuthenticateApp(context.Background(), []scopes.AuthScope{scopes.BitsRead, scopes.ClipsEdit})
		require.NoError(t, err)
		require.Equal(t, "client_credentials", gotGrant)
		require.Equal(t, "bits:read clips:edit", gotScope)
		require.Equal(t, "new-app-token", client.AppToken())
	})

	t.Run("endpoint rejection surfaces status and body", func(t *testing.T) {
		authSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"message":"invalid client secret"}`))
		}))
		defer authSrv.Close()

		client, err := twitch.New("app-id", "wrong-secret", twitch.WithAuthBaseURL(authSrv.URL+"/"))
		require.NoError(t, err)

		err = client.AuthenticateApp(context.Background(), nil)
		var authErr *twitch.AuthorizationError
		require.ErrorAs(t, err, &authErr)
		require.Equal(t, http.StatusForbidden, authErr.StatusCode)
		require.Contains(t, authErr.Body, "invalid client secret")
		require.Equal(t, "", client.AppToken())
	})
}

func TestSetUserAuthentication(t *testing.T) {
	t.Run("refresh token required while auto refresh is enabled", func(t *testing.T) {
		client, err := twitch.New("app-id", "secret")
		require.NoError(t, err)

		err = client.SetUserAuthentication("user-token", nil, "")
		require.Error(t, err)
		require.Equal(t, "", client.UserAuthToken())
	})

	t.Run("refresh token optional with auto refresh disabled", func(t *testing.T) {
		client, err := twitch.New("app-id", "secret", twitch.WithAutoRefresh(false))
		require.NoError(t, err)

		require.NoError(t, client.SetUserAuthentication("user-token", nil, ""))
		require.Equal(t, "user-token", client.UserAuthToken())
	})
}

func TestUsedToken(t *testing.T) {
	authSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "app-token",
			"token_type":   "bearer",
		})
	}))
	defer authSrv.Close()

	client, err := twitch.New("app-id", "secret", twitch.WithAuthBaseURL(authSrv.URL+"/"))
	require.NoError(t, err)

	require.Equal(t, "", client.UsedToken())

	require.NoError(t, client.AuthenticateApp(context.Background(), nil))
	require.Equal(t, "app-token", client.UsedToken())

	require.NoError(t, client.SetUserAuthentication("user-token", nil, "refresh"))
	require.Equal(t, "user-token", client.UsedToken())
}
