package twitch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-twitch-client/credentials"
	"github.com/jrsteele09/go-twitch-client/scopes"
)

const (
	testAppID     = "test-app-id"
	testAppSecret = "test-app-secret"
)

// apiRecorder is a scripted resource endpoint: it answers the configured
// statuses in order (then 200) and records every request's auth header.
type apiRecorder struct {
	mu       sync.Mutex
	statuses []int
	calls    int
	auth     []string
}

func (r *apiRecorder) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.auth = append(r.auth, req.Header.Get("Authorization"))
		status := http.StatusOK
		if r.calls < len(r.statuses) {
			status = r.statuses[r.calls]
		}
		r.calls++
		w.WriteHeader(status)
		if status == http.StatusOK {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"data": []interface{}{}})
		}
	}
}

func (r *apiRecorder) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func (r *apiRecorder) authHeaders() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.auth...)
}

// authRecorder is a scripted authorization endpoint serving both the
// client-credentials and the refresh grant.
type authRecorder struct {
	mu         sync.Mutex
	calls      int
	grants     []string
	failStatus int
	failBody   string
}

func (r *authRecorder) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		r.mu.Lock()
		defer r.mu.Unlock()
		_ = req.ParseForm()
		r.calls++
		r.grants = append(r.grants, req.FormValue("grant_type"))

		if r.failStatus != 0 {
			w.WriteHeader(r.failStatus)
			_, _ = w.Write([]byte(r.failBody))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token":  "fresh-access-token",
			"refresh_token": "fresh-refresh-token",
			"token_type":    "bearer",
			"expires_in":    3600,
		})
	}
}

func (r *authRecorder) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func newTestClient(t *testing.T, apiURL, authURL string, options ...Option) *Client {
	t.Helper()
	opts := append([]Option{
		WithAPIBaseURL(apiURL + "/"),
		WithAuthBaseURL(authURL + "/"),
	}, options...)
	client, err := New(testAppID, testAppSecret, opts...)
	require.NoError(t, err)
	return client
}

func setupServers(t *testing.T, api *apiRecorder, authRec *authRecorder) (*httptest.Server, *httptest.Server) {
	t.Helper()
	apiSrv := httptest.NewServer(api.handler())
	t.Cleanup(apiSrv.Close)
	authSrv := httptest.NewServer(authRec.handler())
	t.Cleanup(authSrv.Close)
	return apiSrv, authSrv
}

func TestDoRequest_FailsFastWithoutCredential(t *testing.T) {
	api := &apiRecorder{}
	authRec := &authRecorder{}
	apiSrv, authSrv := setupServers(t, api, authRec)
	client := newTestClient(t, apiSrv.URL, authSrv.URL)

	t.Run("user auth required but not set", func(t *testing.T) {
		_, err := client.doRequest(context.Background(), http.MethodGet, client.apiBaseURL+"users", AuthTypeUser, nil, nil)
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("app auth required but not set", func(t *testing.T) {
		_, err := client.doRequest(context.Background(), http.MethodGet, client.apiBaseURL+"users", AuthTypeApp, nil, nil)
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	require.Equal(t, 0, api.callCount())
	require.Equal(t, 0, authRec.callCount())
}

func TestDoRequest_FailsFastOnMissingScope(t *testing.T) {
	api := &apiRecorder{}
	authRec := &authRecorder{}
	apiSrv, authSrv := setupServers(t, api, authRec)
	client := newTestClient(t, apiSrv.URL, authSrv.URL)

	client.store.SetApp(appCredential("app-token", scopes.AnalyticsReadGames))

	required := []scopes.AuthScope{scopes.AnalyticsReadGames, scopes.BitsRead}
	_, err := client.doRequest(context.Background(), http.MethodGet, client.apiBaseURL+"bits/leaderboard", AuthTypeApp, required, nil)

	var missingScope *MissingScopeError
	require.ErrorAs(t, err, &missingScope)
	require.Equal(t, scopes.BitsRead, missingScope.Scope)
	require.Equal(t, 0, api.callCount())
}

func TestDoRequest_RefreshRetryOn401(t *testing.T) {
	api := &apiRecorder{statuses: []int{http.StatusUnauthorized, http.StatusOK}}
	authRec := &authRecorder{}
	apiSrv, authSrv := setupServers(t, api, authRec)
	client := newTestClient(t, apiSrv.URL, authSrv.URL)

	require.NoError(t, client.SetUserAuthentication("stale-token", []scopes.AuthScope{scopes.BitsRead}, "refresh-1"))

	resp, err := client.doRequest(context.Background(), http.MethodGet, client.apiBaseURL+"bits/leaderboard", AuthTypeUser, []scopes.AuthScope{scopes.BitsRead}, nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 2, api.callCount())
	require.Equal(t, 1, authRec.callCount())

	// The resend carried the refreshed token, and the stored pair was
	// replaced atomically.
	require.Equal(t, []string{"Bearer stale-token", "Bearer fresh-access-token"}, api.authHeaders())
	cred, ok := client.store.User()
	require.True(t, ok)
	require.Equal(t, "fresh-access-token", cred.Token)
	require.Equal(t, "fresh-refresh-token", cred.RefreshToken)
}

func TestDoRequest_SecondConsecutive401ReturnsRawResponse(t *testing.T) {
	api := &apiRecorder{statuses: []int{http.StatusUnauthorized, http.StatusUnauthorized}}
	authRec := &authRecorder{}
	apiSrv, authSrv := setupServers(t, api, authRec)
	client := newTestClient(t, apiSrv.URL, authSrv.URL)

	require.NoError(t, client.SetUserAuthentication("stale-token", nil, "refresh-1"))

	resp, err := client.doRequest(context.Background(), http.MethodGet, client.apiBaseURL+"users", AuthTypeUser, nil, nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	// Budget spent: the second 401 is handed back, not turned into an error.
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, 2, api.callCount())
	require.Equal(t, 1, authRec.callCount())
}

func TestDoRequest_401AppCredentialRegeneratesAppToken(t *testing.T) {
	api := &apiRecorder{statuses: []int{http.StatusUnauthorized, http.StatusOK}}
	authRec := &authRecorder{}
	apiSrv, authSrv := setupServers(t, api, authRec)
	client := newTestClient(t, apiSrv.URL, authSrv.URL)

	client.store.SetApp(appCredential("stale-app-token"))

	resp, err := client.doRequest(context.Background(), http.MethodGet, client.apiBaseURL+"users", AuthTypeApp, nil, nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, []string{"client_credentials"}, authRec.grants)
	require.Equal(t, "fresh-access-token", client.AppToken())
}

func TestDoRequest_RefreshFailurePropagates(t *testing.T) {
	api := &apiRecorder{statuses: []int{http.StatusUnauthorized}}
	authRec := &authRecorder{failStatus: http.StatusBadRequest, failBody: `{"message":"Invalid refresh token"}`}
	apiSrv, authSrv := setupServers(t, api, authRec)
	client := newTestClient(t, apiSrv.URL, authSrv.URL)

	require.NoError(t, client.SetUserAuthentication("stale-token", nil, "bad-refresh"))

	_, err := client.doRequest(context.Background(), http.MethodGet, client.apiBaseURL+"users", AuthTypeUser, nil, nil)

	var authErr *AuthorizationError
	require.ErrorAs(t, err, &authErr)
	require.Equal(t, http.StatusBadRequest, authErr.StatusCode)
	require.Contains(t, authErr.Body, "Invalid refresh token")
	// The original request is not retried after a failed refresh.
	require.Equal(t, 1, api.callCount())
}

func TestDoRequest_TransientRetryOn503(t *testing.T) {
	t.Run("503 then 200 returns the 200", func(t *testing.T) {
		api := &apiRecorder{statuses: []int{http.StatusServiceUnavailable, http.StatusOK}}
		authRec := &authRecorder{}
		apiSrv, authSrv := setupServers(t, api, authRec)
		client := newTestClient(t, apiSrv.URL, authSrv.URL)
		client.store.SetApp(appCredential("app-token"))

		resp, err := client.doRequest(context.Background(), http.MethodGet, client.apiBaseURL+"users", AuthTypeApp, nil, nil)
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, 2, api.callCount())
		// The 503 path never touches the token refresher.
		require.Equal(t, 0, authRec.callCount())
	})

	t.Run("two consecutive 503s are a backend error", func(t *testing.T) {
		api := &apiRecorder{statuses: []int{http.StatusServiceUnavailable, http.StatusServiceUnavailable}}
		authRec := &authRecorder{}
		apiSrv, authSrv := setupServers(t, api, authRec)
		client := newTestClient(t, apiSrv.URL, authSrv.URL)
		client.store.SetApp(appCredential("app-token"))

		_, err := client.doRequest(context.Background(), http.MethodGet, client.apiBaseURL+"users", AuthTypeApp, nil, nil)
		require.ErrorIs(t, err, ErrTwitchBackend)
		require.Equal(t, 2, api.callCount())
		require.Equal(t, 0, authRec.callCount())
	})
}

func TestDoRequest_AutoRefreshDisabledReturnsRawResponses(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusServiceUnavailable} {
		api := &apiRecorder{statuses: []int{status}}
		authRec := &authRecorder{}
		apiSrv, authSrv := setupServers(t, api, authRec)
		client := newTestClient(t, apiSrv.URL, authSrv.URL, WithAutoRefresh(false))
		client.store.SetApp(appCredential("app-token"))

		resp, err := client.doRequest(context.Background(), http.MethodGet, client.apiBaseURL+"users", AuthTypeApp, nil, nil)
		require.NoError(t, err)
		resp.Body.Close()

		require.Equal(t, status, resp.StatusCode)
		require.Equal(t, 1, api.callCount())
		require.Equal(t, 0, authRec.callCount())
	}
}

func TestDoRequest_Unauthenticated401IsNotRefreshed(t *testing.T) {
	api := &apiRecorder{statuses: []int{http.StatusUnauthorized}}
	authRec := &authRecorder{}
	apiSrv, authSrv := setupServers(t, api, authRec)
	client := newTestClient(t, apiSrv.URL, authSrv.URL)

	// No credential installed, no explicit requirement: the call goes out
	// with only the Client-Id header, and a 401 has nothing to refresh.
	resp, err := client.doRequest(context.Background(), http.MethodGet, client.apiBaseURL+"users", AuthTypeNone, nil, nil)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, 1, api.callCount())
	require.Equal(t, 0, authRec.callCount())
	require.Equal(t, []string{""}, api.authHeaders())
}

func appCredential(token string, scope ...scopes.AuthScope) credentials.AppCredential {
	return credentials.AppCredential{Token: token, Scopes: scope}
}
