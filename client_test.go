package authclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authclient "github.com/leyinvest/go-auth-client"
)

func newTestClient(baseURL string) (*authclient.Client, *authclient.TokenStore) {
	cfg := authclient.NewConfig(baseURL)
	tokens := authclient.NewTokenStore(authclient.NewMemoryStorage(), "")
	return authclient.NewClient(cfg, tokens), tokens
}

func TestClientStripsTrailingSlash(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{}`)) //nolint:errcheck
	}))
	defer srv.Close()

	client, _ := newTestClient(srv.URL)

	require.NoError(t, client.Get(context.Background(), "/users/me/", nil))
	assert.Equal(t, "/users/me", gotPath)

	require.NoError(t, client.Get(context.Background(), "/users/me", nil))
	assert.Equal(t, "/users/me", gotPath)
}

func TestClientAttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`)) //nolint:errcheck
	}))
	defer srv.Close()

	client, tokens := newTestClient(srv.URL)
	require.NoError(t, tokens.SetToken("jwt.token.value"))

	require.NoError(t, client.Get(context.Background(), "/users/me/", nil))
	assert.Equal(t, "Bearer jwt.token.value", gotAuth)
}

func TestClientSkipsBearerOnPublicEndpoints(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`)) //nolint:errcheck
	}))
	defer srv.Close()

	client, tokens := newTestClient(srv.URL)
	require.NoError(t, tokens.SetToken("jwt.token.value"))

	require.NoError(t, client.Post(context.Background(), "/auth/login/", map[string]string{}, nil))
	assert.Equal(t, "", gotAuth)

	require.NoError(t, client.Post(context.Background(), "/register/step1/", map[string]string{}, nil))
	assert.Equal(t, "", gotAuth)
}

func TestClientSetsStandardHeaders(t *testing.T) {
	var gotContentType, gotAccept, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotAccept = r.Header.Get("Accept")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{}`)) //nolint:errcheck
	}))
	defer srv.Close()

	client, _ := newTestClient(srv.URL)
	require.NoError(t, client.Post(context.Background(), "/auth/login/", map[string]string{}, nil))

	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "application/json", gotAccept)
	assert.NotEqual(t, "", gotRequestID)
}

func TestClientRetriesTimeoutsOnly(t *testing.T) {
	transport := &scriptedTransport{
		respond: func(call int, r *http.Request) (*http.Response, error) {
			return nil, timeoutError{}
		},
	}

	client, _ := newTestClient("http://api.test")
	client.WithHTTPClient(&http.Client{Transport: transport})

	err := client.Get(context.Background(), "/users/me/", nil)
	require.Error(t, err)
	assert.Equal(t, authclient.KindTimeoutError, authclient.Kind(err))

	// Initial attempt plus the two configured retries.
	assert.Equal(t, 3, transport.calls())
}

func TestClientTimeoutRetrySucceedsMidway(t *testing.T) {
	transport := &scriptedTransport{
		respond: func(call int, r *http.Request) (*http.Response, error) {
			if call == 0 {
				return nil, timeoutError{}
			}
			return jsonResponse(http.StatusOK, `{"id": 1}`), nil
		},
	}

	client, _ := newTestClient("http://api.test")
	client.WithHTTPClient(&http.Client{Transport: transport})

	var out map[string]any
	require.NoError(t, client.Get(context.Background(), "/users/me/", &out))
	assert.Equal(t, 2, transport.calls())
}

func TestClientRequestIDStableAcrossRetries(t *testing.T) {
	transport := &scriptedTransport{
		respond: func(call int, r *http.Request) (*http.Response, error) {
			if call == 0 {
				return nil, timeoutError{}
			}
			return jsonResponse(http.StatusOK, `{}`), nil
		},
	}

	client, _ := newTestClient("http://api.test")
	client.WithHTTPClient(&http.Client{Transport: transport})

	require.NoError(t, client.Get(context.Background(), "/users/me/", nil))
	require.Equal(t, 2, transport.calls())

	first := transport.request(0).Header.Get("X-Request-ID")
	second := transport.request(1).Header.Get("X-Request-ID")
	assert.NotEqual(t, "", first)
	assert.Equal(t, first, second)
}

func TestClientDoesNotRetryServerErrors(t *testing.T) {
	transport := &scriptedTransport{
		respond: func(call int, r *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusInternalServerError, `{}`), nil
		},
	}

	client, _ := newTestClient("http://api.test")
	client.WithHTTPClient(&http.Client{Transport: transport})

	err := client.Get(context.Background(), "/users/me/", nil)
	require.Error(t, err)
	assert.Equal(t, authclient.KindServerError, authclient.Kind(err))
	assert.Equal(t, 1, transport.calls())
}

func TestClientUnauthorizedClearsEverything(t *testing.T) {
	transport := &scriptedTransport{
		respond: func(call int, r *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusUnauthorized, `{}`), nil
		},
	}

	nav := &stubNavigator{path: "/dashboard"}
	cache := newMemCache()
	cache.CacheAuthRecord(context.Background(), &authclient.CachedAuth{AccessToken: "jwt.token.value"}) //nolint:errcheck

	invalidated := false

	client, tokens := newTestClient("http://api.test")
	client.WithHTTPClient(&http.Client{Transport: transport}).
		WithAuthCache(cache).
		WithNavigator(nav).
		WithSessionInvalidator(func() { invalidated = true })
	require.NoError(t, tokens.SetToken("jwt.token.value"))

	err := client.Get(context.Background(), "/users/me/", nil)
	require.Error(t, err)
	assert.Equal(t, authclient.KindAuthError, authclient.Kind(err))

	assert.True(t, invalidated)
	assert.Equal(t, "", tokens.Token())
	assert.Nil(t, cache.authRecord())
	assert.Equal(t, []string{"/auth/login"}, nav.visits())

	// 401s are never retried.
	assert.Equal(t, 1, transport.calls())
}

func TestClientUnauthorizedSkipsRedirectOnAuthPages(t *testing.T) {
	transport := &scriptedTransport{
		respond: func(call int, r *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusUnauthorized, `{}`), nil
		},
	}

	nav := &stubNavigator{path: "/auth/login"}

	client, _ := newTestClient("http://api.test")
	client.WithHTTPClient(&http.Client{Transport: transport}).WithNavigator(nav)

	err := client.Get(context.Background(), "/users/me/", nil)
	require.Error(t, err)
	assert.Empty(t, nav.visits())
}

func TestClientDecodesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 7, "email": "test@example.com"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	client, _ := newTestClient(srv.URL)

	var user authclient.User
	require.NoError(t, client.Get(context.Background(), "/users/me/", &user))
	assert.Equal(t, 7, user.ID)
	assert.Equal(t, "test@example.com", user.Email)
}

func TestClientToleratesEmptySuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client, _ := newTestClient(srv.URL)

	var out map[string]any
	require.NoError(t, client.Get(context.Background(), "/users/me/", &out))
}
