package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/rxreturn/rxreturn-go/internal/credentials"
	"github.com/rxreturn/rxreturn-go/pkg/logger"
)

func newUnauthenticatedClient(t *testing.T, handler http.Handler) (*Client, *credentials.MemoryStore) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := credentials.NewMemoryStore()
	c, err := New(Config{BaseURL: server.URL, Credentials: store, Logger: logger.Nop()})
	require.NoError(t, err)
	return c, store
}

func authSuccessEnvelope() map[string]any {
	return map[string]any{
		"status": "success",
		"data": map[string]any{
			"access_token":  "at-1",
			"refresh_token": "rt-1",
			"user": map[string]any{
				"id":            "user-1",
				"email":         "rx@example.com",
				"first_name":    "Pat",
				"last_name":     "Jones",
				"pharmacy_id":   "ph-42",
				"pharmacy_name": "Corner Pharmacy",
			},
		},
	}
}

func TestSignIn_StoresCredentialsAndAuthenticates(t *testing.T) {
	var gotBody string
	c, store := newUnauthenticatedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/signin", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		writeEnvelope(t, w, http.StatusOK, authSuccessEnvelope())
	}))

	require.Equal(t, StateUnauthenticated, c.Auth().State())

	user, err := c.Auth().SignIn(context.Background(), "rx@example.com", "hunter2")
	require.NoError(t, err)

	assert.Equal(t, "rx@example.com", gjson.Get(gotBody, "email").String())
	assert.Equal(t, "hunter2", gjson.Get(gotBody, "password").String())

	assert.Equal(t, StateAuthenticated, c.Auth().State())
	assert.Equal(t, "Pat", user.FirstName)
	assert.Equal(t, "member", user.Role) // default for missing role

	assert.Equal(t, "at-1", store.AccessToken())
	assert.Equal(t, "rt-1", store.RefreshToken())
	session, ok := store.Session()
	require.True(t, ok)
	assert.Equal(t, "ph-42", session.PharmacyID)
}

func TestSignIn_FailureStaysUnauthenticated(t *testing.T) {
	c, store := newUnauthenticatedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, http.StatusUnauthorized, map[string]any{"status": "error", "message": "Invalid credentials"})
	}))

	_, err := c.Auth().SignIn(context.Background(), "rx@example.com", "wrong")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid credentials", apiErr.Message)

	assert.Equal(t, StateUnauthenticated, c.Auth().State())
	assert.Empty(t, store.AccessToken())
}

func TestSignUp_SendsSnakeCaseFields(t *testing.T) {
	var gotBody string
	c, _ := newUnauthenticatedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/signup", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		writeEnvelope(t, w, http.StatusOK, authSuccessEnvelope())
	}))

	_, err := c.Auth().SignUp(context.Background(), SignUpRequest{
		Email:        "rx@example.com",
		Password:     "hunter2",
		FirstName:    "Pat",
		LastName:     "Jones",
		PharmacyName: "Corner Pharmacy",
	})
	require.NoError(t, err)

	assert.Equal(t, "Pat", gjson.Get(gotBody, "first_name").String())
	assert.Equal(t, "Corner Pharmacy", gjson.Get(gotBody, "pharmacy_name").String())
	assert.False(t, gjson.Get(gotBody, "phone").Exists())
}

func TestRestore_AuthenticatedWithoutNetworkCall(t *testing.T) {
	var calls int
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	// newTestClient pre-loads tokens and a session; New already restored.
	assert.Equal(t, StateAuthenticated, c.Auth().State())
	assert.Equal(t, StateAuthenticated, c.Auth().Restore())
	assert.Zero(t, calls)

	user, ok := c.Auth().CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "Corner Pharmacy", user.PharmacyName)
}

func TestRefresh_NoStoredTokenClearsAndSkipsNetwork(t *testing.T) {
	var calls int
	c, store := newUnauthenticatedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	require.NoError(t, store.SetTokens("stale-access", ""))
	require.NoError(t, store.SetSession(credentials.Session{UserID: "user-1"}))

	token, err := c.Auth().RefreshAccessToken(context.Background())
	require.NoError(t, err)

	assert.Empty(t, token)
	assert.Zero(t, calls)
	assert.Empty(t, store.AccessToken())
	_, ok := store.Session()
	assert.False(t, ok)
	assert.Equal(t, StateUnauthenticated, c.Auth().State())
}

func TestRefresh_SuccessOverwritesBothTokens(t *testing.T) {
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/refresh", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		require.Equal(t, "refresh-token", gjson.GetBytes(raw, "refresh_token").String())
		writeEnvelope(t, w, http.StatusOK, map[string]any{
			"status": "success",
			"data": map[string]string{
				"access_token":  "at-2",
				"refresh_token": "rt-2",
			},
		})
	}))

	token, err := c.Auth().RefreshAccessToken(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "at-2", token)
	assert.Equal(t, "at-2", store.AccessToken())
	assert.Equal(t, "rt-2", store.RefreshToken())
	assert.Equal(t, StateAuthenticated, c.Auth().State())
}

func TestRefresh_RejectionClearsStorage(t *testing.T) {
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, http.StatusUnauthorized, map[string]any{"status": "error", "message": "refresh token revoked"})
	}))

	token, err := c.Auth().RefreshAccessToken(context.Background())
	require.NoError(t, err)

	assert.Empty(t, token)
	assert.Empty(t, store.AccessToken())
	assert.Empty(t, store.RefreshToken())
	assert.Equal(t, StateUnauthenticated, c.Auth().State())
}

func TestRefresh_NetworkErrorClearsStorage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	store := credentials.NewMemoryStore()
	require.NoError(t, store.SetTokens("at-1", "rt-1"))

	c, err := New(Config{BaseURL: server.URL, Credentials: store, Logger: logger.Nop()})
	require.NoError(t, err)

	server.Close() // every request now fails at the transport level

	token, err := c.Auth().RefreshAccessToken(context.Background())
	require.NoError(t, err)

	assert.Empty(t, token)
	assert.Empty(t, store.AccessToken())
	assert.Empty(t, store.RefreshToken())
}

func TestRefresh_ConcurrentCallsSerialized(t *testing.T) {
	var refreshCalls int
	var mu sync.Mutex
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		refreshCalls++
		n := refreshCalls
		mu.Unlock()
		writeEnvelope(t, w, http.StatusOK, map[string]any{
			"status": "success",
			"data": map[string]string{
				"access_token":  "at-" + string(rune('0'+n)),
				"refresh_token": "rt-" + string(rune('0'+n)),
			},
		})
	}))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Auth().RefreshAccessToken(context.Background())
		}()
	}
	wg.Wait()

	// Both halves of the stored pair come from the same response.
	access, refresh := store.AccessToken(), store.RefreshToken()
	assert.Equal(t, access[3:], refresh[3:])
}

func TestSignOut_AlwaysClearsCredentials(t *testing.T) {
	t.Run("server success", func(t *testing.T) {
		c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/auth/signout", r.URL.Path)
			writeEnvelope(t, w, http.StatusOK, map[string]any{"status": "success"})
		}))

		require.NoError(t, c.Auth().SignOut(context.Background()))
		assert.Empty(t, store.AccessToken())
		assert.Equal(t, StateUnauthenticated, c.Auth().State())
	})

	t.Run("server failure", func(t *testing.T) {
		c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(t, w, http.StatusInternalServerError, map[string]any{"status": "error", "message": "session service down"})
		}))

		err := c.Auth().SignOut(context.Background())
		require.Error(t, err)
		assert.Empty(t, store.AccessToken())
		assert.Empty(t, store.RefreshToken())
		assert.Equal(t, StateUnauthenticated, c.Auth().State())
	})

	t.Run("network failure", func(t *testing.T) {
		store := credentials.NewMemoryStore()
		require.NoError(t, store.SetTokens("at", "rt"))

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		c, err := New(Config{BaseURL: server.URL, Credentials: store, Logger: logger.Nop()})
		require.NoError(t, err)
		server.Close()

		err = c.Auth().SignOut(context.Background())
		require.Error(t, err)
		assert.Empty(t, store.AccessToken())
	})
}

func TestForgotAndResetPassword(t *testing.T) {
	var paths []string
	c, _ := newUnauthenticatedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		writeEnvelope(t, w, http.StatusOK, map[string]any{"status": "success"})
	}))

	require.NoError(t, c.Auth().ForgotPassword(context.Background(), "rx@example.com"))
	require.NoError(t, c.Auth().ResetPassword(context.Background(), "reset-tok", "newpass"))
	assert.Equal(t, []string{"/auth/forgot-password", "/auth/reset-password"}, paths)
}

func TestTokenStale(t *testing.T) {
	store := credentials.NewMemoryStore()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	t.Cleanup(server.Close)

	c, err := New(Config{BaseURL: server.URL, Credentials: store, Logger: logger.Nop()})
	require.NoError(t, err)

	assert.True(t, c.Auth().TokenStale(0), "missing token is stale")

	require.NoError(t, store.SetTokens("not-a-jwt", ""))
	assert.True(t, c.Auth().TokenStale(0), "unparsable token is stale")

	// Unsigned token with a far-future exp; only the claim is inspected.
	future := "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0.eyJleHAiOjQ4NzA2NjU2MDB9."
	require.NoError(t, store.SetTokens(future, ""))
	assert.False(t, c.Auth().TokenStale(0))
}
