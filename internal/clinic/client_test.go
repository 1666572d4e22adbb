package clinic

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarantar7/dentalcare-admin/internal/domain"
	"github.com/omarantar7/dentalcare-admin/internal/session"
	apperrors "github.com/omarantar7/dentalcare-admin/pkg/errors"
	"github.com/omarantar7/dentalcare-admin/pkg/httpclient"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *session.MemoryStore, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := session.NewMemoryStore()
	hc := httpclient.New(httpclient.Config{
		Timeout:         5 * time.Second,
		MaxRetries:      0,
		MaxConnsPerHost: 10,
	})
	return New(server.URL, hc, store, testLogger()), store, server
}

func seedSession(t *testing.T, store *session.MemoryStore, token string) {
	t.Helper()
	require.NoError(t, store.SetSession(context.Background(), token, &domain.User{
		ID: 1, Role: domain.RoleDoctor, FullName: "Dr. Test", Email: "dr@clinic.test",
	}))
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	c, store, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
	}))
	seedSession(t, store, "tok-xyz")

	_, err := c.ListPatients(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-xyz", gotAuth)
}

func TestClient_NoTokenSendsUnauthenticated(t *testing.T) {
	var gotAuth string
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
	}))

	_, err := c.ListPatients(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_UnauthorizedClearsSessionAndFiresHook(t *testing.T) {
	c, store, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	seedSession(t, store, "tok-stale")

	var hookFired bool
	c.OnUnauthorized(func(ctx context.Context) { hookFired = true })

	// An unrelated business call triggers the global de-authentication.
	_, err := c.ListPatients(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
	assert.True(t, hookFired)
	assert.Empty(t, store.Token(context.Background()))
	assert.Nil(t, store.User(context.Background()))
}

func TestClient_UnauthorizedWithoutHookStillClears(t *testing.T) {
	c, store, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	seedSession(t, store, "tok-stale")

	_, err := c.Me(context.Background())
	require.Error(t, err)
	assert.Empty(t, store.Token(context.Background()))
}

func TestClient_Login(t *testing.T) {
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/login", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "dr@clinic.test", req["email"])
		assert.Equal(t, "secret-pass", req["password"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"message": "login successful",
			"user": {"id": 3, "role": "doctor", "status": "active", "full_name": "Dr. Test", "email": "dr@clinic.test"},
			"token": "tok-new",
			"token_type": "Bearer"
		}`))
	}))

	result, err := c.Login(context.Background(), "dr@clinic.test", "secret-pass")
	require.NoError(t, err)
	assert.Equal(t, "tok-new", result.Token)
	assert.Equal(t, "Bearer", result.TokenType)
	require.NotNil(t, result.User)
	assert.Equal(t, int64(3), result.User.ID)
}

func TestClient_Login_InvalidCredentials(t *testing.T) {
	c, store, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid credentials"}`))
	}))

	_, err := c.Login(context.Background(), "dr@clinic.test", "wrong")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
	// Nothing was cached, so nothing changes.
	assert.Empty(t, store.Token(context.Background()))
}

func TestClient_Me(t *testing.T) {
	c, store, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/me", r.URL.Path)
		_, _ = w.Write([]byte(`{"user":{"id":5,"role":"employee","full_name":"Reception","email":"desk@clinic.test"}}`))
	}))
	seedSession(t, store, "tok-xyz")

	u, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), u.ID)
	assert.True(t, u.IsEmployee())
}

func TestClient_ParsesBackendErrorMessage(t *testing.T) {
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"patient not found"}`))
	}))

	_, err := c.GetPatient(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.Contains(t, err.Error(), "patient not found")
}

func TestClient_TransportErrorIsWrapped(t *testing.T) {
	store := session.NewMemoryStore()
	hc := httpclient.New(httpclient.Config{Timeout: time.Second, MaxConnsPerHost: 1})
	c := New("http://127.0.0.1:1", hc, store, testLogger())

	_, err := c.ListPatients(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clinic api")
}
