package scope

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarantar7/dentalcare-admin/internal/session"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func memoryFactory(calls *atomic.Int32) Factory {
	return func(_ context.Context, id string) (*Scope, error) {
		if calls != nil {
			calls.Add(1)
		}
		return &Scope{ID: id, Store: session.NewMemoryStore()}, nil
	}
}

func TestCookieCodec_RoundTrip(t *testing.T) {
	codec := NewCookieCodec("dc_scope", "test-secret", time.Hour, false)

	rec := httptest.NewRecorder()
	sid, err := codec.Issue(rec)
	require.NoError(t, err)
	require.NotEmpty(t, sid)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])

	decoded, ok := codec.Decode(req)
	require.True(t, ok)
	assert.Equal(t, sid, decoded)
}

func TestCookieCodec_RejectsBadCookies(t *testing.T) {
	codec := NewCookieCodec("dc_scope", "test-secret", time.Hour, false)

	t.Run("missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		_, ok := codec.Decode(req)
		assert.False(t, ok)
	})

	t.Run("garbage value", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "dc_scope", Value: "not-a-jwt"})
		_, ok := codec.Decode(req)
		assert.False(t, ok)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		other := NewCookieCodec("dc_scope", "different-secret", time.Hour, false)
		rec := httptest.NewRecorder()
		_, err := other.Issue(rec)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(rec.Result().Cookies()[0])
		_, ok := codec.Decode(req)
		assert.False(t, ok)
	})

	t.Run("expired", func(t *testing.T) {
		short := NewCookieCodec("dc_scope", "test-secret", -time.Minute, false)
		rec := httptest.NewRecorder()
		_, err := short.Issue(rec)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(rec.Result().Cookies()[0])
		_, ok := codec.Decode(req)
		assert.False(t, ok)
	})
}

func TestRegistry_GetBuildsOnceAndReuses(t *testing.T) {
	var calls atomic.Int32
	reg := NewRegistry(memoryFactory(&calls), time.Hour, testLogger())
	ctx := context.Background()

	s1, err := reg.Get(ctx, "scope-a")
	require.NoError(t, err)
	s2, err := reg.Get(ctx, "scope-a")
	require.NoError(t, err)

	assert.Same(t, s1, s2)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_ScopesAreIsolated(t *testing.T) {
	reg := NewRegistry(memoryFactory(nil), time.Hour, testLogger())
	ctx := context.Background()

	a, err := reg.Get(ctx, "scope-a")
	require.NoError(t, err)
	b, err := reg.Get(ctx, "scope-b")
	require.NoError(t, err)

	require.NoError(t, a.Store.SetSession(ctx, "tok-a", nil))
	assert.Empty(t, b.Store.Token(ctx))
}

func TestRegistry_EvictsIdleScopes(t *testing.T) {
	reg := NewRegistry(memoryFactory(nil), time.Minute, testLogger())
	now := time.Now()
	reg.nowFunc = func() time.Time { return now }
	ctx := context.Background()

	_, err := reg.Get(ctx, "scope-a")
	require.NoError(t, err)
	require.Equal(t, 1, reg.Len())

	now = now.Add(2 * time.Minute)
	reg.evictIdle()
	assert.Equal(t, 0, reg.Len())
}

func TestResolver_InstallsScopeAndIssuesCookie(t *testing.T) {
	codec := NewCookieCodec("dc_scope", "test-secret", time.Hour, false)
	reg := NewRegistry(memoryFactory(nil), time.Hour, testLogger())

	var seen *Scope
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	mw := Resolver(codec, reg, testLogger())

	// First request has no cookie: one is issued and a scope built.
	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotNil(t, seen)
	firstID := seen.ID
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	// Second request replays the cookie and lands in the same scope.
	seen = nil
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	mw(next).ServeHTTP(httptest.NewRecorder(), req)
	require.NotNil(t, seen)
	assert.Equal(t, firstID, seen.ID)
	assert.Equal(t, 1, reg.Len())
}
