// Package auth owns the protocol of authenticating against the clinic
// backend: login, logout, refresh-from-server, and the derived "is this
// session currently valid". One Manager exists per browser-session scope
// and holds the authoritative in-memory mirror of the session consumed by
// the route guard and the HTTP handlers.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/omarantar7/dentalcare-admin/internal/clinic"
	"github.com/omarantar7/dentalcare-admin/internal/domain"
	"github.com/omarantar7/dentalcare-admin/internal/session"
)

// ErrVerifyTimeout is returned when an identity verification call exceeds
// the configured deadline. It is treated like any other failed verify: the
// session is cleared.
var ErrVerifyTimeout = errors.New("auth check timed out")

// defaultVerifyTimeout bounds a verify call so a hung backend can never
// hang navigation.
const defaultVerifyTimeout = 10 * time.Second

// API is the slice of the clinic gateway the manager needs.
type API interface {
	Login(ctx context.Context, email, password string) (*clinic.LoginResult, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*domain.User, error)
}

// Manager is the stateful authentication core for one scope.
type Manager struct {
	api           API
	store         session.Store
	logger        *slog.Logger
	verifyTimeout time.Duration

	mu   sync.RWMutex
	user *domain.User

	loading atomic.Int32
	verify  singleflight.Group
}

// Option configures a Manager.
type Option func(*Manager)

// WithVerifyTimeout overrides the deadline applied to verification calls.
func WithVerifyTimeout(d time.Duration) Option {
	return func(m *Manager) { m.verifyTimeout = d }
}

// NewManager creates a manager over the given gateway and session store.
// Call Hydrate to populate the in-memory mirror from storage.
func NewManager(api API, store session.Store, logger *slog.Logger, opts ...Option) *Manager {
	m := &Manager{
		api:           api,
		store:         store,
		logger:        logger,
		verifyTimeout: defaultVerifyTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Hydrate populates the in-memory mirror from the session store. Used at
// scope construction so a restarted gateway instance picks up sessions the
// shared store still holds.
func (m *Manager) Hydrate(ctx context.Context) {
	u := m.store.User(ctx)
	m.mu.Lock()
	m.user = u
	m.mu.Unlock()
}

// Login exchanges credentials for a session. On success the token and user
// are installed together into the store and the in-memory mirror before the
// call returns. On failure nothing is mutated and the error is surfaced to
// the caller. The loading flag is set for the call's duration on every
// exit path.
func (m *Manager) Login(ctx context.Context, email, password string) (*clinic.LoginResult, error) {
	m.loading.Add(1)
	defer m.loading.Add(-1)

	result, err := m.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if err := m.store.SetSession(ctx, result.Token, result.User); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.user = result.User
	m.mu.Unlock()

	m.logger.InfoContext(ctx, "user logged in",
		slog.Int64("user_id", result.User.ID),
		slog.String("role", string(result.User.Role)),
	)
	return result, nil
}

// Logout ends the session. The server is notified best-effort: a failure
// there is logged and never propagated, because logout must always succeed
// locally. The local clear is unconditional and idempotent. Redirecting the
// browser to the login entry is the route guard's job: with the session
// cleared, the next guarded navigation bounces there.
func (m *Manager) Logout(ctx context.Context) {
	m.loading.Add(1)
	defer m.loading.Add(-1)

	if err := m.api.Logout(ctx); err != nil {
		m.logger.WarnContext(ctx, "logout notification failed",
			slog.String("error", err.Error()),
		)
	}

	m.store.Clear(ctx)
	m.mu.Lock()
	m.user = nil
	m.mu.Unlock()
}

// RefreshUser asks the server who the current token maps to. On success the
// cached user is replaced, the token untouched. On any failure the whole
// session is cleared: a failed identity check means "no longer
// authenticated", not a transient error to retry.
//
// Concurrent calls are collapsed into one in-flight request; late callers
// share the first caller's result.
func (m *Manager) RefreshUser(ctx context.Context) (*domain.User, error) {
	m.loading.Add(1)
	defer m.loading.Add(-1)

	v, err, _ := m.verify.Do("me", func() (any, error) {
		verifyCtx, cancel := context.WithTimeout(ctx, m.verifyTimeout)
		defer cancel()

		u, err := m.api.Me(verifyCtx)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) && verifyCtx.Err() == context.DeadlineExceeded {
				err = ErrVerifyTimeout
			}
			m.logger.WarnContext(ctx, "identity verification failed, clearing session",
				slog.String("error", err.Error()),
			)
			m.invalidateLocked(ctx)
			return nil, err
		}

		if err := m.store.SetUser(ctx, u); err != nil {
			m.invalidateLocked(ctx)
			return nil, err
		}

		m.mu.Lock()
		m.user = u
		m.mu.Unlock()
		return u, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.User), nil
}

// IsAuthenticated is the server-verifying validity check used for guarded
// navigation. It returns false with no network call when no token is
// cached; otherwise it reports whether RefreshUser succeeded. A failed
// verify has already cleared the session by the time this returns.
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	if m.store.Token(ctx) == "" {
		return false
	}

	_, err := m.RefreshUser(ctx)
	return err == nil
}

// IsAuthenticatedCached is the cheap derived check: a user mirror and a
// cached token, with no server round trip.
func (m *Manager) IsAuthenticatedCached(ctx context.Context) bool {
	return m.CurrentUser() != nil && m.store.Token(ctx) != ""
}

// CurrentUser returns the in-memory user mirror, or nil when logged out.
func (m *Manager) CurrentUser() *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}

// IsDoctor reports whether the current user holds the doctor role.
func (m *Manager) IsDoctor() bool { return m.CurrentUser().IsDoctor() }

// IsEmployee reports whether the current user holds the employee role.
func (m *Manager) IsEmployee() bool { return m.CurrentUser().IsEmployee() }

// IsAdmin reports whether the current user holds the admin role.
func (m *Manager) IsAdmin() bool { return m.CurrentUser().IsAdmin() }

// IsLoading reports whether any auth operation is in flight.
func (m *Manager) IsLoading() bool {
	return m.loading.Load() > 0
}

// Invalidate drops the session from the store and the in-memory mirror.
// It is the gateway's forced-logout hook target and is idempotent.
func (m *Manager) Invalidate(ctx context.Context) {
	m.invalidateLocked(ctx)
}

func (m *Manager) invalidateLocked(ctx context.Context) {
	m.store.Clear(ctx)
	m.mu.Lock()
	m.user = nil
	m.mu.Unlock()
}
