package scope

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/omarantar7/dentalcare-admin/pkg/logger"
)

// Factory builds the session stack for a new scope id.
type Factory func(ctx context.Context, id string) (*Scope, error)

type entry struct {
	scope    *Scope
	lastSeen time.Time
}

// Registry maps scope ids to live session stacks with idle eviction. An
// evicted scope is rebuilt from the session store on its next request, so
// eviction is invisible when a shared store backend holds the session.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	factory Factory
	ttl     time.Duration
	logger  *slog.Logger
	nowFunc func() time.Time // injectable clock for testing
}

// NewRegistry creates a registry; call Run to start idle eviction.
func NewRegistry(factory Factory, ttl time.Duration, log *slog.Logger) *Registry {
	return &Registry{
		entries: make(map[string]*entry),
		factory: factory,
		ttl:     ttl,
		logger:  log,
		nowFunc: time.Now,
	}
}

// Get returns the scope for id, building it on first sight.
func (r *Registry) Get(ctx context.Context, id string) (*Scope, error) {
	r.mu.Lock()
	if e, ok := r.entries[id]; ok {
		e.lastSeen = r.nowFunc()
		r.mu.Unlock()
		return e.scope, nil
	}
	r.mu.Unlock()

	// Build outside the lock; the factory may hit the session backend.
	s, err := r.factory(ctx, id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[id]; ok {
		// Lost the race to another request for the same scope.
		e.lastSeen = r.nowFunc()
		return e.scope, nil
	}
	r.entries[id] = &entry{scope: s, lastSeen: r.nowFunc()}
	return s, nil
}

// Len returns the number of live scopes.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Run evicts idle scopes until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.evictIdle()
		}
	}
}

func (r *Registry) evictIdle() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.nowFunc()
	for id, e := range r.entries {
		if now.Sub(e.lastSeen) > r.ttl {
			delete(r.entries, id)
		}
	}
}

// Resolver returns middleware that binds each request to its scope: the
// cookie is decoded (or a fresh one issued), the registry consulted, and
// the scope plus a scope-tagged logger installed into the request context.
func Resolver(codec *CookieCodec, reg *Registry, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid, ok := codec.Decode(r)
			if !ok {
				var err error
				sid, err = codec.Issue(w)
				if err != nil {
					log.ErrorContext(r.Context(), "issuing scope cookie failed",
						slog.String("error", err.Error()),
					)
					http.Error(w, "internal error", http.StatusInternalServerError)
					return
				}
			}

			sc, err := reg.Get(r.Context(), sid)
			if err != nil {
				log.ErrorContext(r.Context(), "building session scope failed",
					slog.String("scope_id", sid),
					slog.String("error", err.Error()),
				)
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}

			ctx := NewContext(r.Context(), sc)
			ctx = logger.WithScopeID(ctx, sid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
