// Package scope ties one browser to one session stack. Each browser gets a
// signed cookie carrying a scope id; the registry maps that id to the
// session store, clinic client, auth manager, and route guard serving it.
package scope

import (
	"context"

	"github.com/omarantar7/dentalcare-admin/internal/auth"
	"github.com/omarantar7/dentalcare-admin/internal/clinic"
	"github.com/omarantar7/dentalcare-admin/internal/guard"
	"github.com/omarantar7/dentalcare-admin/internal/session"
)

// Scope is the per-browser session stack.
type Scope struct {
	ID      string
	Store   session.Store
	Client  *clinic.Client
	Manager *auth.Manager
	Guard   *guard.Guard
}

type ctxKey struct{}

// NewContext returns ctx carrying the scope.
func NewContext(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext extracts the scope installed by the resolver middleware.
func FromContext(ctx context.Context) (*Scope, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Scope)
	return s, ok
}
