// Package session owns the durable representation of "who is logged in" for
// one browser-session scope: the clinic API bearer token and the cached user
// record. It knows nothing about HTTP routing or the auth protocol.
package session

import (
	"context"

	"github.com/omarantar7/dentalcare-admin/internal/domain"
)

// Storage keys. Absence of either key is a valid, expected state.
const (
	KeyToken = "auth_token"
	KeyUser  = "auth_user"
)

// Store persists the token and user for one scope.
//
// Getters never fail: a missing or unreadable value reads as absent. The
// user record is stored serialized; a corrupted stored representation is
// treated as absent rather than surfaced to the caller.
type Store interface {
	// Token returns the cached bearer token, or "" when absent.
	Token(ctx context.Context) string

	// User returns the cached user record, or nil when absent or corrupted.
	User(ctx context.Context) *domain.User

	// SetSession installs token and user together. Readers of the same
	// store never observe the token without the user from a single call.
	SetSession(ctx context.Context, token string, user *domain.User) error

	// SetUser replaces only the cached user, leaving the token untouched.
	SetUser(ctx context.Context, user *domain.User) error

	// Clear removes both values. Clearing an already-empty store is a no-op.
	Clear(ctx context.Context)
}
