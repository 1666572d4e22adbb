package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarantar7/dentalcare-admin/internal/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:       7,
		Role:     domain.RoleDoctor,
		Status:   "active",
		FullName: "Dr. Omar Antar",
		Email:    "omar@clinic.test",
	}
}

func TestMemoryStore_EmptyReadsAsAbsent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	assert.Empty(t, s.Token(ctx))
	assert.Nil(t, s.User(ctx))
}

func TestMemoryStore_SetSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.SetSession(ctx, "tok-123", testUser()))

	assert.Equal(t, "tok-123", s.Token(ctx))

	u := s.User(ctx)
	require.NotNil(t, u)
	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, domain.RoleDoctor, u.Role)
	assert.Equal(t, "Dr. Omar Antar", u.FullName)
}

func TestMemoryStore_SetUserKeepsToken(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.SetSession(ctx, "tok-123", testUser()))

	refreshed := testUser()
	refreshed.FullName = "Dr. Omar A."
	require.NoError(t, s.SetUser(ctx, refreshed))

	assert.Equal(t, "tok-123", s.Token(ctx))
	assert.Equal(t, "Dr. Omar A.", s.User(ctx).FullName)
}

func TestMemoryStore_Clear(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.SetSession(ctx, "tok-123", testUser()))

	s.Clear(ctx)

	assert.Empty(t, s.Token(ctx))
	assert.Nil(t, s.User(ctx))

	// Clearing an empty store is a no-op, not an error.
	s.Clear(ctx)
	assert.Empty(t, s.Token(ctx))
}

func TestMemoryStore_NilUserReadsAsAbsent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.SetSession(ctx, "tok-123", nil))

	assert.Equal(t, "tok-123", s.Token(ctx))
	assert.Nil(t, s.User(ctx))
}

func TestMemoryStore_CorruptedUserReadsAsAbsent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.SetSession(ctx, "tok-123", testUser()))

	s.put(KeyUser, "{not valid json")

	assert.Nil(t, s.User(ctx))
	// The token is unaffected by a corrupted user record.
	assert.Equal(t, "tok-123", s.Token(ctx))
}
