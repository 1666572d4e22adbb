package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/omarantar7/dentalcare-admin/internal/domain"
)

// MemoryStore keeps the session in process memory, one instance per scope.
// It is the single-instance analog of the browser's per-tab session storage.
// The user record is stored serialized so deserialization failures behave
// identically to the external backends.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Token returns the cached bearer token, or "" when absent.
func (s *MemoryStore) Token(_ context.Context) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[KeyToken]
}

// User returns the cached user, or nil when absent or corrupted.
func (s *MemoryStore) User(_ context.Context) *domain.User {
	s.mu.RLock()
	raw, ok := s.values[KeyUser]
	s.mu.RUnlock()
	// A nil user serializes to "null"; read it back as absent.
	if !ok || raw == "" || raw == "null" {
		return nil
	}

	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		// Corrupted stored user reads as absent.
		return nil
	}
	return &u
}

// SetSession installs token and user atomically.
func (s *MemoryStore) SetSession(_ context.Context, token string, user *domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[KeyToken] = token
	s.values[KeyUser] = string(raw)
	return nil
}

// SetUser replaces the cached user, leaving the token untouched.
func (s *MemoryStore) SetUser(_ context.Context, user *domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[KeyUser] = string(raw)
	return nil
}

// Clear removes both values.
func (s *MemoryStore) Clear(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, KeyToken)
	delete(s.values, KeyUser)
}

// put writes a raw value, bypassing serialization. Used by tests to plant
// corrupted data.
func (s *MemoryStore) put(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}
