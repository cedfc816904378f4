package identity

import (
	"context"
	"sync"
)

// MemoryStore backs development runs without a database.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]User)}
}

func (m *MemoryStore) Create(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = *u
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return User{}, ErrUnknownUser
	}
	return u, nil
}

func (m *MemoryStore) AddGamePlayed(_ context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			u.GamesPlayed++
			m.users[id] = u
		}
	}
	return nil
}
