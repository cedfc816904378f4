// Package identity holds the stable actor identities behind game sessions.
// Finished games themselves are never stored; only who plays and simple
// aggregate counters survive a restart.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/akhmelev/evo-backend/internal/logger"
)

var ErrUnknownUser = errors.New("unknown user")

type User struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Name        string    `json:"name"`
	GamesPlayed int       `json:"games_played"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store is the persistence seam. Both implementations must treat user IDs
// as opaque and return ErrUnknownUser for misses.
type Store interface {
	Create(ctx context.Context, u *User) error
	Get(ctx context.Context, id string) (User, error)
	AddGamePlayed(ctx context.Context, ids []string) error
}

// Service wraps a Store with the operations the transport and hub need.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Login mints a new user. An empty name gets a readable default derived
// from the ID so room listings never show blanks.
func (s *Service) Login(ctx context.Context, name string) (User, error) {
	u := User{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if u.Name == "" {
		u.Name = fmt.Sprintf("player-%s", u.ID[:8])
	}
	if err := s.store.Create(ctx, &u); err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *Service) Lookup(ctx context.Context, id string) (User, error) {
	return s.store.Get(ctx, id)
}

// GameStarted bumps the play counter for every participant. Called from a
// hub goroutine, so it carries its own deadline and only logs failures;
// gameplay never waits on the database.
func (s *Service) GameStarted(userIDs []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.store.AddGamePlayed(ctx, userIDs); err != nil {
		logger.Log.Errorw("failed to record game start", "users", userIDs, "error", err)
	}
}
