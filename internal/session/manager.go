package session

import (
	"context"
	"fmt"
	"time"

	"parkdash/internal/domain"
	"parkdash/internal/models"

	"github.com/google/uuid"
)

// Manager issues opaque session tokens and keeps them in the configured
// repository for the TTL window.
type Manager struct {
	repo domain.SessionRepository
	ttl  time.Duration
}

func NewManager(repo domain.SessionRepository, ttl time.Duration) *Manager {
	return &Manager{
		repo: repo,
		ttl:  ttl,
	}
}

func (m *Manager) Create(ctx context.Context, user models.User) (*models.Session, error) {
	session := &models.Session{
		Token:     uuid.NewString(),
		User:      user,
		CreatedAt: time.Now(),
	}
	if err := m.repo.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return session, nil
}

// Get returns (nil, nil) for an unknown or expired token.
func (m *Manager) Get(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, nil
	}
	return m.repo.Get(ctx, token)
}

func (m *Manager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return m.repo.Delete(ctx, token)
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}
