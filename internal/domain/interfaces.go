package domain

import (
	"context"
	"time"

	"parkdash/internal/models"
)

// SessionRepository persists authenticated-session markers.
// Get returns (nil, nil) for an unknown or expired token.
type SessionRepository interface {
	Get(ctx context.Context, token string) (*models.Session, error)
	Save(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, token string) error
}

// SessionManager owns the session lifecycle: create on login, destroy on
// logout.
type SessionManager interface {
	Create(ctx context.Context, user models.User) (*models.Session, error)
	Get(ctx context.Context, token string) (*models.Session, error)
	Destroy(ctx context.Context, token string) error
	TTL() time.Duration
}

// EventPublisher fans domain events out to subscribers.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// SheetsWriter mirrors the booking collection into a spreadsheet.
type SheetsWriter interface {
	ReplaceBookings(ctx context.Context, records []models.Record) error
}

// MirrorEnqueuer schedules a refresh of the spreadsheet mirror.
type MirrorEnqueuer interface {
	Enqueue(ctx context.Context, reason string) error
}

// RecordSource exposes the current in-memory snapshot.
type RecordSource interface {
	Records() []models.Record
}
