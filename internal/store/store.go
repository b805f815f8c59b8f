package store

import (
	"context"
	"errors"

	"parkdash/internal/models"
)

var (
	// ErrNotFound запись отсутствует в коллекции
	ErrNotFound = errors.New("record not found")

	// ErrBadCollection имя коллекции не прошло проверку
	ErrBadCollection = errors.New("invalid collection name")
)

// Store is the record-store adapter: the only I/O boundary the dashboard
// core depends on. Both calls are opaque remote operations; a single
// failure is surfaced to the caller, nothing is retried here.
type Store interface {
	FetchAll(ctx context.Context, collection string) ([]models.Record, error)
	DeleteByID(ctx context.Context, collection, id string) error
}
