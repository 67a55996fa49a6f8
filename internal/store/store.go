package store

import (
	"context"

	"rolodex/internal/models"
	"rolodex/internal/query"
)

// Store persists contacts. Implementations translate their native failures
// into rolodex.ErrNotFound and *rolodex.DuplicateKeyError.
type Store interface {
	Count(ctx context.Context, pred query.Predicate) (int64, error)
	Find(ctx context.Context, pred query.Predicate, sort *query.Sort, skip, limit int) ([]*models.Contact, error)
	Get(ctx context.Context, id string) (*models.Contact, error)
	Insert(ctx context.Context, c *models.Contact) (*models.Contact, error)
	Replace(ctx context.Context, id string, c *models.Contact) (*models.Contact, error)
	Delete(ctx context.Context, id string) error

	// Migrate creates the backing table or collection and its indexes.
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
