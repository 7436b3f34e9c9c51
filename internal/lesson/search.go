package lesson

import (
	"context"

	"github.com/google/uuid"
)

// Indexer keeps the full-text lesson index in step with the database.
type Indexer interface {
	Enabled() bool
	Index(ctx context.Context, l *Lesson) error
	IndexBatch(ctx context.Context, lessons []Lesson) error
	Remove(ctx context.Context, id uuid.UUID) error
	// Search returns ids of matching public lessons, best match first.
	Search(ctx context.Context, query string, limit int) ([]uuid.UUID, error)
}

// NopIndexer is used when no search backend is configured.
type NopIndexer struct{}

var _ Indexer = NopIndexer{}

func (NopIndexer) Enabled() bool { return false }
func (NopIndexer) Index(context.Context, *Lesson) error { return nil }
func (NopIndexer) IndexBatch(context.Context, []Lesson) error { return nil }
func (NopIndexer) Remove(context.Context, uuid.UUID) error { return nil }
func (NopIndexer) Search(context.Context, string, int) ([]uuid.UUID, error) { return nil, nil }
