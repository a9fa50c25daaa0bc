package snapshotdoc

import (
	"context"
	"encoding/json"

	"kickslab/internal/domain"
)

// Repository is the versioned snapshot document store: each named JSON
// document carries an optimistic concurrency version. Put must present the
// version it read, or zero for the first write.
type Repository interface {
	Get(ctx context.Context, name string) (*domain.SnapshotDocument, error)
	Put(ctx context.Context, name string, content json.RawMessage, expectedVersion int64) (*domain.SnapshotDocument, error)
}
