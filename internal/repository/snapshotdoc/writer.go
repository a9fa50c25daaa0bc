package snapshotdoc

import (
	"context"
	"errors"
	"io"
	"log"

	"kickslab/internal/domain"
)

// StoreWriter adapts the document store to the snapshot writer contract:
// read the current version marker, then write against it. A concurrent
// write in between surfaces as domain.ErrVersionConflict instead of being
// silently overwritten.
type StoreWriter struct {
	repo   Repository
	logger *log.Logger
}

func NewWriter(repo Repository, logger *log.Logger) *StoreWriter {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &StoreWriter{repo: repo, logger: logger}
}

func (w *StoreWriter) Write(ctx context.Context, dataset string, content []byte, message string) error {
	var version int64
	doc, err := w.repo.Get(ctx, dataset)
	switch {
	case err == nil:
		version = doc.Version
	case errors.Is(err, domain.ErrNotFound):
		version = 0
	default:
		return err
	}
	if _, err := w.repo.Put(ctx, dataset, content, version); err != nil {
		return err
	}
	w.logger.Printf("snapshotdoc: wrote %s: %s", dataset, message)
	return nil
}
