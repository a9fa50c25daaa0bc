package snapshotdoc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"

	"kickslab/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Get(ctx context.Context, name string) (*domain.SnapshotDocument, error) {
	const q = `
SELECT name, content, version, updated_at
FROM snapshot_documents
WHERE name = $1
`
	var doc domain.SnapshotDocument
	err := r.pool.QueryRow(ctx, q, name).Scan(&doc.Name, &doc.Content, &doc.Version, &doc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("snapshotdoc repo: get name=%s not found", name)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("snapshotdoc repo: get name=%s error=%v", name, err)
		return nil, err
	}
	return &doc, nil
}

func (r *postgresRepo) Put(ctx context.Context, name string, content json.RawMessage, expectedVersion int64) (*domain.SnapshotDocument, error) {
	if expectedVersion == 0 {
		return r.insert(ctx, name, content)
	}
	return r.update(ctx, name, content, expectedVersion)
}

func (r *postgresRepo) insert(ctx context.Context, name string, content json.RawMessage) (*domain.SnapshotDocument, error) {
	const q = `
INSERT INTO snapshot_documents (name, content, version)
VALUES ($1, $2, 1)
ON CONFLICT (name) DO NOTHING
RETURNING name, content, version, updated_at
`
	var doc domain.SnapshotDocument
	err := r.pool.QueryRow(ctx, q, name, content).Scan(&doc.Name, &doc.Content, &doc.Version, &doc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Document already exists: the caller's version 0 is stale.
			r.logger.Printf("snapshotdoc repo: insert name=%s conflict", name)
			return nil, domain.ErrVersionConflict
		}
		r.logger.Printf("snapshotdoc repo: insert name=%s error=%v", name, err)
		return nil, err
	}
	r.logger.Printf("snapshotdoc repo: created name=%s version=%d", doc.Name, doc.Version)
	return &doc, nil
}

func (r *postgresRepo) update(ctx context.Context, name string, content json.RawMessage, expectedVersion int64) (*domain.SnapshotDocument, error) {
	const q = `
UPDATE snapshot_documents
SET content = $2, version = version + 1, updated_at = now()
WHERE name = $1 AND version = $3
RETURNING name, content, version, updated_at
`
	var doc domain.SnapshotDocument
	err := r.pool.QueryRow(ctx, q, name, content, expectedVersion).Scan(&doc.Name, &doc.Content, &doc.Version, &doc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("snapshotdoc repo: update name=%s expected_version=%d conflict", name, expectedVersion)
			return nil, domain.ErrVersionConflict
		}
		r.logger.Printf("snapshotdoc repo: update name=%s error=%v", name, err)
		return nil, err
	}
	r.logger.Printf("snapshotdoc repo: updated name=%s version=%d", doc.Name, doc.Version)
	return &doc, nil
}
