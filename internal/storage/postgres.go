package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/kgharvest/internal/domain"
)

const createDocumentsTable = `
CREATE TABLE IF NOT EXISTS documents (
	id          UUID PRIMARY KEY,
	source_key  TEXT NOT NULL,
	source_url  TEXT NOT NULL,
	kind        TEXT NOT NULL,
	body        TEXT NOT NULL,
	metadata    JSONB NOT NULL DEFAULT '{}'::jsonb,
	ingested_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const upsertDocument = `
INSERT INTO documents (id, source_key, source_url, kind, body, metadata)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET
	source_url = EXCLUDED.source_url,
	kind = EXCLUDED.kind,
	body = EXCLUDED.body,
	metadata = EXCLUDED.metadata,
	ingested_at = NOW()`

// PostgresDocumentSink stores normalized documents keyed by their content ID.
// Re-ingesting a source overwrites the same row.
type PostgresDocumentSink struct {
	db    *pgxpool.Pool
	ready bool
}

// NewPostgresDocumentSink configures the pool. No connection is made until
// the first call that needs one.
func NewPostgresDocumentSink(ctx context.Context, connStr string) (*PostgresDocumentSink, error) {
	db, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	return &PostgresDocumentSink{db: db}, nil
}

func (s *PostgresDocumentSink) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// EnsureSchema creates the documents table if it does not exist.
func (s *PostgresDocumentSink) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createDocumentsTable); err != nil {
		return err
	}
	s.ready = true
	return nil
}

// Ingest upserts docs within a single transaction, creating the table on first use.
func (s *PostgresDocumentSink) Ingest(ctx context.Context, docs []domain.NormalizedDocument) error {
	if !s.ready {
		if err := s.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure documents table: %w", err)
		}
	}

	batch, err := upsertBatch(docs)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Count returns the number of stored documents.
func (s *PostgresDocumentSink) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n)
	return n, err
}

func (s *PostgresDocumentSink) Close() {
	s.db.Close()
}

func upsertBatch(docs []domain.NormalizedDocument) (*pgx.Batch, error) {
	batch := &pgx.Batch{}
	for _, d := range docs {
		meta := d.Metadata
		if meta == nil {
			meta = map[string]any{}
		}
		metaJSON, err := json.Marshal(meta)
		if err != nil {
			return nil, fmt.Errorf("encode metadata for %s: %w", d.ID, err)
		}
		batch.Queue(upsertDocument, d.ID, d.SourceKey, d.SourceURL, string(d.Kind), d.Body, metaJSON)
	}
	return batch, nil
}
