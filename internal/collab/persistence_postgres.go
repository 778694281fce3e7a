package collab

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// PostgresPersistence stores a job's exported artifacts and metadata in
// Postgres, grounded on the teacher's internal/db/db.go (connection pool
// setup, idempotent CREATE TABLE IF NOT EXISTS migration) and
// internal/db/run.go (JSONB-marshaled payload columns keyed by job/run ID).
// Large binary artifacts (PDF bytes, images) are stored inline as bytea;
// a production deployment would typically point this at object storage
// instead, but the core's Persistence interface doesn't distinguish.
type PostgresPersistence struct {
	pool *sql.DB
}

var _ Persistence = (*PostgresPersistence)(nil)

const postgresMigrationSQL = `
CREATE TABLE IF NOT EXISTS article_artifacts (
    job_id   TEXT NOT NULL,
    path     TEXT NOT NULL,
    content  BYTEA NOT NULL,
    PRIMARY KEY (job_id, path)
);

CREATE TABLE IF NOT EXISTS article_jobs (
    job_id     TEXT PRIMARY KEY,
    metadata   JSONB NOT NULL DEFAULT '{}',
    stored_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// NewPostgresPersistence opens a connection pool and ensures the schema
// exists.
func NewPostgresPersistence(ctx context.Context, databaseURL string) (*PostgresPersistence, error) {
	pool, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres persistence: open: %w", err)
	}
	pool.SetMaxOpenConns(25)
	pool.SetMaxIdleConns(5)

	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres persistence: ping: %w", err)
	}
	if _, err := pool.ExecContext(ctx, postgresMigrationSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres persistence: migrate: %w", err)
	}

	return &PostgresPersistence{pool: pool}, nil
}

func (p *PostgresPersistence) Close() error { return p.pool.Close() }

func (p *PostgresPersistence) Store(ctx context.Context, jobID string, files map[string][]byte, metadata map[string]any) error {
	tx, err := p.pool.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres persistence: begin tx: %w", err)
	}
	defer tx.Rollback()

	for path, content := range files {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO article_artifacts (job_id, path, content) VALUES ($1, $2, $3)
			 ON CONFLICT (job_id, path) DO UPDATE SET content = EXCLUDED.content`,
			jobID, path, content,
		); err != nil {
			return fmt.Errorf("postgres persistence: store artifact %s: %w", path, err)
		}
	}

	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("postgres persistence: marshal metadata: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO article_jobs (job_id, metadata) VALUES ($1, $2)
		 ON CONFLICT (job_id) DO UPDATE SET metadata = EXCLUDED.metadata, stored_at = NOW()`,
		jobID, metaJSON,
	); err != nil {
		return fmt.Errorf("postgres persistence: store metadata: %w", err)
	}

	return tx.Commit()
}
