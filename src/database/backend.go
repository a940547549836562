package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"memo-notes/src/infrastructure/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS collections (
	name       TEXT PRIMARY KEY,
	body       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`

// Backend stores each record store collection as one JSONB row
type Backend struct {
	db *DB
}

// NewBackend creates the collections table if needed and returns a backend
func NewBackend(ctx context.Context, db *DB) (*Backend, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to create collections table: %w", err)
	}
	return &Backend{db: db}, nil
}

// Read returns the JSON document of the named collection
func (b *Backend) Read(ctx context.Context, name string) ([]byte, error) {
	var body []byte
	err := b.db.QueryRowContext(ctx, `SELECT body FROM collections WHERE name = $1`, name).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("collection %s: %w", name, store.ErrNotExist)
		}
		b.db.logger.WithError(err).WithField("collection", name).Error("コレクションの読み込みに失敗")
		return nil, fmt.Errorf("failed to read collection %s: %w", name, err)
	}
	return body, nil
}

// Write upserts the JSON document of the named collection
func (b *Backend) Write(ctx context.Context, name string, data []byte) error {
	query := `
		INSERT INTO collections (name, body, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`

	if _, err := b.db.ExecContext(ctx, query, name, string(data), time.Now()); err != nil {
		b.db.logger.WithError(err).WithField("collection", name).Error("コレクションの書き込みに失敗")
		return fmt.Errorf("failed to write collection %s: %w", name, err)
	}
	return nil
}

// Health pings the underlying database
func (b *Backend) Health() error {
	return b.db.Health()
}
