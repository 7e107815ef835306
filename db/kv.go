package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jevinjosh/event-management/kv"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

func CreateKVTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS kv_store (
		scope VARCHAR(255) NOT NULL,
		key VARCHAR(255) NOT NULL,
		value TEXT NOT NULL,
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		PRIMARY KEY (scope, key)
	);`)
	return err
}

// KVStore is a kv.Store backed by one Postgres table, partitioned by scope.
type KVStore struct {
	db    *sqlx.DB
	scope string
}

func NewKVStore(db *sqlx.DB, scope string) KVStore {
	return KVStore{
		db:    db,
		scope: scope,
	}
}

func (s KVStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.GetContext(ctx, &value, `SELECT value FROM kv_store
		WHERE scope = $1 AND key = $2`, s.scope, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", kv.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("querying key %s: %w", key, err)
	}

	return value, nil
}

func (s KVStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO kv_store (scope, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (scope, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now();`,
		s.scope, key, value)
	if err != nil {
		return fmt.Errorf("upserting key %s: %w", key, err)
	}

	return nil
}

func (s KVStore) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	_, err := s.db.ExecContext(ctx, `DELETE FROM kv_store
		WHERE scope = $1 AND key = ANY($2)`, s.scope, pq.Array(keys))
	if err != nil {
		return fmt.Errorf("executing delete query: %w", err)
	}

	return nil
}

func (s KVStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv_store WHERE scope = $1", s.scope); err != nil {
		return fmt.Errorf("executing delete query: %w", err)
	}

	return nil
}
