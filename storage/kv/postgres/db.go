package pgkv

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/elimu/core"
)

const (
	getQuery    = `SELECT value FROM kv_entries WHERE key = $1`
	deleteQuery = `DELETE FROM kv_entries WHERE key = $1`
	setQuery    = `
INSERT INTO kv_entries (key, value, updated_at)
VALUES (:key, :value, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
)

// DB keeps each blob in one row of the kv_entries table (see fs/migrations).
type DB struct {
	db *sqlx.DB
}

var _ core.KVStore = (*DB)(nil) // interface compliance check

type entry struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

func New(db *sqlx.DB) *DB {
	return &DB{db: db}
}

func (db *DB) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	if err := db.db.GetContext(ctx, &value, getQuery, key); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return nil, core.ErrKeyNotFound
		}
		return nil, errors.Wrapf(err, "selecting %q", key)
	}
	return []byte(value), nil
}

func (db *DB) Set(ctx context.Context, key string, value []byte) error {
	if _, err := db.db.NamedExecContext(ctx, setQuery, entry{Key: key, Value: string(value)}); err != nil {
		return errors.Wrapf(err, "upserting %q", key)
	}
	return nil
}

func (db *DB) Delete(ctx context.Context, key string) error {
	if _, err := db.db.ExecContext(ctx, deleteQuery, key); err != nil {
		return errors.Wrapf(err, "deleting %q", key)
	}
	return nil
}
