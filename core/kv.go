package core

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

var ErrKeyNotFound = errors.New("key not found")

// KVStore is the backing store. Values are whole serialized collections,
// always replaced in full.
type KVStore interface {
	// Get returns ErrKeyNotFound when nothing is stored under key.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// LoadJSON decodes the blob stored under key into v.
// A blob that cannot be decoded yields a corrupted error (see IsCorrupted).
func LoadJSON(ctx context.Context, kv KVStore, key string, v interface{}) error {
	data, err := kv.Get(ctx, key)
	if err != nil {
		return err
	}
	if err = json.Unmarshal(data, v); err != nil {
		return NewCorruptedError(key, err)
	}
	return nil
}

// SaveJSON replaces the blob stored under key with v.
func SaveJSON(ctx context.Context, kv KVStore, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encoding %q", key)
	}
	if err = kv.Set(ctx, key, data); err != nil {
		return errors.Wrapf(err, "writing %q", key)
	}
	return nil
}
