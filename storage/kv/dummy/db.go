package dummykv

import (
	"context"
	"sync"

	"github.com/trezcool/elimu/core"
)

// DB is an in-memory backing store; nothing survives the process.
type DB struct {
	sync.RWMutex
	table map[string][]byte
}

var _ core.KVStore = (*DB)(nil) // interface compliance check

func Open() (*DB, error) {
	return &DB{table: make(map[string][]byte)}, nil
}

func (db *DB) Get(_ context.Context, key string) ([]byte, error) {
	db.RLock()
	defer db.RUnlock()

	if val, ok := db.table[key]; ok {
		return append([]byte{}, val...), nil
	}
	return nil, core.ErrKeyNotFound
}

func (db *DB) Set(_ context.Context, key string, value []byte) error {
	db.Lock()
	defer db.Unlock()
	db.table[key] = append([]byte{}, value...)
	return nil
}

func (db *DB) Delete(_ context.Context, key string) error {
	db.Lock()
	defer db.Unlock()
	delete(db.table, key)
	return nil
}

// Keys returns the stored keys, in no particular order.
func (db *DB) Keys() []string {
	db.RLock()
	defer db.RUnlock()

	keys := make([]string, 0, len(db.table))
	for k := range db.table {
		keys = append(keys, k)
	}
	return keys
}
