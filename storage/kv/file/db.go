package filekv

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/elimu/core"
)

var (
	ErrInvalidKey = errors.New("invalid key")

	keyRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// DB stores each key as `<dir>/<key>.json`. Writes go through a temp file renamed over the target.
type DB struct {
	mu  sync.Mutex
	dir string
}

var _ core.KVStore = (*DB)(nil) // interface compliance check

func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating storage dir %s", dir)
	}
	return &DB{dir: dir}, nil
}

func (db *DB) path(key string) (string, error) {
	if !keyRegex.MatchString(key) {
		return "", errors.Wrap(ErrInvalidKey, key)
	}
	return filepath.Join(db.dir, key+".json"), nil
}

func (db *DB) Get(_ context.Context, key string) ([]byte, error) {
	path, err := db.path(key)
	if err != nil {
		return nil, err
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	data, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, core.ErrKeyNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return data, nil
}

func (db *DB) Set(_ context.Context, key string, value []byte) error {
	path, err := db.path(key)
	if err != nil {
		return err
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	tmp, err := ioutil.TempFile(db.dir, key+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }() // no-op once renamed

	if _, err = tmp.Write(value); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "writing %s", tmp.Name())
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "syncing %s", tmp.Name())
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", tmp.Name())
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "renaming to %s", path)
	}
	return nil
}

func (db *DB) Delete(_ context.Context, key string) error {
	path, err := db.path(key)
	if err != nil {
		return err
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if err = os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "removing %s", path)
	}
	return nil
}
