package kv

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/elimu/core"
	"github.com/trezcool/elimu/storage/database"
	dummykv "github.com/trezcool/elimu/storage/kv/dummy"
	filekv "github.com/trezcool/elimu/storage/kv/file"
	pgkv "github.com/trezcool/elimu/storage/kv/postgres"
)

var ErrUnknownEngine = errors.New("unknown storage engine")

// Backend is an opened backing store. Close releases what Open acquired.
type Backend struct {
	Store core.KVStore
	SQL   *sqlx.DB // postgres engine only
	Close func() error
}

func noopClose() error { return nil }

// Open opens the backing store selected by conf.Storage.Engine.
func Open(conf *core.Config) (*Backend, error) {
	switch conf.Storage.Engine {
	case core.StorageMemory:
		db, err := dummykv.Open()
		if err != nil {
			return nil, err
		}
		return &Backend{Store: db, Close: noopClose}, nil

	case core.StorageFile:
		db, err := filekv.Open(conf.Storage.Dir)
		if err != nil {
			return nil, err
		}
		return &Backend{Store: db, Close: noopClose}, nil

	case core.StoragePostgres:
		db, err := database.Setup(conf)
		if err != nil {
			return nil, errors.Wrap(err, "setting up database")
		}
		return &Backend{Store: pgkv.New(db), SQL: db, Close: db.Close}, nil

	default:
		return nil, errors.Wrap(ErrUnknownEngine, conf.Storage.Engine)
	}
}
