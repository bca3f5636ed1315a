package database

import (
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"

	"github.com/trezcool/elimu/core"
	"github.com/trezcool/elimu/fs"
)

const migrationsDir = "migrations"

func open(dbName string, admin bool, conf *core.Config) (*sqlx.DB, error) {
	user := url.UserPassword(conf.Database.User, conf.Database.Password)
	if admin && conf.Database.AdminUser != "" {
		user = url.UserPassword(conf.Database.AdminUser, conf.Database.AdminPassword)
	}

	sslMode := "require"
	if conf.Database.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   conf.Database.Engine,
		User:     user,
		Host:     conf.Database.Address(),
		Path:     dbName,
		RawQuery: q.Encode(),
	}
	return sqlx.Open(conf.Database.Engine, u.String())
}

// Open connects to the app database and waits for it to be ready.
func Open(conf *core.Config) (*sqlx.DB, error) {
	db, err := open(conf.Database.Name, false, conf)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if err = ping(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(db *sqlx.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.Ping()
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

// CreateIfNotExist creates the app database, connected as the admin user when one is configured.
func CreateIfNotExist(conf *core.Config) error {
	db, err := open("postgres", true, conf)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer func() { _ = db.Close() }()

	if err = ping(db); err != nil {
		return errors.Wrap(err, "pinging database")
	}

	var exists bool
	if err = db.Get(&exists, "SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)", conf.Database.Name); err != nil {
		return errors.Wrap(err, "checking DB")
	}
	if !exists {
		// identifiers cannot be bound as parameters
		if _, err = db.Exec("CREATE DATABASE " + quoteIdent(conf.Database.Name)); err != nil {
			return errors.Wrap(err, "creating database")
		}
	}
	return nil
}

func quoteIdent(name string) string {
	quoted := []rune{'"'}
	for _, r := range name {
		if r == '"' {
			quoted = append(quoted, '"')
		}
		quoted = append(quoted, r)
	}
	return string(append(quoted, '"'))
}

// ConfigureMigrations points goose at the embedded migrations.
func ConfigureMigrations() error {
	goose.SetBaseFS(appfs.FS)
	return goose.SetDialect("postgres")
}

func Migrate(db *sqlx.DB) error {
	if err := ConfigureMigrations(); err != nil {
		return errors.Wrap(err, "configuring migrations")
	}
	if err := goose.Up(db.DB, migrationsDir); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}

// Setup creates (if needed), opens and migrates the app database.
func Setup(conf *core.Config) (*sqlx.DB, error) {
	if err := CreateIfNotExist(conf); err != nil {
		return nil, err
	}
	db, err := Open(conf)
	if err != nil {
		return nil, err
	}
	if err = Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
