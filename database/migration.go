package database

import (
	"database/sql"
	"embed"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pkg/errors"

	"github.com/mbolis/monday-forms/log"
)

//go:embed migrations
var dbMigrations embed.FS

// migrateDB brings the schema up to the latest embedded migration.
func migrateDB(db *sql.DB) error {
	src, err := iofs.New(dbMigrations, "migrations")
	if err != nil {
		return errors.Wrap(err, "migrate.source")
	}

	dst, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return errors.Wrap(err, "migrate.driver")
	}

	migrator, err := migrate.NewWithInstance("iofs", src, "sqlite3", dst)
	if err != nil {
		return errors.Wrap(err, "migrate.init")
	}

	err = migrator.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "migrate.up")
	}

	version, dirty, err := migrator.Version()
	if err != nil {
		return errors.Wrap(err, "migrate.version")
	}
	if dirty {
		return errors.Errorf("migrate: schema version %d is dirty", version)
	}
	log.Debugf("database: schema at version %d", version)
	return nil
}
