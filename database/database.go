package database

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

func Open(url string) (db *sql.DB, err error) {
	db, err = sql.Open("sqlite3", url)
	if err != nil {
		return nil, errors.Wrap(err, "database.open")
	}

	// db tuning options
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(2 * time.Hour)

	err = migrateDB(db)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "database.migrate")
	}

	return db, nil
}
