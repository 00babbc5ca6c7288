package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"github.com/mbolis/monday-forms/configstore"
)

// DocumentStore keeps the configuration document in a single row. Its
// version is a revision number bumped on every write.
type DocumentStore struct {
	db *sql.DB
}

func NewDocumentStore(db *sql.DB) *DocumentStore {
	return &DocumentStore{db}
}

func (s *DocumentStore) Stat(ctx context.Context) (configstore.Version, error) {
	var revision int64
	err := s.db.
		QueryRowContext(ctx, "SELECT revision FROM config_document WHERE id = 1").
		Scan(&revision)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, configstore.ErrNotExist
	}
	if err != nil {
		return 0, errors.Wrap(err, "db.config_document.stat")
	}
	return configstore.Version(revision), nil
}

func (s *DocumentStore) Read(ctx context.Context) ([]byte, configstore.Version, error) {
	var body string
	var revision int64
	err := s.db.
		QueryRowContext(ctx, "SELECT body, revision FROM config_document WHERE id = 1").
		Scan(&body, &revision)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, configstore.ErrNotExist
	}
	if err != nil {
		return nil, 0, errors.Wrap(err, "db.config_document.read")
	}
	return []byte(body), configstore.Version(revision), nil
}

func (s *DocumentStore) Write(ctx context.Context, data []byte) (configstore.Version, error) {
	var revision int64
	err := s.db.
		QueryRowContext(ctx, `
			INSERT INTO config_document (id, body, revision, updated_at)
			VALUES (1, ?, 1, ?)
			ON CONFLICT (id) DO UPDATE SET
				body = excluded.body,
				revision = config_document.revision + 1,
				updated_at = excluded.updated_at
			RETURNING revision`,
			string(data),
			time.Now(),
		).
		Scan(&revision)
	if err != nil {
		return 0, errors.Wrap(err, "db.config_document.write")
	}
	return configstore.Version(revision), nil
}
