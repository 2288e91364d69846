package registry

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion must change whenever schema.sql does.
const schemaVersion = 1

// ErrSchemaMismatch means the registry file was written by an incompatible
// keyprobe version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// initSchema creates the tables in a fresh database and otherwise verifies
// the recorded version.
func (s *Store) initSchema(ctx context.Context) error {
	version, err := s.storedVersion(ctx)
	if err != nil {
		return err
	}
	switch version {
	case 0:
		return s.withTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
				return fmt.Errorf("create schema: %w", err)
			}
			_, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion)
			return err
		})
	case schemaVersion:
		return nil
	}
	return fmt.Errorf("%w: %s has version %d, this build expects %d; remove the file to start over",
		ErrSchemaMismatch, s.path, version, schemaVersion)
}

// storedVersion returns 0 when the database has never been initialised.
func (s *Store) storedVersion(ctx context.Context) (int, error) {
	var version int
	err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	switch {
	case err == nil:
		return version, nil
	case errors.Is(err, sql.ErrNoRows):
		return 0, fmt.Errorf("%w: %s has an empty schema_version table", ErrSchemaMismatch, s.path)
	}
	var tables int
	if cerr := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type = 'table' AND name = 'schema_version'",
	).Scan(&tables); cerr != nil {
		return 0, fmt.Errorf("inspect registry schema: %w", cerr)
	}
	if tables == 0 {
		return 0, nil
	}
	return 0, fmt.Errorf("read schema version: %w", err)
}
