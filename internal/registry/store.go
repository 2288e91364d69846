package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"keyprobe/internal/fingerprint"
)

var (
	// ErrCollision reports two distinct texts with the same unique64.
	ErrCollision = errors.New("fingerprint collision")
	// ErrConflict reports a text already recorded with a different value,
	// which happens when the byte form changed between recordings.
	ErrConflict = errors.New("fingerprint conflict")
	// ErrNotFound is returned by Lookup when nothing matches.
	ErrNotFound = errors.New("fingerprint not recorded")
)

// Entry is one recorded fingerprint.
type Entry struct {
	ID        int64     `json:"id"`
	Algorithm string    `json:"algorithm"`
	Form      string    `json:"form"`
	Text      string    `json:"text"`
	Primary   uint32    `json:"primary"`
	Secondary uint32    `json:"secondary"`
	Unique64  uint64    `json:"unique64"`
	CreatedAt time.Time `json:"created_at"`
}

// Fingerprint returns the entry's halves.
func (e Entry) Fingerprint() fingerprint.Fingerprint {
	return fingerprint.Fingerprint{Primary: e.Primary, Secondary: e.Secondary}
}

// Store manages fingerprint persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the registry database.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("registry path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure registry directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record stores a fingerprint report. Recording the same text twice returns
// the existing entry with created=false.
func (s *Store) Record(ctx context.Context, report fingerprint.Report) (Entry, bool, error) {
	algorithm := strings.TrimSpace(report.Algorithm)
	if algorithm == "" {
		return Entry{}, false, errors.New("record fingerprint: algorithm required")
	}
	unique := formatUnique(report.Unique64)

	var (
		entry   Entry
		created bool
	)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		existing, err := scanEntry(tx.QueryRowContext(ctx, selectColumns+` WHERE algorithm = ? AND unique64 = ?`, algorithm, unique))
		switch {
		case err == nil:
			if existing.Text != report.Text {
				return fmt.Errorf("%w: %q and %q share %s %#016x",
					ErrCollision, existing.Text, report.Text, algorithm, report.Unique64)
			}
			entry = existing
			return nil
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("query unique64: %w", err)
		}

		existing, err = scanEntry(tx.QueryRowContext(ctx, selectColumns+` WHERE algorithm = ? AND text = ?`, algorithm, report.Text))
		switch {
		case err == nil:
			return fmt.Errorf("%w: %q already recorded as %#016x with form %s",
				ErrConflict, report.Text, existing.Unique64, existing.Form)
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("query text: %w", err)
		}

		now := time.Now().UTC()
		res, err := tx.ExecContext(ctx,
			`INSERT INTO fingerprints (algorithm, form, text, primary_hash, secondary_hash, unique64, created_at)
             VALUES (?, ?, ?, ?, ?, ?, ?)`,
			algorithm, string(report.Form), report.Text,
			int64(report.Primary), int64(report.Secondary), unique,
			now.Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("insert fingerprint: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
		entry = Entry{
			ID:        id,
			Algorithm: algorithm,
			Form:      string(report.Form),
			Text:      report.Text,
			Primary:   report.Primary,
			Secondary: report.Secondary,
			Unique64:  report.Unique64,
			CreatedAt: now,
		}
		created = true
		return nil
	})
	if err != nil {
		return Entry{}, false, err
	}
	return entry, created, nil
}

// withTx runs fn in a transaction, committing only when fn succeeds.
func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Lookup finds the text recorded for unique64 under algorithm.
func (s *Store) Lookup(ctx context.Context, algorithm string, unique64 uint64) (Entry, error) {
	entry, err := scanEntry(s.db.QueryRowContext(ctx, selectColumns+` WHERE algorithm = ? AND unique64 = ?`,
		strings.TrimSpace(algorithm), formatUnique(unique64)))
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %s %#016x", ErrNotFound, algorithm, unique64)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("lookup fingerprint: %w", err)
	}
	return entry, nil
}

// List returns recorded entries in insertion order. An empty algorithm lists
// every namespace.
func (s *Store) List(ctx context.Context, algorithm string) ([]Entry, error) {
	query := selectColumns + ` ORDER BY id`
	args := []any{}
	if algorithm = strings.TrimSpace(algorithm); algorithm != "" {
		query = selectColumns + ` WHERE algorithm = ? ORDER BY id`
		args = append(args, algorithm)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list fingerprints: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan fingerprint: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fingerprints: %w", err)
	}
	return entries, nil
}

// Remove deletes text from algorithm's namespace, reporting whether a row existed.
func (s *Store) Remove(ctx context.Context, algorithm, text string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM fingerprints WHERE algorithm = ? AND text = ?`,
		strings.TrimSpace(algorithm), text)
	if err != nil {
		return false, fmt.Errorf("remove fingerprint: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

const selectColumns = `SELECT id, algorithm, form, text, primary_hash, secondary_hash, unique64, created_at FROM fingerprints`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var (
		entry     Entry
		primary   int64
		secondary int64
		unique    string
		created   string
	)
	if err := row.Scan(&entry.ID, &entry.Algorithm, &entry.Form, &entry.Text, &primary, &secondary, &unique, &created); err != nil {
		return Entry{}, err
	}
	value, err := strconv.ParseUint(unique, 16, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("parse unique64 %q: %w", unique, err)
	}
	entry.Primary = uint32(primary)
	entry.Secondary = uint32(secondary)
	entry.Unique64 = value
	if ts, err := time.Parse(time.RFC3339Nano, created); err == nil {
		entry.CreatedAt = ts
	}
	return entry, nil
}

func formatUnique(v uint64) string {
	return fmt.Sprintf("%016x", v)
}
