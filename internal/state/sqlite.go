package state

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/recset-labs/recset/pkg/record"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store on a SQLite database. Record sets are
// stored in their JSON wire form, so a stored baseline never carries
// record keys.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore creates an unopened store.
func NewSQLiteStore() *SQLiteStore {
	return &SQLiteStore{}
}

// Open opens the database and runs pending migrations.
// Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open state database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping state database: %w", err)
	}

	s.db = db
	s.path = path

	if err := s.Migrate(); err != nil {
		db.Close()
		return err
	}
	slog.Debug("state database ready", "path", path)
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveBaseline creates or replaces the named baseline.
func (s *SQLiteStore) SaveBaseline(name string, recs []*record.Record) (*Baseline, error) {
	if s.db == nil {
		return nil, errors.New("database not opened")
	}

	if recs == nil {
		recs = []*record.Record{}
	}
	payload, err := json.Marshal(recs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode records: %w", err)
	}

	now := time.Now().UTC()

	// On conflict the row keeps its original id and created_at; RETURNING
	// reports the stored identity rather than the candidate one.
	b := &Baseline{Name: name, RecordCount: len(recs)}
	err = s.db.QueryRow(`
		INSERT INTO baselines (id, name, records, record_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			records = excluded.records,
			record_count = excluded.record_count,
			updated_at = excluded.updated_at
		RETURNING id, created_at, updated_at`,
		uuid.New().String(), name, string(payload), len(recs), now, now).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save baseline %q: %w", name, err)
	}
	return b, nil
}

// GetBaseline returns the named baseline's records.
func (s *SQLiteStore) GetBaseline(name string) ([]*record.Record, error) {
	if s.db == nil {
		return nil, errors.New("database not opened")
	}

	var payload string
	err := s.db.QueryRow(`SELECT records FROM baselines WHERE name = ?`, name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load baseline %q: %w", name, err)
	}

	var recs []*record.Record
	if err := json.Unmarshal([]byte(payload), &recs); err != nil {
		return nil, fmt.Errorf("failed to decode baseline %q: %w", name, err)
	}
	return recs, nil
}

// ListBaselines returns all baselines ordered by name.
func (s *SQLiteStore) ListBaselines() ([]*Baseline, error) {
	if s.db == nil {
		return nil, errors.New("database not opened")
	}

	rows, err := s.db.Query(`
		SELECT id, name, record_count, created_at, updated_at
		FROM baselines ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list baselines: %w", err)
	}
	defer rows.Close()

	var out []*Baseline
	for rows.Next() {
		b := &Baseline{}
		if err := rows.Scan(&b.ID, &b.Name, &b.RecordCount, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan baseline: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// DeleteBaseline removes the named baseline and its check history.
func (s *SQLiteStore) DeleteBaseline(name string) error {
	if s.db == nil {
		return errors.New("database not opened")
	}

	res, err := s.db.Exec(`DELETE FROM baselines WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete baseline %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

// RecordCheck appends a check outcome to the baseline's history.
func (s *SQLiteStore) RecordCheck(name string, passed bool, diffCount int) (*Check, error) {
	if s.db == nil {
		return nil, errors.New("database not opened")
	}

	var baselineID string
	err := s.db.QueryRow(`SELECT id FROM baselines WHERE name = ?`, name).Scan(&baselineID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load baseline %q: %w", name, err)
	}

	c := &Check{
		ID:        uuid.New().String(),
		Baseline:  name,
		Passed:    passed,
		DiffCount: diffCount,
		CreatedAt: time.Now().UTC(),
	}
	_, err = s.db.Exec(`
		INSERT INTO checks (id, baseline_id, passed, diff_count, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID, baselineID, c.Passed, c.DiffCount, c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to record check: %w", err)
	}
	return c, nil
}

// ListChecks returns the baseline's check history, newest first.
func (s *SQLiteStore) ListChecks(name string) ([]*Check, error) {
	if s.db == nil {
		return nil, errors.New("database not opened")
	}

	rows, err := s.db.Query(`
		SELECT c.id, b.name, c.passed, c.diff_count, c.created_at
		FROM checks c JOIN baselines b ON b.id = c.baseline_id
		WHERE b.name = ?
		ORDER BY c.created_at DESC, c.id`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to list checks: %w", err)
	}
	defer rows.Close()

	var out []*Check
	for rows.Next() {
		c := &Check{}
		if err := rows.Scan(&c.ID, &c.Baseline, &c.Passed, &c.DiffCount, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan check: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
