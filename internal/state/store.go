// Package state persists regression baselines for record sets using
// SQLite. A baseline is a named snapshot of a parse run's records;
// checks compare later runs against it and their outcomes are kept as
// history.
package state

import (
	"errors"
	"time"

	"github.com/recset-labs/recset/pkg/record"
)

// ErrNotFound is returned when a named baseline does not exist.
var ErrNotFound = errors.New("baseline not found")

// Baseline is a stored record set snapshot.
type Baseline struct {
	ID          string
	Name        string
	RecordCount int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Check is one recorded comparison against a baseline.
type Check struct {
	ID        string
	Baseline  string
	Passed    bool
	DiffCount int
	CreatedAt time.Time
}

// Store is the baseline persistence interface.
type Store interface {
	// SaveBaseline creates or replaces the named baseline.
	SaveBaseline(name string, recs []*record.Record) (*Baseline, error)
	// GetBaseline returns the named baseline's records.
	// Returns ErrNotFound if the name is unknown.
	GetBaseline(name string) ([]*record.Record, error)
	// ListBaselines returns all baselines ordered by name.
	ListBaselines() ([]*Baseline, error)
	// DeleteBaseline removes the named baseline and its check history.
	// Returns ErrNotFound if the name is unknown.
	DeleteBaseline(name string) error

	// RecordCheck appends a check outcome to the baseline's history.
	RecordCheck(name string, passed bool, diffCount int) (*Check, error)
	// ListChecks returns the baseline's check history, newest first.
	ListChecks(name string) ([]*Check, error)

	Close() error
}
