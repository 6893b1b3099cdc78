// Package state provides SQLite-based persistence for monitoring runs.
package state

import (
	"io"
	"time"
)

// RunStore handles run-related persistence operations.
type RunStore interface {
	CreateRun(r *Run) error
	GetRun(id string) (*Run, error)
	FinishRun(id string, status RunStatus, stoppedAt time.Time) error
	GetActiveRun() (*Run, error)
	MarkInterruptedRuns() (int64, error)
	ListRuns(limit int) ([]Run, error)
}

// TickStore handles tick history persistence.
type TickStore interface {
	RecordTick(tk *Tick) error
	LastCycle() (int, error)
	RecentTicks(limit int) ([]Tick, error)
	ListTicksByRun(runID string) ([]Tick, error)
}

// Migrator handles database schema migrations.
// Separating this allows clients to depend only on migration functionality.
type Migrator interface {
	// Migrate applies all pending schema migrations.
	Migrate() error
}

// Store defines the interface for run-history persistence.
// This interface allows the monitor to work with any state backend
// without depending on the concrete SQLite implementation.
// It composes focused sub-interfaces for better modularity.
type Store interface {
	io.Closer
	Migrator
	RunStore
	TickStore
}

// Compile-time verification that DB implements all interfaces.
var (
	_ Store     = (*DB)(nil)
	_ Migrator  = (*DB)(nil)
	_ RunStore  = (*DB)(nil)
	_ TickStore = (*DB)(nil)
)
