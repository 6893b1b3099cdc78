package state

import (
	"database/sql"
	"fmt"
	"time"
)

// RunStatus represents the status of a monitoring run.
type RunStatus string

const (
	RunActive  RunStatus = "active"
	RunStopped RunStatus = "stopped"
	// RunInterrupted marks runs left active by a process that died
	// without stopping cleanly.
	RunInterrupted RunStatus = "interrupted"
)

// TickStatus represents the outcome of a single monitoring tick.
type TickStatus string

const (
	TickCompleted TickStatus = "completed"
	TickFailed    TickStatus = "failed"
)

// Run represents one continuous monitoring session.
type Run struct {
	ID             string     `json:"id"`
	StartedAt      time.Time  `json:"started_at"`
	StoppedAt      *time.Time `json:"stopped_at"`
	TicksCompleted int        `json:"ticks_completed"`
	TicksFailed    int        `json:"ticks_failed"`
	Status         RunStatus  `json:"status"`
}

// Tick records one monitoring cycle within a run.
type Tick struct {
	RunID       string        `json:"run_id"`
	Cycle       int           `json:"cycle"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`
	Status      TickStatus    `json:"status"`
	EventCount  int           `json:"event_count"`
	SensorCount int           `json:"sensor_count"`
	TokensIn    int64         `json:"tokens_in"`
	TokensOut   int64         `json:"tokens_out"`
	Error       string        `json:"error,omitempty"`
}

// Run CRUD operations

// CreateRun creates a new run.
func (db *DB) CreateRun(r *Run) error {
	_, err := db.Exec(`
		INSERT INTO runs (id, started_at, stopped_at, ticks_completed, ticks_failed, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.ID, formatTime(r.StartedAt), nil, r.TicksCompleted, r.TicksFailed, string(r.Status))
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (db *DB) GetRun(id string) (*Run, error) {
	row := db.QueryRow(`
		SELECT id, started_at, stopped_at, ticks_completed, ticks_failed, status
		FROM runs WHERE id = ?
	`, id)

	var r Run
	var startedAt string
	var stoppedAt sql.NullString
	err := row.Scan(&r.ID, &startedAt, &stoppedAt, &r.TicksCompleted, &r.TicksFailed, &r.Status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}

	r.StartedAt, _ = parseTime(startedAt)
	r.StoppedAt = parseNullableTime(stoppedAt)
	return &r, nil
}

// FinishRun marks a run as finished with the given status and stop time.
func (db *DB) FinishRun(id string, status RunStatus, stoppedAt time.Time) error {
	_, err := db.Exec(`
		UPDATE runs SET status = ?, stopped_at = ? WHERE id = ?
	`, string(status), formatTime(stoppedAt), id)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// ListRuns lists runs newest first, up to limit. A limit of 0 lists all.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	query := `
		SELECT id, started_at, stopped_at, ticks_completed, ticks_failed, status
		FROM runs ORDER BY started_at DESC
	`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = db.Query(query+" LIMIT ?", limit)
	} else {
		rows, err = db.Query(query)
	}
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var startedAt string
		var stoppedAt sql.NullString
		if err := rows.Scan(&r.ID, &startedAt, &stoppedAt, &r.TicksCompleted, &r.TicksFailed, &r.Status); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.StartedAt, _ = parseTime(startedAt)
		r.StoppedAt = parseNullableTime(stoppedAt)
		runs = append(runs, r)
	}
	return runs, nil
}

// GetActiveRun returns the current active run, if any.
func (db *DB) GetActiveRun() (*Run, error) {
	row := db.QueryRow(`
		SELECT id, started_at, stopped_at, ticks_completed, ticks_failed, status
		FROM runs WHERE status = ? ORDER BY started_at DESC LIMIT 1
	`, string(RunActive))

	var r Run
	var startedAt string
	var stoppedAt sql.NullString
	err := row.Scan(&r.ID, &startedAt, &stoppedAt, &r.TicksCompleted, &r.TicksFailed, &r.Status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get active run: %w", err)
	}

	r.StartedAt, _ = parseTime(startedAt)
	r.StoppedAt = parseNullableTime(stoppedAt)
	return &r, nil
}

// MarkInterruptedRuns flips any still-active runs to interrupted. Called on
// startup so a crash never leaves a phantom active run behind.
// Returns the number of runs marked.
func (db *DB) MarkInterruptedRuns() (int64, error) {
	result, err := db.Exec(`
		UPDATE runs SET status = ?, stopped_at = ? WHERE status = ?
	`, string(RunInterrupted), formatTime(time.Now()), string(RunActive))
	if err != nil {
		return 0, fmt.Errorf("mark interrupted runs: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return count, nil
}

// Tick operations

// RecordTick inserts a tick row and bumps the owning run's counters in one
// transaction.
func (db *DB) RecordTick(tk *Tick) error {
	return db.Transaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO ticks (run_id, cycle, started_at, duration_ms, status, event_count, sensor_count, tokens_in, tokens_out, error)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, tk.RunID, tk.Cycle, formatTime(tk.StartedAt), tk.Duration.Milliseconds(), string(tk.Status),
			tk.EventCount, tk.SensorCount, tk.TokensIn, tk.TokensOut, tk.Error)
		if err != nil {
			return fmt.Errorf("record tick: %w", err)
		}

		column := "ticks_completed"
		if tk.Status == TickFailed {
			column = "ticks_failed"
		}
		if _, err := tx.Exec(
			"UPDATE runs SET "+column+" = "+column+" + 1 WHERE id = ?", tk.RunID,
		); err != nil {
			return fmt.Errorf("bump run counter: %w", err)
		}
		return nil
	})
}

// LastCycle returns the highest cycle number among completed ticks, or 0 if
// none have been recorded. New runs continue the count from here.
func (db *DB) LastCycle() (int, error) {
	var cycle int
	row := db.QueryRow(`
		SELECT COALESCE(MAX(cycle), 0) FROM ticks WHERE status = ?
	`, string(TickCompleted))
	if err := row.Scan(&cycle); err != nil {
		return 0, fmt.Errorf("last cycle: %w", err)
	}
	return cycle, nil
}

// RecentTicks lists ticks newest first, up to limit. A limit of 0 lists all.
func (db *DB) RecentTicks(limit int) ([]Tick, error) {
	query := `
		SELECT run_id, cycle, started_at, duration_ms, status, event_count, sensor_count, tokens_in, tokens_out, error
		FROM ticks ORDER BY id DESC
	`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = db.Query(query+" LIMIT ?", limit)
	} else {
		rows, err = db.Query(query)
	}
	if err != nil {
		return nil, fmt.Errorf("recent ticks: %w", err)
	}
	defer rows.Close()

	return scanTicks(rows)
}

// ListTicksByRun lists all ticks belonging to a run, oldest first.
func (db *DB) ListTicksByRun(runID string) ([]Tick, error) {
	rows, err := db.Query(`
		SELECT run_id, cycle, started_at, duration_ms, status, event_count, sensor_count, tokens_in, tokens_out, error
		FROM ticks WHERE run_id = ? ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("list ticks by run: %w", err)
	}
	defer rows.Close()

	return scanTicks(rows)
}

// scanTicks scans tick rows into a slice.
func scanTicks(rows *sql.Rows) ([]Tick, error) {
	var ticks []Tick
	for rows.Next() {
		var tk Tick
		var startedAt string
		var durationMS int64
		var errStr sql.NullString
		if err := rows.Scan(&tk.RunID, &tk.Cycle, &startedAt, &durationMS, &tk.Status,
			&tk.EventCount, &tk.SensorCount, &tk.TokensIn, &tk.TokensOut, &errStr); err != nil {
			return nil, fmt.Errorf("scan tick: %w", err)
		}
		tk.StartedAt, _ = parseTime(startedAt)
		tk.Duration = time.Duration(durationMS) * time.Millisecond
		if errStr.Valid {
			tk.Error = errStr.String
		}
		ticks = append(ticks, tk)
	}
	return ticks, nil
}
