package recorder

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/brentlens/brentlens/internal/dashboard"
)

// SQLiteRecorder persists refresh-cycle outcomes to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so operator reads don't block the writer.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS refresh_cycles (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			cycle_id      TEXT NOT NULL,
			generation    INTEGER NOT NULL,
			started_at    INTEGER NOT NULL,
			duration_ms   INTEGER NOT NULL,
			stale         INTEGER NOT NULL,
			prices        INTEGER,
			change_points INTEGER,
			events        INTEGER,
			associations  INTEGER,
			metrics_ok    INTEGER,
			errors        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refresh_started ON refresh_cycles(started_at)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:30], err)
		}
	}
	return nil
}

// RecordRefresh inserts one row per completed refresh cycle.
func (r *SQLiteRecorder) RecordRefresh(result dashboard.RefreshResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errTexts []string
	for _, se := range result.Errors {
		errTexts = append(errTexts, se.Error())
	}

	_, err := r.db.Exec(
		`INSERT INTO refresh_cycles
		 (cycle_id, generation, started_at, duration_ms, stale, prices, change_points, events, associations, metrics_ok, errors)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.CycleID,
		result.Generation,
		result.StartedAt.Unix(),
		result.Duration.Milliseconds(),
		boolToInt(result.Stale),
		result.Prices,
		result.ChangePoints,
		result.Events,
		result.Associations,
		boolToInt(result.MetricsOK),
		strings.Join(errTexts, "; "),
	)
	if err != nil {
		return fmt.Errorf("insert refresh cycle: %w", err)
	}
	return nil
}

// Close closes the database.
func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
