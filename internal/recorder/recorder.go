// Package recorder persists a per-cycle audit trail of refresh outcomes so
// data-provider flakiness can be diagnosed after the fact. The dashboard
// itself never reads these rows; they exist for operators (sqlite3 CLI,
// Grafana, or a plain SELECT).
package recorder

import "github.com/brentlens/brentlens/internal/dashboard"

// Recorder receives the outcome of each refresh cycle.
type Recorder interface {
	RecordRefresh(result dashboard.RefreshResult) error
	Close() error
}

// Noop discards everything. Used when the recorder is disabled.
type Noop struct{}

// RecordRefresh does nothing.
func (Noop) RecordRefresh(dashboard.RefreshResult) error { return nil }

// Close does nothing.
func (Noop) Close() error { return nil }
