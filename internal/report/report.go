// Package report records backtest run summaries for later analysis.
package report

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"fxcarry-go/internal/backtest"
)

// RunSummary is the per-run record emitted after a pipeline completes.
type RunSummary struct {
	RunID     uuid.UUID           `json:"run_id"`
	Session   backtest.Session    `json:"session"`
	Rows      int                 `json:"rows"`
	Years     []backtest.YearStat `json:"years"`
	CreatedAt time.Time           `json:"created_at"`
}

// NewRunSummary stamps a summary with a fresh run id and creation time.
func NewRunSummary(session backtest.Session, rows int, years []backtest.YearStat) RunSummary {
	return RunSummary{
		RunID:     uuid.New(),
		Session:   session,
		Rows:      rows,
		Years:     years,
		CreatedAt: time.Now().UTC(),
	}
}

// Recorder captures run summaries for later inspection.
type Recorder interface {
	Record(RunSummary)
}

// Log stores run summaries in memory for quick inspection.
type Log struct {
	mu   sync.Mutex
	runs []RunSummary
}

// NewLog creates an empty log optionally pre-sizing storage.
func NewLog(capacity int) *Log {
	if capacity < 0 {
		capacity = 0
	}
	return &Log{runs: make([]RunSummary, 0, capacity)}
}

// Record appends a run summary to the log.
func (l *Log) Record(summary RunSummary) {
	l.mu.Lock()
	l.runs = append(l.runs, summary)
	l.mu.Unlock()
}

// Snapshot returns a copy of the recorded summaries.
func (l *Log) Snapshot() []RunSummary {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]RunSummary, len(l.runs))
	copy(out, l.runs)
	return out
}

// Reset clears all stored summaries.
func (l *Log) Reset() {
	l.mu.Lock()
	l.runs = l.runs[:0]
	l.mu.Unlock()
}
