// Package state persists lint runs and the suppression baseline in SQLite.
package state

import (
	"context"
	"time"
)

// Run is one invocation of the linter.
type Run struct {
	ID          string     `json:"id"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Files       int        `json:"files"`
	Issues      int        `json:"issues"`
}

// BaselineEntry is a recorded diagnostic that later runs suppress.
type BaselineEntry struct {
	Path    string `json:"path"`
	RuleID  string `json:"rule_id"`
	Message string `json:"message"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

// Key identifies an entry independently of its position, so that edits
// elsewhere in a file do not invalidate the baseline.
func (e BaselineEntry) Key() string {
	return e.Path + "\x00" + e.RuleID + "\x00" + e.Message
}

// Store is the persistence interface used by the CLI.
type Store interface {
	CreateRun(ctx context.Context, files int) (*Run, error)
	CompleteRun(ctx context.Context, id string, issues int) error
	ListRuns(ctx context.Context, limit int) ([]*Run, error)

	ReplaceBaseline(ctx context.Context, runID string, entries []BaselineEntry) error
	ListBaseline(ctx context.Context) ([]BaselineEntry, error)

	Close() error
}

// Baseline counts recorded entries by key.
type Baseline map[string]int

// NewBaseline indexes entries for suppression.
func NewBaseline(entries []BaselineEntry) Baseline {
	b := make(Baseline, len(entries))
	for _, e := range entries {
		b[e.Key()]++
	}
	return b
}

// Suppress reports whether e is covered by the baseline and consumes one
// matching occurrence. A diagnostic that occurs more often than recorded is
// reported for the surplus occurrences.
func (b Baseline) Suppress(e BaselineEntry) bool {
	k := e.Key()
	if b[k] == 0 {
		return false
	}
	b[k]--
	return true
}
