package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // register the sqlite driver
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

var _ Store = (*SQLiteStore)(nil)

var errNotOpen = errors.New("database not opened")

// NewSQLiteStore creates a store. A nil logger discards log output.
func NewSQLiteStore(logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLiteStore{logger: logger}
}

// Open opens the database at path, creating its directory if needed, and
// applies pending migrations. Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(ctx context.Context, path string) error {
	dsn := ":memory:"
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("failed to create state directory: %w", err)
			}
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// A single connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)

	if err := s.attach(ctx, db); err != nil {
		_ = db.Close()
		return err
	}
	s.path = path
	return nil
}

// OpenDB wraps an existing connection and migrates it.
func (s *SQLiteStore) OpenDB(ctx context.Context, db *sql.DB) error {
	return s.attach(ctx, db)
}

func (s *SQLiteStore) attach(ctx context.Context, db *sql.DB) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	s.db = db
	if err := s.Migrate(ctx); err != nil {
		s.db = nil
		return err
	}
	s.logger.Debug("state store opened", slog.String("path", s.path))
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func generateID() string {
	return uuid.New().String()
}

// CreateRun records the start of a lint run.
func (s *SQLiteStore) CreateRun(ctx context.Context, files int) (*Run, error) {
	if s.db == nil {
		return nil, errNotOpen
	}

	run := &Run{
		ID:        generateID(),
		StartedAt: time.Now().UTC(),
		Files:     files,
	}
	s.logger.Debug("creating run", slog.String("id", run.ID), slog.Int("files", files))

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, files) VALUES (?, ?, ?)`,
		run.ID, run.StartedAt, run.Files,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	return run, nil
}

// CompleteRun records the number of issues a run reported.
func (s *SQLiteStore) CompleteRun(ctx context.Context, id string, issues int) error {
	if s.db == nil {
		return errNotOpen
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET completed_at = ?, issues = ? WHERE id = ?`,
		time.Now().UTC(), issues, id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run not found: %s", id)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if s.db == nil {
		return nil, errNotOpen
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, completed_at, files, issues FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		var completedAt sql.NullTime
		if err := rows.Scan(&run.ID, &run.StartedAt, &completedAt, &run.Files, &run.Issues); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if completedAt.Valid {
			run.CompletedAt = &completedAt.Time
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// ReplaceBaseline swaps the whole baseline for entries in one transaction.
func (s *SQLiteStore) ReplaceBaseline(ctx context.Context, runID string, entries []BaselineEntry) (err error) {
	if s.db == nil {
		return errNotOpen
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM baseline`); err != nil {
		return fmt.Errorf("failed to clear baseline: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO baseline (path, rule_id, message, line, col, run_id, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("failed to prepare baseline insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC()
	for _, e := range entries {
		if _, err = stmt.ExecContext(ctx, e.Path, e.RuleID, e.Message, e.Line, e.Column, runID, now); err != nil {
			return fmt.Errorf("failed to insert baseline entry: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit baseline: %w", err)
	}
	s.logger.Debug("baseline replaced", slog.Int("entries", len(entries)))
	return nil
}

// ListBaseline returns every baseline entry ordered by path and position.
func (s *SQLiteStore) ListBaseline(ctx context.Context) ([]BaselineEntry, error) {
	if s.db == nil {
		return nil, errNotOpen
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT path, rule_id, message, line, col FROM baseline ORDER BY path, line, col, rule_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list baseline: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []BaselineEntry
	for rows.Next() {
		var e BaselineEntry
		if err := rows.Scan(&e.Path, &e.RuleID, &e.Message, &e.Line, &e.Column); err != nil {
			return nil, fmt.Errorf("failed to scan baseline entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list baseline: %w", err)
	}
	return entries, nil
}
