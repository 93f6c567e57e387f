package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/valpere/transcheck/internal"
	"github.com/valpere/transcheck/internal/report"
)

var ErrRunNotFound = errors.New("run not found")

type Store struct {
	db *sql.DB
}

// busyTimeout lets a writer wait for a lock held by another process.
const busyTimeout = "_pragma=busy_timeout(5000)"

// New opens the history database. All access goes through one connection,
// so concurrent callers queue instead of failing with SQLITE_BUSY.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?"+busyTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS validation_runs (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		policy TEXT NOT NULL,
		total_outputs INTEGER NOT NULL,
		outputs_with_violations INTEGER NOT NULL,
		repetition_count INTEGER NOT NULL,
		enfin_count INTEGER NOT NULL,
		report_json TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- run_outputs keeps one row per transition group for per-output queries
	CREATE TABLE IF NOT EXISTS run_outputs (
		run_id TEXT NOT NULL,
		output_id INTEGER NOT NULL,
		transitions_json TEXT NOT NULL,
		violations_json TEXT NOT NULL,
		has_violations BOOLEAN DEFAULT FALSE,
		PRIMARY KEY (run_id, output_id),
		FOREIGN KEY (run_id) REFERENCES validation_runs(id)
	);

	-- run_words stores the distinct repeated words of each run
	CREATE TABLE IF NOT EXISTS run_words (
		run_id TEXT NOT NULL,
		word TEXT NOT NULL,
		PRIMARY KEY (run_id, word),
		FOREIGN KEY (run_id) REFERENCES validation_runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON validation_runs(created_at);
	CREATE INDEX IF NOT EXISTS idx_words_word ON run_words(word);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveRun persists a run and its report in one transaction.
func (s *Store) SaveRun(ctx context.Context, run internal.ValidationRun, rep report.Report) error {
	reportJSON, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO validation_runs (id, source, policy, total_outputs, outputs_with_violations, repetition_count, enfin_count, report_json, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Source, run.Policy, rep.TotalOutputs, rep.OutputsWithViolations,
		rep.ViolationsSummary.Repetition.Count, rep.ViolationsSummary.EnfinMisplaced.Count,
		string(reportJSON), run.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	for _, d := range rep.Details {
		transitions, err := json.Marshal(d.Transitions)
		if err != nil {
			return fmt.Errorf("failed to encode transitions: %w", err)
		}
		violations, err := json.Marshal(d.Violations)
		if err != nil {
			return fmt.Errorf("failed to encode violations: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO run_outputs (run_id, output_id, transitions_json, violations_json, has_violations) VALUES (?, ?, ?, ?, ?)`,
			run.ID, d.OutputID, string(transitions), string(violations), !d.Violations.Empty())
		if err != nil {
			return fmt.Errorf("failed to save output %d: %w", d.OutputID, err)
		}
	}

	for _, w := range rep.ViolationsSummary.Repetition.ViolatedWords {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_words (run_id, word) VALUES (?, ?)`, run.ID, w); err != nil {
			return fmt.Errorf("failed to save word %q: %w", w, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// RunEntry is a row from the validation_runs table.
type RunEntry struct {
	ID                    string
	Source                string
	Policy                string
	TotalOutputs          int
	OutputsWithViolations int
	RepetitionCount       int
	EnfinCount            int
	CreatedAt             time.Time
}

// GetRun returns a run and its full report.
func (s *Store) GetRun(ctx context.Context, id string) (*RunEntry, *report.Report, error) {
	var e RunEntry
	var reportJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, source, policy, total_outputs, outputs_with_violations, repetition_count, enfin_count, created_at, report_json FROM validation_runs WHERE id = ?`,
		id).Scan(&e.ID, &e.Source, &e.Policy, &e.TotalOutputs, &e.OutputsWithViolations, &e.RepetitionCount, &e.EnfinCount, &e.CreatedAt, &reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get run: %w", err)
	}

	var rep report.Report
	if err := json.Unmarshal([]byte(reportJSON), &rep); err != nil {
		return nil, nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return &e, &rep, nil
}

// ListRuns returns runs ordered by most recent first. limit ≤ 0 returns all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunEntry, error) {
	query := `SELECT id, source, policy, total_outputs, outputs_with_violations, repetition_count, enfin_count, created_at FROM validation_runs ORDER BY created_at DESC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var results []RunEntry
	for rows.Next() {
		var e RunEntry
		if err := rows.Scan(&e.ID, &e.Source, &e.Policy, &e.TotalOutputs, &e.OutputsWithViolations, &e.RepetitionCount, &e.EnfinCount, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		results = append(results, e)
	}

	return results, rows.Err()
}

// HistoryStats summarises all stored runs.
type HistoryStats struct {
	TotalRuns             int `json:"total_runs"`
	TotalOutputs          int `json:"total_outputs"`
	OutputsWithViolations int `json:"outputs_with_violations"`
	RepetitionCount       int `json:"repetition_count"`
	EnfinCount            int `json:"enfin_misplaced_count"`
}

func (s *Store) Stats(ctx context.Context) (*HistoryStats, error) {
	stats := &HistoryStats{}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(total_outputs), 0),
			COALESCE(SUM(outputs_with_violations), 0),
			COALESCE(SUM(repetition_count), 0),
			COALESCE(SUM(enfin_count), 0)
		FROM validation_runs`).Scan(
		&stats.TotalRuns,
		&stats.TotalOutputs,
		&stats.OutputsWithViolations,
		&stats.RepetitionCount,
		&stats.EnfinCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return stats, nil
}

// WordCount is a repeated word and the number of runs it was reported in.
type WordCount struct {
	Word string `json:"word"`
	Runs int    `json:"runs"`
}

// TopWords returns the words most often reported as repeated, across runs.
func (s *Store) TopWords(ctx context.Context, limit int) ([]WordCount, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT word, COUNT(*) AS runs FROM run_words GROUP BY word ORDER BY runs DESC, word ASC LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query words: %w", err)
	}
	defer rows.Close()

	words := []WordCount{}
	for rows.Next() {
		var wc WordCount
		if err := rows.Scan(&wc.Word, &wc.Runs); err != nil {
			return nil, fmt.Errorf("failed to scan word: %w", err)
		}
		words = append(words, wc)
	}
	return words, rows.Err()
}

// DeleteRun permanently removes a run and its outputs.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, q := range []string{
		`DELETE FROM run_words WHERE run_id = ?`,
		`DELETE FROM run_outputs WHERE run_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return fmt.Errorf("failed to delete run data: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM validation_runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

// ClearRuns removes all runs and returns how many were deleted.
func (s *Store) ClearRuns(ctx context.Context) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM run_words`); err != nil {
		return 0, fmt.Errorf("failed to clear words: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM run_outputs`); err != nil {
		return 0, fmt.Errorf("failed to clear outputs: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM validation_runs`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count cleared runs: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit clear: %w", err)
	}
	return n, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
