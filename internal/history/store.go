package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const defaultListLimit = 50

// Record is one placement outcome.
type Record struct {
	ID            int64     `json:"id"`
	RunID         string    `json:"run_id"`
	Source        string    `json:"source"`
	Target        string    `json:"target,omitempty"`
	Outcome       string    `json:"outcome"`
	CaptureTime   time.Time `json:"capture_time,omitzero"`
	CaptureSource string    `json:"capture_source,omitempty"`
	Bytes         int64     `json:"bytes"`
	Error         string    `json:"error,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Filter narrows List. Zero values match everything; Limit <= 0 uses a default.
type Filter struct {
	RunID   string
	Outcome string
	Limit   int
}

// Run aggregates the records of one sort run.
type Run struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Total      int
	Bytes      int64
	Outcomes   map[string]int
}

// Store manages the placement journal backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("history path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record appends rec and returns its id. CreatedAt defaults to now.
func (s *Store) Record(ctx context.Context, rec Record) (int64, error) {
	if strings.TrimSpace(rec.RunID) == "" || strings.TrimSpace(rec.Outcome) == "" {
		return 0, errors.New("history record needs run id and outcome")
	}
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO placements (
            run_id, source_path, target_path, outcome, capture_time,
            capture_source, size_bytes, error_message, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID,
		rec.Source,
		nullableString(rec.Target),
		rec.Outcome,
		nullableTime(rec.CaptureTime),
		nullableString(rec.CaptureSource),
		rec.Bytes,
		nullableString(rec.Error),
		created.UTC().Format(createdLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("insert placement: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// List returns matching records, newest first.
func (s *Store) List(ctx context.Context, filter Filter) ([]Record, error) {
	var (
		where []string
		args  []any
	)
	if filter.RunID != "" {
		where = append(where, "run_id = ?")
		args = append(args, filter.RunID)
	}
	if filter.Outcome != "" {
		where = append(where, "outcome = ?")
		args = append(args, filter.Outcome)
	}
	query := "SELECT " + recordColumns + " FROM placements"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query placements: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan placement: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Stats counts records per outcome across the whole journal.
func (s *Store) Stats(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT outcome, COUNT(1) FROM placements GROUP BY outcome")
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var (
			outcome string
			count   int
		)
		if err := rows.Scan(&outcome, &count); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		stats[outcome] = count
	}
	return stats, rows.Err()
}

// Runs returns the most recent runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, MIN(created_at), MAX(created_at), COUNT(1), COALESCE(SUM(size_bytes), 0)
         FROM placements GROUP BY run_id ORDER BY MAX(id) DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	var (
		runs  []Run
		index = make(map[string]int)
	)
	for rows.Next() {
		var (
			run                 Run
			startRaw, finishRaw string
		)
		if err := rows.Scan(&run.RunID, &startRaw, &finishRaw, &run.Total, &run.Bytes); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt = parseTime(startRaw)
		run.FinishedAt = parseTime(finishRaw)
		run.Outcomes = make(map[string]int)
		index[run.RunID] = len(runs)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()
	if len(runs) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(runs)), ",")
	args := make([]any, 0, len(runs))
	for _, run := range runs {
		args = append(args, run.RunID)
	}
	counts, err := s.db.QueryContext(ctx,
		"SELECT run_id, outcome, COUNT(1) FROM placements WHERE run_id IN ("+placeholders+") GROUP BY run_id, outcome",
		args...)
	if err != nil {
		return nil, fmt.Errorf("query run outcomes: %w", err)
	}
	defer counts.Close()
	for counts.Next() {
		var (
			runID, outcome string
			count          int
		)
		if err := counts.Scan(&runID, &outcome, &count); err != nil {
			return nil, fmt.Errorf("scan run outcome: %w", err)
		}
		if i, ok := index[runID]; ok {
			runs[i].Outcomes[outcome] = count
		}
	}
	return runs, counts.Err()
}

// Clear removes all records and returns how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM placements")
	if err != nil {
		return 0, fmt.Errorf("clear placements: %w", err)
	}
	return res.RowsAffected()
}
