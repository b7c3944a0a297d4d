package session

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"phototriage/internal/catalog"
	"phototriage/internal/relocation"
)

// Run is one journaled relocation.
type Run struct {
	ID        string
	InputDir  string
	Started   time.Time
	Finished  time.Time
	Moved     int
	Failed    int
	Untouched int
}

// RunResult is the journaled outcome of one photo in a run.
type RunResult struct {
	PhotoID    string
	Rating     catalog.Rating
	Outcome    relocation.Outcome
	RAWTarget  string
	JPEGTarget string
	Error      string
}

// RecordRun journals a relocation result. A result without a run ID is given one.
func (s *Store) RecordRun(ctx context.Context, result *relocation.Result) (Run, error) {
	ctx = ensureContext(ctx)
	run := Run{
		ID:        result.RunID,
		InputDir:  result.InputDir,
		Started:   result.Started,
		Finished:  result.Finished,
		Moved:     result.Moved(),
		Failed:    result.Failed(),
		Untouched: result.Untouched,
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO runs (id, input_dir, started_at, finished_at, moved, failed, untouched)
            VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.ID, run.InputDir, formatTime(run.Started), formatTime(run.Finished),
			run.Moved, run.Failed, run.Untouched,
		); err != nil {
			return err
		}
		for _, rating := range catalog.Ratings() {
			group := result.Group(rating)
			for _, photo := range group.Photos {
				errMsg := ""
				if photo.Err != nil {
					errMsg = photo.Err.Error()
				}
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO run_results (run_id, photo_id, rating, outcome, raw_target, jpeg_target, error_message)
                    VALUES (?, ?, ?, ?, ?, ?, ?)`,
					run.ID, photo.PhotoID, int(rating), string(photo.Outcome),
					nullableString(photo.RAWTarget), nullableString(photo.JPEGTarget), nullableString(errMsg),
				); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return Run{}, fmt.Errorf("record run %s: %w", run.ID, err)
	}
	return run, nil
}

// Runs lists journaled runs, newest first. A limit <= 0 returns every run.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	query := "SELECT id, input_dir, started_at, finished_at, moved, failed, untouched FROM runs ORDER BY started_at DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var startedRaw, finishedRaw string
		if err := rows.Scan(&run.ID, &run.InputDir, &startedRaw, &finishedRaw, &run.Moved, &run.Failed, &run.Untouched); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.Started = parseTime(startedRaw)
		run.Finished = parseTime(finishedRaw)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// RunResults returns the per-photo outcomes of one run in rating order.
func (s *Store) RunResults(ctx context.Context, runID string) ([]RunResult, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT photo_id, rating, outcome, raw_target, jpeg_target, error_message
        FROM run_results WHERE run_id = ? ORDER BY rating DESC, photo_id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query run results: %w", err)
	}
	defer rows.Close()

	var out []RunResult
	for rows.Next() {
		var (
			r       RunResult
			rating  int
			outcome string
		)
		var rawTarget, jpegTarget, errMsg sql.NullString
		if err := rows.Scan(&r.PhotoID, &rating, &outcome, &rawTarget, &jpegTarget, &errMsg); err != nil {
			return nil, fmt.Errorf("scan run result: %w", err)
		}
		r.Rating = catalog.Rating(rating)
		r.Outcome = relocation.Outcome(outcome)
		r.RAWTarget = rawTarget.String
		r.JPEGTarget = jpegTarget.String
		r.Error = errMsg.String
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run results: %w", err)
	}
	return out, nil
}
