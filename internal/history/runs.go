package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"clipsync/internal/align"
	"clipsync/internal/realign"
)

var (
	// ErrRunNotFound reports a run id with no recorded run.
	ErrRunNotFound = errors.New("run not found")
	// ErrAmbiguousRun reports a run id prefix matching several runs.
	ErrAmbiguousRun = errors.New("run id prefix is ambiguous")
)

// Run is a recorded realignment run.
type Run struct {
	ID          string         `json:"run_id"`
	StartedAt   time.Time      `json:"started_at"`
	FinishedAt  time.Time      `json:"finished_at"`
	InterviewID string         `json:"interview_id,omitempty"`
	DryRun      bool           `json:"dry_run"`
	Counts      realign.Counts `json:"counts"`
}

const runColumns = "run_id, started_at, finished_at, interview_filter, dry_run, total, resolved, changed, unresolved, unavailable, invalid, matched, sentence_fallback, default_fallback"

const outcomeColumns = "clip_id, interview_id, title, status, kind, old_start, old_end, new_start, new_end, start_score, end_score, verify_score, reason"

// RecordRun stores a run and its clip outcomes in one transaction.
func (s *Store) RecordRun(ctx context.Context, report *realign.Report) error {
	if report == nil || report.RunID == "" {
		return errors.New("record run: report has no run id")
	}
	counts := report.Counts()

	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin run tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO runs ("+runColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			report.RunID,
			formatTime(report.StartedAt),
			formatTime(report.FinishedAt),
			nullableString(report.Filter.InterviewID),
			boolToInt(report.DryRun),
			counts.Total, counts.Resolved, counts.Changed, counts.Unresolved, counts.Unavailable, counts.Invalid,
			counts.Matched, counts.Sentence, counts.Default,
		); err != nil {
			return fmt.Errorf("insert run %s: %w", report.RunID, err)
		}

		stmt, err := tx.PrepareContext(ctx,
			"INSERT INTO clip_outcomes (run_id, position, "+outcomeColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		if err != nil {
			return fmt.Errorf("prepare clip outcome insert: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for i, c := range report.Clips {
			resolved := c.Status == realign.StatusResolved
			if _, err := stmt.ExecContext(ctx,
				report.RunID, i,
				c.ClipID, c.InterviewID, nullableString(c.Title), string(c.Status), c.Kind.String(),
				c.OldStart, c.OldEnd,
				nullableFloat(resolved, c.NewStart), nullableFloat(resolved, c.NewEnd),
				c.StartScore, nullableFloat(resolved, c.EndScore), nullableFloat(resolved, c.VerifyScore),
				nullableString(c.Reason),
			); err != nil {
				return fmt.Errorf("insert outcome for clip %s: %w", c.ClipID, err)
			}
		}
		return tx.Commit()
	})
}

// ListRuns returns up to limit runs, newest first. A limit of zero or less
// returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := "SELECT " + runColumns + " FROM runs ORDER BY started_at DESC, run_id"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun returns the run whose id equals or starts with id.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrRunNotFound)
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+runColumns+" FROM runs WHERE run_id = ? OR run_id LIKE ? ORDER BY run_id = ? DESC LIMIT 2",
		id, escapeLike(id)+"%", id)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	defer rows.Close()

	var matches []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		matches = append(matches, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	switch {
	case len(matches) == 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case matches[0].ID == id || len(matches) == 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousRun, id)
	}
}

// RunEntries returns the clip outcomes of a run in report order.
func (s *Store) RunEntries(ctx context.Context, runID string) ([]realign.ClipReport, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+outcomeColumns+" FROM clip_outcomes WHERE run_id = ? ORDER BY position", runID)
	if err != nil {
		return nil, fmt.Errorf("list clip outcomes: %w", err)
	}
	defer rows.Close()

	var entries []realign.ClipReport
	for rows.Next() {
		var (
			c                           realign.ClipReport
			title, reason               sql.NullString
			status, kind                string
			newStart, newEnd            sql.NullFloat64
			startScore, endScore, score sql.NullFloat64
		)
		if err := rows.Scan(&c.ClipID, &c.InterviewID, &title, &status, &kind,
			&c.OldStart, &c.OldEnd, &newStart, &newEnd, &startScore, &endScore, &score, &reason); err != nil {
			return nil, fmt.Errorf("scan clip outcome: %w", err)
		}
		c.Title = title.String
		c.Status = realign.Status(status)
		if parsed, err := align.ParseKind(kind); err == nil {
			c.Kind = parsed
		}
		c.NewStart, c.NewEnd = newStart.Float64, newEnd.Float64
		c.StartScore, c.EndScore, c.VerifyScore = startScore.Float64, endScore.Float64, score.Float64
		c.Reason = reason.String
		entries = append(entries, c)
	}
	return entries, rows.Err()
}

// ClipHistory returns every recorded outcome for one clip, newest run first.
func (s *Store) ClipHistory(ctx context.Context, clipID string) ([]Run, []realign.ClipReport, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT r.run_id FROM clip_outcomes c JOIN runs r ON r.run_id = c.run_id WHERE c.clip_id = ? ORDER BY r.started_at DESC",
		clipID)
	if err != nil {
		return nil, nil, fmt.Errorf("list clip history: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, nil, fmt.Errorf("scan clip history: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	var (
		runs    []Run
		entries []realign.ClipReport
	)
	for _, id := range ids {
		run, err := s.GetRun(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		all, err := s.RunEntries(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		for _, e := range all {
			if e.ClipID == clipID {
				runs = append(runs, *run)
				entries = append(entries, e)
				break
			}
		}
	}
	return runs, entries, nil
}

// Prune removes runs that started before cutoff and returns how many were
// deleted. Clip outcomes go with their run.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	var removed int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE started_at < ?", formatTime(cutoff))
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return removed, nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run                  Run
		startedRaw, finished string
		filter               sql.NullString
		dryRun               int
		c                    realign.Counts
	)
	if err := scanner.Scan(&run.ID, &startedRaw, &finished, &filter, &dryRun,
		&c.Total, &c.Resolved, &c.Changed, &c.Unresolved, &c.Unavailable, &c.Invalid,
		&c.Matched, &c.Sentence, &c.Default); err != nil {
		return Run{}, err
	}
	run.InterviewID = filter.String
	run.DryRun = dryRun != 0
	run.Counts = c
	if t, err := parseTimeString(startedRaw); err == nil {
		run.StartedAt = t
	}
	if t, err := parseTimeString(finished); err == nil {
		run.FinishedAt = t
	}
	return run, nil
}

func nullableFloat(valid bool, value float64) any {
	if !valid {
		return nil
	}
	return value
}

// escapeLike keeps user-supplied prefixes from acting as LIKE wildcards.
func escapeLike(value string) string {
	r := strings.NewReplacer("%", "", "_", "")
	return r.Replace(value)
}
