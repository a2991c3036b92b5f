package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/odysseus0/headlines/internal/model"
)

const runSelectColumns = `
	r.id, r.mode, r.started_at, r.ended_at, r.scraped_at,
	(SELECT COUNT(*) FROM headlines h WHERE h.run_id = r.id)
`

// SaveRun appends report to the archive and returns the new run id.
func (s *Store) SaveRun(ctx context.Context, report model.RunReport) (runID int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (mode, started_at, ended_at, scraped_at) VALUES (?, ?, ?, ?)
	`,
		string(report.Mode),
		timeToDBString(&report.StartedAt),
		timeToDBString(&report.EndedAt),
		timeToDBString(&report.ScrapedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	if runID, err = res.LastInsertId(); err != nil {
		return 0, err
	}

	for i, src := range report.Sources {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO run_sources (run_id, position, source, resolved_url, attempts, fetched)
			VALUES (?, ?, ?, ?, ?, ?)
		`, runID, i, src.Source, resolvedURL(src), len(src.Attempts), len(src.Headlines)); err != nil {
			return 0, fmt.Errorf("insert run source: %w", err)
		}
	}

	for i, h := range report.Headlines {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO headlines (run_id, position, source, title, link, published, published_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, runID, i, h.Source, h.Title, h.Link, h.Published, timeToDBString(h.PublishedAt)); err != nil {
			return 0, fmt.Errorf("insert headline: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

func resolvedURL(src model.SourceResult) any {
	if len(src.Headlines) == 0 || len(src.Attempts) == 0 {
		return nil
	}
	return src.Attempts[len(src.Attempts)-1].URL
}

func (s *Store) ListRuns(ctx context.Context, limit int) ([]ArchivedRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+runSelectColumns+` FROM runs r ORDER BY r.id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ArchivedRun
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetRun loads one run with its per-source outcome.
func (s *Store) GetRun(ctx context.Context, id int64) (ArchivedRun, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runSelectColumns+` FROM runs r WHERE r.id = ?`, id)
	run, err := scanRun(row)
	if err != nil {
		return ArchivedRun{}, wrapNotFound(fmt.Sprintf("run %d", id), err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT source, COALESCE(resolved_url, ''), attempts, fetched
		FROM run_sources WHERE run_id = ? ORDER BY position
	`, id)
	if err != nil {
		return ArchivedRun{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var src RunSource
		if err := rows.Scan(&src.Source, &src.ResolvedURL, &src.Attempts, &src.Fetched); err != nil {
			return ArchivedRun{}, err
		}
		run.Sources = append(run.Sources, src)
	}
	return run, rows.Err()
}

// ListHistory returns archived headlines, newest run first and in saved
// order within a run.
func (s *Store) ListHistory(ctx context.Context, opts HistoryOptions) ([]ArchivedHeadline, error) {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.RunID < 0 {
		return nil, fmt.Errorf("%w: run id must be positive", ErrInvalidInput)
	}
	if opts.RunID > 0 {
		var exists int
		if err := s.db.QueryRowContext(ctx, `SELECT 1 FROM runs WHERE id = ?`, opts.RunID).Scan(&exists); err != nil {
			return nil, wrapNotFound(fmt.Sprintf("run %d", opts.RunID), err)
		}
	}

	where := make([]string, 0, 3)
	args := make([]any, 0, 4)
	if opts.RunID > 0 {
		where = append(where, "h.run_id = ?")
		args = append(args, opts.RunID)
	}
	if src := strings.TrimSpace(opts.Source); src != "" {
		where = append(where, "h.source = ?")
		args = append(args, src)
	}
	if q := strings.TrimSpace(opts.Search); q != "" {
		where = append(where, "h.id IN (SELECT rowid FROM headlines_fts WHERE headlines_fts MATCH ?)")
		args = append(args, ftsQuery(q))
	}

	query := `SELECT h.run_id, r.mode, r.scraped_at, h.source, h.title, h.link, h.published, h.published_at
		FROM headlines h
		JOIN runs r ON r.id = h.run_id`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY h.run_id DESC, h.position ASC LIMIT ?`
	args = append(args, opts.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ArchivedHeadline
	for rows.Next() {
		h, err := scanArchivedHeadline(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
