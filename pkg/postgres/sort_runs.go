package postgres

import (
	"context"
	"fmt"
	"strconv"

	"github.com/coot-trips/tripsort/pkg/db"
)

// InsertSortRun records a completed sorting run
func (d *DB) InsertSortRun(ctx context.Context, run *db.SortRun) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO sort_runs (id, cohort, created_at, criteria, seed, attempts, all_valid, statistics)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, run.ID, run.Cohort, run.CreatedAt.UTC(), run.Criteria, formatSeed(run.Seed),
		run.Attempts, run.AllValid, run.Statistics)
	if err != nil {
		return fmt.Errorf("failed to insert sort run: %w", err)
	}
	return nil
}

// GetSortRuns retrieves all sort runs, newest first
func (d *DB) GetSortRuns(ctx context.Context) ([]db.SortRun, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id::text, cohort, created_at, criteria, seed, attempts, all_valid, statistics
		FROM sort_runs
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sort runs: %w", err)
	}
	defer rows.Close()

	var runs []db.SortRun
	for rows.Next() {
		var r db.SortRun
		var seed *string
		if err := rows.Scan(&r.ID, &r.Cohort, &r.CreatedAt, &r.Criteria, &seed,
			&r.Attempts, &r.AllValid, &r.Statistics); err != nil {
			return nil, fmt.Errorf("failed to scan sort run: %w", err)
		}
		if r.Seed, err = parseSeed(seed); err != nil {
			return nil, fmt.Errorf("sort run %s: %w", r.ID, err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sort runs: %w", err)
	}

	return runs, nil
}

// Seeds use the full uint64 range, which does not fit a BIGINT
func formatSeed(seed *uint64) *string {
	if seed == nil {
		return nil
	}
	s := strconv.FormatUint(*seed, 10)
	return &s
}

func parseSeed(s *string) (*uint64, error) {
	if s == nil {
		return nil, nil
	}
	v, err := strconv.ParseUint(*s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid seed %q: %w", *s, err)
	}
	return &v, nil
}

func toNullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func fromNullString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
