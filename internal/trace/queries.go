package trace

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// RunInfo is one row of the run listing.
type RunInfo struct {
	ID             string
	CreatedAt      time.Time
	Ticks          uint64
	BlocksAdmitted uint64
	BlocksReleased uint64
	Completed      bool
}

// RunSummary is the detailed view of a single run.
type RunSummary struct {
	RunInfo
	ConfigJSON string
	Events     uint64
	Stalls     uint64
}

// LaneStats aggregates event counts for one lane of a run.
type LaneStats struct {
	Lane     int
	Admits   uint64
	Releases uint64
	Stalls   uint64
}

// ListRuns returns runs ordered newest first, up to limit rows. A limit of
// 0 returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunInfo, error) {
	query := `SELECT id, created_at, ticks, blocks_admitted, blocks_released, completed
        FROM runs ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []RunInfo
	for rows.Next() {
		info, err := scanRunInfo(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Summary returns the detailed view of one run. id may be a unique prefix
// of the full run id.
func (s *Store) Summary(ctx context.Context, id string) (*RunSummary, error) {
	// Run ids are uuids; anything outside their alphabet cannot match, and
	// LIKE metacharacters must not widen the prefix.
	if id == "" || strings.ContainsFunc(id, func(r rune) bool {
		return !strings.ContainsRune("0123456789abcdefABCDEF-", r)
	}) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, ticks, blocks_admitted, blocks_released, completed, config_json
            FROM runs WHERE id LIKE ? || '%' ORDER BY created_at DESC LIMIT 1`,
		id,
	)

	var summary RunSummary
	var createdAt string
	var completed int
	err := row.Scan(&summary.ID, &createdAt, &summary.Ticks,
		&summary.BlocksAdmitted, &summary.BlocksReleased, &completed, &summary.ConfigJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	summary.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse run timestamp: %w", err)
	}
	summary.Completed = completed != 0

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(kind = 'stall'), 0) FROM events WHERE run_id = ?`,
		summary.ID,
	).Scan(&summary.Events, &summary.Stalls)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	return &summary, nil
}

// LaneBreakdown aggregates per-lane event counts for one run.
func (s *Store) LaneBreakdown(ctx context.Context, id string) ([]LaneStats, error) {
	summary, err := s.Summary(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT lane,
            COALESCE(SUM(kind = 'admit'), 0),
            COALESCE(SUM(kind = 'release'), 0),
            COALESCE(SUM(kind = 'stall'), 0)
            FROM events WHERE run_id = ? GROUP BY lane ORDER BY lane`,
		summary.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("lane breakdown: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var stats []LaneStats
	for rows.Next() {
		var ls LaneStats
		if err := rows.Scan(&ls.Lane, &ls.Admits, &ls.Releases, &ls.Stalls); err != nil {
			return nil, fmt.Errorf("scan lane stats: %w", err)
		}
		stats = append(stats, ls)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lane stats: %w", err)
	}
	return stats, nil
}

func scanRunInfo(rows *sql.Rows) (RunInfo, error) {
	var info RunInfo
	var createdAt string
	var completed int
	if err := rows.Scan(&info.ID, &createdAt, &info.Ticks,
		&info.BlocksAdmitted, &info.BlocksReleased, &completed); err != nil {
		return RunInfo{}, fmt.Errorf("scan run: %w", err)
	}
	parsed, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return RunInfo{}, fmt.Errorf("parse run timestamp: %w", err)
	}
	info.CreatedAt = parsed
	info.Completed = completed != 0
	return info, nil
}
