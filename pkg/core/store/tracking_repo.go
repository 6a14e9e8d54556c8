package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// PageMetric is the aggregated visit count for one path.
type PageMetric struct {
	Path  string `json:"path"`
	Count int64  `json:"count"`
}

// TrackingRepo persists page-view aggregates and individual site visits.
//
// Schema assumption:
// CREATE TABLE IF NOT EXISTS page_views (
//   path TEXT PRIMARY KEY,
//   view_count BIGINT NOT NULL DEFAULT 0
// );
// CREATE TABLE IF NOT EXISTS site_visits (
//   id SERIAL PRIMARY KEY,
//   path TEXT NOT NULL,
//   session_key TEXT NOT NULL,
//   visited_at TIMESTAMPTZ NOT NULL
// );
type TrackingRepo struct{}

// NewTrackingRepo creates a new repository instance.
func NewTrackingRepo() *TrackingRepo {
	return &TrackingRepo{}
}

// RecordView increments the aggregate counter for the path and logs the
// individual visit with its session key.
func (r *TrackingRepo) RecordView(ctx context.Context, path, sessionKey string) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	upsert := `
		INSERT INTO page_views (path, view_count)
		VALUES ($1, 1)
		ON CONFLICT (path)
		DO UPDATE SET view_count = page_views.view_count + 1;
	`
	if _, err := pool.Exec(ctx, upsert, path); err != nil {
		return fmt.Errorf("failed to record page view: %w", err)
	}

	visit := `
		INSERT INTO site_visits (path, session_key, visited_at)
		VALUES ($1, $2, $3);
	`
	if _, err := pool.Exec(ctx, visit, path, sessionKey, time.Now()); err != nil {
		return fmt.Errorf("failed to record site visit: %w", err)
	}
	return nil
}

// Metrics returns per-path visit counts, most visited first.
func (r *TrackingRepo) Metrics(ctx context.Context) ([]PageMetric, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := `
		SELECT path, view_count
		FROM page_views
		ORDER BY view_count DESC, path ASC;
	`
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load metrics: %w", err)
	}
	defer rows.Close()

	metrics, err := pgx.CollectRows(rows, pgx.RowToStructByPos[PageMetric])
	if err != nil {
		return nil, fmt.Errorf("failed to scan metrics: %w", err)
	}
	return metrics, nil
}

// TotalViews sums the aggregate counters across all paths.
func (r *TrackingRepo) TotalViews(ctx context.Context) (int64, error) {
	pool := GetPool()
	if pool == nil {
		return 0, fmt.Errorf("database pool not initialized")
	}

	var total int64
	query := `SELECT COALESCE(SUM(view_count), 0) FROM page_views;`
	if err := pool.QueryRow(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum page views: %w", err)
	}
	return total, nil
}
