// Package storage provides data persistence for the metrics collector.
// It implements SQLite-based storage for site/page identities, runs,
// per-metric observations, and the unified results summary.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pagepulse/pagepulse/internal/collector"
	// SQLite database driver (CGO-free)
	_ "modernc.org/sqlite"
)

// SQLiteStorage implements the collector.Storage interface using SQLite
type SQLiteStorage struct {
	db *sqlx.DB
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single connection prevents lock conflicts
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(30 * time.Minute)

	storage := &SQLiteStorage{db: db}

	if err := storage.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

// initSchema creates the database schema
func (s *SQLiteStorage) initSchema() error {
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 30000",
	}

	for _, pragma := range pragmas {
		if _, err := s.db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute pragma %s: %w", pragma, err)
		}
	}

	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// GetOrCreateSite returns the site_id for the given base URL, inserting a
// new row on first sight. Repeated calls with the same base URL return the
// same identifier; the UNIQUE constraint guarantees no duplicates.
func (s *SQLiteStorage) GetOrCreateSite(ctx context.Context, name, baseURL string) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id, "SELECT site_id FROM sites WHERE base_url = ?", baseURL)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to query site %s: %w", baseURL, err)
	}

	result, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO sites (site_name, base_url) VALUES (?, ?)",
		name, baseURL,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert site %s: %w", baseURL, err)
	}

	// INSERT OR IGNORE inserted nothing: another writer won the race.
	// last_insert_rowid is sticky per connection, so affected rows is the
	// reliable signal for the reread.
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		if err := s.db.GetContext(ctx, &id, "SELECT site_id FROM sites WHERE base_url = ?", baseURL); err != nil {
			return 0, fmt.Errorf("failed to reread site %s: %w", baseURL, err)
		}
		return id, nil
	}

	id64, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	return id64, nil
}

// GetOrCreatePage returns the page_id for the given full URL, inserting a
// new row on first sight. Idempotent in the same way as GetOrCreateSite.
func (s *SQLiteStorage) GetOrCreatePage(ctx context.Context, siteID int64, path, fullURL string) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id, "SELECT page_id FROM pages WHERE full_url = ?", fullURL)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to query page %s: %w", fullURL, err)
	}

	result, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO pages (site_id, path, full_url) VALUES (?, ?, ?)",
		siteID, path, fullURL,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert page %s: %w", fullURL, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		if err := s.db.GetContext(ctx, &id, "SELECT page_id FROM pages WHERE full_url = ?", fullURL); err != nil {
			return 0, fmt.Errorf("failed to reread page %s: %w", fullURL, err)
		}
		return id, nil
	}

	id64, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	return id64, nil
}

// CreateRun inserts one run row scoping all metrics of this invocation
func (s *SQLiteStorage) CreateRun(ctx context.Context, userAgent string) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO runs (user_agent, created_at) VALUES (?, ?)",
		userAgent, time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}
	return id, nil
}

// summaryEntry is one scalar fanned out from an observation into main_results
type summaryEntry struct {
	name  string
	value float64
}

// SavePageMetrics persists every metric of one page observation cycle.
// All observation rows and their summary rows are written in a single
// transaction so a mid-cycle failure leaves nothing partially visible.
func (s *SQLiteStorage) SavePageMetrics(ctx context.Context, obs *collector.PageObservation) error {
	extraJSON, err := json.Marshal(obs.Fetch)
	if err != nil {
		return fmt.Errorf("failed to marshal fetch info: %w", err)
	}
	extra := string(extraJSON)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Absent certificate result: no ssl observation, no ssl summary row
	if obs.SSLValidDays != nil {
		err = s.insertMetric(ctx, tx, obs, "metric_ssl", []string{"valid_days"},
			[]any{*obs.SSLValidDays}, extra,
			[]summaryEntry{{"ssl_valid_days", float64(*obs.SSLValidDays)}})
		if err != nil {
			return err
		}
	}

	favicon := 0
	if obs.HasFavicon {
		favicon = 1
	}

	metrics := []struct {
		table     string
		columns   []string
		values    []any
		summaries []summaryEntry
	}{
		{"metric_title", []string{"title_length"}, []any{obs.TitleLength},
			[]summaryEntry{{"title_length", float64(obs.TitleLength)}}},
		{"metric_word_count", []string{"word_count"}, []any{obs.WordCount},
			[]summaryEntry{{"word_count", float64(obs.WordCount)}}},
		{"metric_links", []string{"internal_links", "external_links"},
			[]any{obs.InternalLinks, obs.ExternalLinks},
			[]summaryEntry{
				{"internal_links", float64(obs.InternalLinks)},
				{"external_links", float64(obs.ExternalLinks)},
			}},
		{"metric_images", []string{"images_without_alt"}, []any{obs.ImagesWithoutAlt},
			[]summaryEntry{{"images_without_alt", float64(obs.ImagesWithoutAlt)}}},
		{"metric_scripts", []string{"external_script_ratio"}, []any{obs.ExternalScriptRatio},
			[]summaryEntry{{"external_script_ratio", obs.ExternalScriptRatio}}},
		{"metric_headings", []string{"h1_count", "h2_count", "h3_count"},
			[]any{obs.H1Count, obs.H2Count, obs.H3Count},
			[]summaryEntry{
				{"h1_count", float64(obs.H1Count)},
				{"h2_count", float64(obs.H2Count)},
				{"h3_count", float64(obs.H3Count)},
			}},
		{"metric_favicon", []string{"has_favicon"}, []any{favicon},
			[]summaryEntry{{"has_favicon", float64(favicon)}}},
		{"metric_meta_keywords", []string{"keywords_count"}, []any{obs.MetaKeywordsCount},
			[]summaryEntry{{"meta_keywords_count", float64(obs.MetaKeywordsCount)}}},
	}

	for _, m := range metrics {
		if err := s.insertMetric(ctx, tx, obs, m.table, m.columns, m.values, extra, m.summaries); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// insertMetric writes one observation row and its summary rows inside tx.
// The summary rows back-reference the observation row's id.
func (s *SQLiteStorage) insertMetric(ctx context.Context, tx *sqlx.Tx, obs *collector.PageObservation,
	table string, columns []string, values []any, extra string, summaries []summaryEntry) error {

	query := fmt.Sprintf(
		"INSERT INTO %s (site_id, page_id, run_id, measured_at, %s, extra) VALUES (?, ?, ?, ?, %s, ?)",
		table,
		strings.Join(columns, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", "),
	)

	args := make([]any, 0, len(values)+5)
	args = append(args, obs.SiteID, obs.PageID, obs.RunID, obs.MeasuredAt)
	args = append(args, values...)
	args = append(args, extra)

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}

	metricID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get metric ID for %s: %w", table, err)
	}

	for _, sm := range summaries {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO main_results (site_id, page_id, run_id, metric_table, metric_id, metric_name, metric_value, measured_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, obs.SiteID, obs.PageID, obs.RunID, table, metricID, sm.name, sm.value, obs.MeasuredAt)
		if err != nil {
			return fmt.Errorf("failed to insert summary %s: %w", sm.name, err)
		}
	}

	return nil
}

// MainResult is one row of the unified summary table
type MainResult struct {
	ID          int64     `db:"id"`
	SiteID      int64     `db:"site_id"`
	PageID      int64     `db:"page_id"`
	RunID       int64     `db:"run_id"`
	MetricTable string    `db:"metric_table"`
	MetricID    *int64    `db:"metric_id"`
	MetricName  string    `db:"metric_name"`
	MetricValue float64   `db:"metric_value"`
	MeasuredAt  time.Time `db:"measured_at"`
	Notes       *string   `db:"notes"`
}

// ListRunResults returns all summary rows recorded for a run, the query
// surface downstream consumers read.
func (s *SQLiteStorage) ListRunResults(ctx context.Context, runID int64) ([]MainResult, error) {
	var results []MainResult
	err := s.db.SelectContext(ctx, &results, `
		SELECT id, site_id, page_id, run_id, metric_table, metric_id, metric_name, metric_value, measured_at, notes
		FROM main_results
		WHERE run_id = ?
		ORDER BY page_id, metric_name
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list run results: %w", err)
	}
	return results, nil
}
