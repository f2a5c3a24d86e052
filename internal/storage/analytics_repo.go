package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_analytics_store.go -package=mocks fieldservice-ai/internal/storage AnalyticsStore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// AnalyticsStore defines the interface for search analytics and saved
// query persistence. The AnalyticsTracker owns all records behind it.
type AnalyticsStore interface {
	// InsertSearch records a single executed search.
	InsertSearch(ctx context.Context, entry *SearchAnalyticsEntry) error
	// GetSearch gets an analytics entry by ID. Returns ErrNotFound if absent.
	GetSearch(ctx context.Context, id string) (*SearchAnalyticsEntry, error)
	// UpdateClickedResults replaces the clicked-result set for an entry.
	UpdateClickedResults(ctx context.Context, id string, clicked []string) error
	// ListHistory returns a user's most recent searches, newest first.
	ListHistory(ctx context.Context, userID string, limit int) ([]*SearchAnalyticsEntry, error)
	// PopularQueries returns the most frequent queries over the past daysBack days.
	PopularQueries(ctx context.Context, limit, daysBack int) ([]PopularQuery, error)
	// Summary aggregates a user's search activity over the past daysBack days.
	Summary(ctx context.Context, userID string, daysBack int) (*QuerySummary, error)
	// Performance aggregates execution-time statistics across all searches.
	Performance(ctx context.Context) (*PerformanceMetrics, error)
	// DeleteOlderThan removes analytics entries created before the cutoff.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// InsertSavedQuery persists a user-saved search.
	InsertSavedQuery(ctx context.Context, q *SavedQuery) error
	// ListSavedQueries returns a user's saved queries, newest first.
	ListSavedQueries(ctx context.Context, userID string) ([]*SavedQuery, error)
	// UpdateSavedQueryUsage bumps use_count and last_used_at, scoped to the owner.
	UpdateSavedQueryUsage(ctx context.Context, id, ownerID string) error
	// DeleteSavedQuery deletes a saved query, scoped to the owner.
	// Returns ErrNotFound when no row matches the id/owner pair.
	DeleteSavedQuery(ctx context.Context, id, ownerID string) error
}

// AnalyticsRepo provides methods for analytics operations.
// It implements the AnalyticsStore interface.
type AnalyticsRepo struct {
	db *sql.DB
}

// NewAnalyticsRepo creates a new AnalyticsRepo.
func NewAnalyticsRepo(db *sql.DB) *AnalyticsRepo {
	return &AnalyticsRepo{db: db}
}

// InsertSearch records a single executed search.
// The entry.ID must be set (UUID) before calling this method.
func (r *AnalyticsRepo) InsertSearch(ctx context.Context, entry *SearchAnalyticsEntry) error {
	clicked, err := json.Marshal(entry.ClickedResultIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal clicked results: %w", err)
	}
	if entry.ClickedResultIDs == nil {
		clicked = []byte("[]")
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO search_analytics (id, user_id, query, results_count, similarity_threshold, execution_time_ms, clicked_result_ids)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.UserID, entry.Query, entry.ResultsCount,
		entry.SimilarityThreshold, entry.ExecutionTimeMs, string(clicked),
	)
	if err != nil {
		return fmt.Errorf("failed to insert search analytics: %w", err)
	}
	return nil
}

// GetSearch gets an analytics entry by ID. Returns ErrNotFound if not found.
func (r *AnalyticsRepo) GetSearch(ctx context.Context, id string) (*SearchAnalyticsEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, query, results_count, similarity_threshold, execution_time_ms, clicked_result_ids, created_at
		 FROM search_analytics WHERE id = ?`,
		id,
	)
	entry, err := scanSearchEntry(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query search analytics: %w", err)
	}
	return entry, nil
}

// UpdateClickedResults replaces the clicked-result set for an entry.
func (r *AnalyticsRepo) UpdateClickedResults(ctx context.Context, id string, clicked []string) error {
	if clicked == nil {
		clicked = []string{}
	}
	payload, err := json.Marshal(clicked)
	if err != nil {
		return fmt.Errorf("failed to marshal clicked results: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		"UPDATE search_analytics SET clicked_result_ids = ? WHERE id = ?",
		string(payload), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update clicked results: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListHistory returns a user's most recent searches, newest first.
func (r *AnalyticsRepo) ListHistory(ctx context.Context, userID string, limit int) ([]*SearchAnalyticsEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, query, results_count, similarity_threshold, execution_time_ms, clicked_result_ids, created_at
		 FROM search_analytics WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query search history: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var entries []*SearchAnalyticsEntry
	for rows.Next() {
		entry, err := scanSearchEntry(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return entries, nil
}

// PopularQueries returns the most frequent queries over the past daysBack days.
func (r *AnalyticsRepo) PopularQueries(ctx context.Context, limit, daysBack int) ([]PopularQuery, error) {
	cutoff := time.Now().AddDate(0, 0, -daysBack)
	rows, err := r.db.QueryContext(ctx,
		`SELECT query, COUNT(*) AS cnt FROM search_analytics
		 WHERE created_at >= ? GROUP BY query ORDER BY cnt DESC, query LIMIT ?`,
		cutoff, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query popular queries: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var popular []PopularQuery
	for rows.Next() {
		var p PopularQuery
		if err := rows.Scan(&p.Query, &p.Count); err != nil {
			return nil, fmt.Errorf("failed to scan popular query: %w", err)
		}
		popular = append(popular, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return popular, nil
}

// Summary aggregates a user's search activity over the past daysBack days.
func (r *AnalyticsRepo) Summary(ctx context.Context, userID string, daysBack int) (*QuerySummary, error) {
	cutoff := time.Now().AddDate(0, 0, -daysBack)

	var summary QuerySummary
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT query),
		        COALESCE(AVG(results_count), 0), COALESCE(AVG(execution_time_ms), 0)
		 FROM search_analytics WHERE user_id = ? AND created_at >= ?`,
		userID, cutoff,
	).Scan(&summary.TotalSearches, &summary.UniqueQueries,
		&summary.AvgResultsCount, &summary.AvgExecutionTime)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate search summary: %w", err)
	}

	// Clicked result sets are stored as JSON arrays; count them in Go.
	rows, err := r.db.QueryContext(ctx,
		"SELECT clicked_result_ids FROM search_analytics WHERE user_id = ? AND created_at >= ?",
		userID, cutoff,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query clicked results: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan clicked results: %w", err)
		}
		var clicked []string
		if err := json.Unmarshal([]byte(raw), &clicked); err == nil {
			summary.TotalClicks += len(clicked)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return &summary, nil
}

// Performance aggregates execution-time statistics across all searches.
func (r *AnalyticsRepo) Performance(ctx context.Context) (*PerformanceMetrics, error) {
	var metrics PerformanceMetrics
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(AVG(execution_time_ms), 0),
		        COALESCE(MAX(execution_time_ms), 0),
		        COALESCE(AVG(CASE WHEN results_count = 0 THEN 1.0 ELSE 0.0 END), 0),
		        COALESCE(AVG(results_count), 0)
		 FROM search_analytics`,
	).Scan(&metrics.TotalSearches, &metrics.AvgExecutionMs, &metrics.MaxExecutionMs,
		&metrics.ZeroResultRate, &metrics.AvgResultsCount)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate performance metrics: %w", err)
	}
	return &metrics, nil
}

// DeleteOlderThan removes analytics entries created before the cutoff.
func (r *AnalyticsRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM search_analytics WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old analytics entries: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check delete result: %w", err)
	}
	return deleted, nil
}

// InsertSavedQuery persists a user-saved search.
// The q.ID must be set (UUID) before calling this method.
func (r *AnalyticsRepo) InsertSavedQuery(ctx context.Context, q *SavedQuery) error {
	filters, err := json.Marshal(q.Filters)
	if err != nil {
		return fmt.Errorf("failed to marshal saved query filters: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO saved_queries (id, user_id, name, query, filters, use_count)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		q.ID, q.UserID, q.Name, q.Query, string(filters), q.UseCount,
	)
	if err != nil {
		return fmt.Errorf("failed to insert saved query: %w", err)
	}
	return nil
}

// ListSavedQueries returns a user's saved queries, newest first.
func (r *AnalyticsRepo) ListSavedQueries(ctx context.Context, userID string) ([]*SavedQuery, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, query, filters, use_count, last_used_at, created_at
		 FROM saved_queries WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query saved queries: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var queries []*SavedQuery
	for rows.Next() {
		var q SavedQuery
		var filters string
		var lastUsed sql.NullTime
		if err := rows.Scan(&q.ID, &q.UserID, &q.Name, &q.Query, &filters,
			&q.UseCount, &lastUsed, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan saved query: %w", err)
		}
		if err := json.Unmarshal([]byte(filters), &q.Filters); err != nil {
			return nil, fmt.Errorf("failed to unmarshal saved query filters: %w", err)
		}
		if lastUsed.Valid {
			t := lastUsed.Time
			q.LastUsedAt = &t
		}
		queries = append(queries, &q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return queries, nil
}

// UpdateSavedQueryUsage bumps use_count and last_used_at, scoped to the owner.
func (r *AnalyticsRepo) UpdateSavedQueryUsage(ctx context.Context, id, ownerID string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE saved_queries SET use_count = use_count + 1, last_used_at = CURRENT_TIMESTAMP WHERE id = ? AND user_id = ?",
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update saved query usage: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSavedQuery deletes a saved query, scoped to the owner.
// The owner scope prevents cross-user mutation: an existing query owned by
// someone else is indistinguishable from a missing one.
func (r *AnalyticsRepo) DeleteSavedQuery(ctx context.Context, id, ownerID string) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM saved_queries WHERE id = ? AND user_id = ?",
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete saved query: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// scanSearchEntry scans one search_analytics row via the given scan function.
func scanSearchEntry(scan func(dest ...any) error) (*SearchAnalyticsEntry, error) {
	var entry SearchAnalyticsEntry
	var clicked string
	if err := scan(&entry.ID, &entry.UserID, &entry.Query, &entry.ResultsCount,
		&entry.SimilarityThreshold, &entry.ExecutionTimeMs, &clicked, &entry.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(clicked), &entry.ClickedResultIDs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal clicked results: %w", err)
	}
	return &entry, nil
}
