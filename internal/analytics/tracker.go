package analytics

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"fieldservice-ai/internal/contextutil"
	"fieldservice-ai/internal/storage"
)

// Tracker records search analytics, result clicks and user-saved queries.
// It is deliberately forgiving: store failures are logged and reported as
// null/false/zero defaults so they never affect the primary operation the
// tracking is attached to.
type Tracker struct {
	store  storage.AnalyticsStore
	logger *slog.Logger
}

// NewTracker creates a new analytics tracker.
func NewTracker(store storage.AnalyticsStore) *Tracker {
	return &Tracker{
		store:  store,
		logger: slog.Default(),
	}
}

// TrackQuery records an executed search and returns the analytics entry ID,
// or an empty string when the write fails. It never returns an error.
func (t *Tracker) TrackQuery(ctx context.Context, userID, query string, resultsCount int, threshold float32, executionTimeMs int64) string {
	logger := contextutil.LoggerFromContext(ctx)

	entry := &storage.SearchAnalyticsEntry{
		ID:                  uuid.New().String(),
		UserID:              userID,
		Query:               strings.TrimSpace(query),
		ResultsCount:        resultsCount,
		SimilarityThreshold: threshold,
		ExecutionTimeMs:     executionTimeMs,
		ClickedResultIDs:    []string{},
	}

	if err := t.store.InsertSearch(ctx, entry); err != nil {
		logger.ErrorContext(ctx, "failed to track search query", "user_id", userID, "error", err)
		return ""
	}
	return entry.ID
}

// TrackClick appends a clicked result to an analytics entry. The append is
// idempotent: clicking the same result twice leaves one entry. Returns
// false when the entry is missing or the write fails.
func (t *Tracker) TrackClick(ctx context.Context, analyticsID, resultID string) bool {
	logger := contextutil.LoggerFromContext(ctx)

	entry, err := t.store.GetSearch(ctx, analyticsID)
	if err != nil {
		logger.WarnContext(ctx, "failed to load analytics entry for click", "analytics_id", analyticsID, "error", err)
		return false
	}

	if slices.Contains(entry.ClickedResultIDs, resultID) {
		return true
	}

	clicked := append(entry.ClickedResultIDs, resultID)
	if err := t.store.UpdateClickedResults(ctx, analyticsID, clicked); err != nil {
		logger.ErrorContext(ctx, "failed to record result click", "analytics_id", analyticsID, "error", err)
		return false
	}
	return true
}

// History returns a user's recent searches, newest first. Store errors
// yield an empty list.
func (t *Tracker) History(ctx context.Context, userID string, limit int) []*storage.SearchAnalyticsEntry {
	logger := contextutil.LoggerFromContext(ctx)

	if limit <= 0 {
		limit = 20
	}
	entries, err := t.store.ListHistory(ctx, userID, limit)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load search history", "user_id", userID, "error", err)
		return []*storage.SearchAnalyticsEntry{}
	}
	if entries == nil {
		entries = []*storage.SearchAnalyticsEntry{}
	}
	return entries
}

// PopularQueries returns the most frequent queries over the past daysBack
// days. Store errors yield an empty list.
func (t *Tracker) PopularQueries(ctx context.Context, limit, daysBack int) []storage.PopularQuery {
	logger := contextutil.LoggerFromContext(ctx)

	if limit <= 0 {
		limit = 10
	}
	if daysBack <= 0 {
		daysBack = 30
	}
	popular, err := t.store.PopularQueries(ctx, limit, daysBack)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load popular queries", "error", err)
		return []storage.PopularQuery{}
	}
	if popular == nil {
		popular = []storage.PopularQuery{}
	}
	return popular
}

// Summary aggregates a user's search activity over the past daysBack days.
// Store errors yield zeroed counters.
func (t *Tracker) Summary(ctx context.Context, userID string, daysBack int) storage.QuerySummary {
	logger := contextutil.LoggerFromContext(ctx)

	if daysBack <= 0 {
		daysBack = 30
	}
	summary, err := t.store.Summary(ctx, userID, daysBack)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load search summary", "user_id", userID, "error", err)
		return storage.QuerySummary{}
	}
	return *summary
}

// PerformanceMetrics aggregates execution-time statistics across all
// searches. Store errors yield zeroed counters.
func (t *Tracker) PerformanceMetrics(ctx context.Context) storage.PerformanceMetrics {
	logger := contextutil.LoggerFromContext(ctx)

	metrics, err := t.store.Performance(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load performance metrics", "error", err)
		return storage.PerformanceMetrics{}
	}
	return *metrics
}

// SaveQuery persists a user-saved search and returns it with its new ID.
func (t *Tracker) SaveQuery(ctx context.Context, userID, name, query string, filters storage.SavedQueryFilters) (*storage.SavedQuery, error) {
	saved := &storage.SavedQuery{
		ID:      uuid.New().String(),
		UserID:  userID,
		Name:    strings.TrimSpace(name),
		Query:   strings.TrimSpace(query),
		Filters: filters,
	}
	if err := t.store.InsertSavedQuery(ctx, saved); err != nil {
		return nil, err
	}
	return saved, nil
}

// SavedQueries lists a user's saved searches. Store errors yield an empty list.
func (t *Tracker) SavedQueries(ctx context.Context, userID string) []*storage.SavedQuery {
	logger := contextutil.LoggerFromContext(ctx)

	queries, err := t.store.ListSavedQueries(ctx, userID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load saved queries", "user_id", userID, "error", err)
		return []*storage.SavedQuery{}
	}
	if queries == nil {
		queries = []*storage.SavedQuery{}
	}
	return queries
}

// UpdateUsage bumps a saved query's use count, scoped to the owner.
func (t *Tracker) UpdateUsage(ctx context.Context, id, ownerID string) error {
	return t.store.UpdateSavedQueryUsage(ctx, id, ownerID)
}

// DeleteSavedQuery deletes a saved query, scoped to the owner.
func (t *Tracker) DeleteSavedQuery(ctx context.Context, id, ownerID string) error {
	return t.store.DeleteSavedQuery(ctx, id, ownerID)
}

// Cleanup deletes analytics entries older than daysToKeep days. Returns
// false when the delete fails.
func (t *Tracker) Cleanup(ctx context.Context, daysToKeep int) bool {
	logger := contextutil.LoggerFromContext(ctx)

	if daysToKeep <= 0 {
		daysToKeep = 90
	}
	cutoff := time.Now().AddDate(0, 0, -daysToKeep)
	deleted, err := t.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		logger.ErrorContext(ctx, "failed to clean up analytics entries", "error", err)
		return false
	}
	logger.InfoContext(ctx, "analytics cleanup completed", "deleted", deleted, "days_kept", daysToKeep)
	return true
}
