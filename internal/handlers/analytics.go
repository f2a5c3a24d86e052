package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"fieldservice-ai/internal/analytics"
	"fieldservice-ai/internal/contextutil"
	"fieldservice-ai/internal/storage"
)

// AnalyticsHandler handles search analytics and saved-query endpoints.
// Per contract these endpoints always answer 2xx: store failures surface as
// null/false payloads, never as HTTP error codes.
type AnalyticsHandler struct {
	tracker *analytics.Tracker
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(tracker *analytics.Tracker) *AnalyticsHandler {
	return &AnalyticsHandler{tracker: tracker}
}

// TrackRequest is the payload for POST /analytics/track.
type TrackRequest struct {
	Query           string  `json:"query"`
	ResultsCount    int     `json:"resultsCount"`
	Threshold       float32 `json:"threshold"`
	ExecutionTimeMs int64   `json:"executionTimeMs"`
}

// TrackResponse carries the new analytics entry ID, or null on store failure.
type TrackResponse struct {
	AnalyticsID *string `json:"analyticsId"`
}

// ClickRequest is the payload for POST /analytics/click.
type ClickRequest struct {
	AnalyticsID string `json:"analyticsId"`
	ResultID    string `json:"resultId"`
}

// SuccessResponse is a boolean result payload.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// SaveQueryRequest is the payload for POST /analytics/saved.
type SaveQueryRequest struct {
	Name    string                `json:"name"`
	Query   string                `json:"query"`
	Filters *SearchOptionsPayload `json:"filters,omitempty"`
}

// SavedQueryResponse is the HTTP shape of a saved query.
type SavedQueryResponse struct {
	ID         string               `json:"id"`
	Name       string               `json:"name"`
	Query      string               `json:"query"`
	Filters    SearchOptionsPayload `json:"filters"`
	UseCount   int                  `json:"useCount"`
	LastUsedAt *string              `json:"lastUsedAt"`
	CreatedAt  string               `json:"createdAt"`
}

// Track handles POST /analytics/track.
func (h *AnalyticsHandler) Track(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req TrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		logger.WarnContext(ctx, "invalid track request", "error", err)
		writeJSON(w, http.StatusOK, TrackResponse{AnalyticsID: nil})
		return
	}

	id := h.tracker.TrackQuery(ctx, userIDFromRequest(r), req.Query, req.ResultsCount, req.Threshold, req.ExecutionTimeMs)
	if id == "" {
		writeJSON(w, http.StatusOK, TrackResponse{AnalyticsID: nil})
		return
	}
	writeJSON(w, http.StatusOK, TrackResponse{AnalyticsID: &id})
}

// Click handles POST /analytics/click.
func (h *AnalyticsHandler) Click(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req ClickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AnalyticsID == "" || req.ResultID == "" {
		logger.WarnContext(ctx, "invalid click request", "error", err)
		writeJSON(w, http.StatusOK, SuccessResponse{Success: false})
		return
	}

	ok := h.tracker.TrackClick(ctx, req.AnalyticsID, req.ResultID)
	writeJSON(w, http.StatusOK, SuccessResponse{Success: ok})
}

// History handles GET /analytics/history.
func (h *AnalyticsHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := intParam(r, "limit", 20)
	entries := h.tracker.History(r.Context(), userIDFromRequest(r), limit)

	type entryPayload struct {
		ID               string   `json:"id"`
		Query            string   `json:"query"`
		ResultsCount     int      `json:"resultsCount"`
		Threshold        float32  `json:"threshold"`
		ExecutionTimeMs  int64    `json:"executionTimeMs"`
		ClickedResultIDs []string `json:"clickedResultIds"`
		CreatedAt        string   `json:"createdAt"`
	}

	payload := make([]entryPayload, 0, len(entries))
	for _, e := range entries {
		clicked := e.ClickedResultIDs
		if clicked == nil {
			clicked = []string{}
		}
		payload = append(payload, entryPayload{
			ID:               e.ID,
			Query:            e.Query,
			ResultsCount:     e.ResultsCount,
			Threshold:        e.SimilarityThreshold,
			ExecutionTimeMs:  e.ExecutionTimeMs,
			ClickedResultIDs: clicked,
			CreatedAt:        e.CreatedAt.Format(timeFormat),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": payload})
}

// Popular handles GET /analytics/popular.
func (h *AnalyticsHandler) Popular(w http.ResponseWriter, r *http.Request) {
	limit := intParam(r, "limit", 10)
	daysBack := intParam(r, "days", 30)
	popular := h.tracker.PopularQueries(r.Context(), limit, daysBack)

	type popularPayload struct {
		Query string `json:"query"`
		Count int    `json:"count"`
	}
	payload := make([]popularPayload, 0, len(popular))
	for _, p := range popular {
		payload = append(payload, popularPayload{Query: p.Query, Count: p.Count})
	}
	writeJSON(w, http.StatusOK, map[string]any{"queries": payload})
}

// Summary handles GET /analytics/summary.
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	daysBack := intParam(r, "days", 30)
	summary := h.tracker.Summary(r.Context(), userIDFromRequest(r), daysBack)

	writeJSON(w, http.StatusOK, map[string]any{
		"totalSearches":    summary.TotalSearches,
		"uniqueQueries":    summary.UniqueQueries,
		"avgResultsCount":  summary.AvgResultsCount,
		"avgExecutionTime": summary.AvgExecutionTime,
		"totalClicks":      summary.TotalClicks,
	})
}

// Performance handles GET /analytics/performance.
func (h *AnalyticsHandler) Performance(w http.ResponseWriter, r *http.Request) {
	metrics := h.tracker.PerformanceMetrics(r.Context())

	writeJSON(w, http.StatusOK, map[string]any{
		"totalSearches":   metrics.TotalSearches,
		"avgExecutionMs":  metrics.AvgExecutionMs,
		"maxExecutionMs":  metrics.MaxExecutionMs,
		"zeroResultRate":  metrics.ZeroResultRate,
		"avgResultsCount": metrics.AvgResultsCount,
	})
}

// SaveQuery handles POST /analytics/saved.
func (h *AnalyticsHandler) SaveQuery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req SaveQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Query) == "" {
		logger.WarnContext(ctx, "invalid save query request", "error", err)
		writeJSON(w, http.StatusOK, map[string]any{"savedQuery": nil})
		return
	}

	filters := storage.SavedQueryFilters{}
	if req.Filters != nil {
		filters.MatchThreshold = req.Filters.MatchThreshold
		filters.MatchCount = req.Filters.MatchCount
		filters.FileIDs = req.Filters.FileIDs
	}

	saved, err := h.tracker.SaveQuery(ctx, userIDFromRequest(r), req.Name, req.Query, filters)
	if err != nil {
		logger.ErrorContext(ctx, "failed to save query", "error", err)
		writeJSON(w, http.StatusOK, map[string]any{"savedQuery": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"savedQuery": savedQueryPayload(saved)})
}

// SavedQueries handles GET /analytics/saved.
func (h *AnalyticsHandler) SavedQueries(w http.ResponseWriter, r *http.Request) {
	queries := h.tracker.SavedQueries(r.Context(), userIDFromRequest(r))

	payload := make([]SavedQueryResponse, 0, len(queries))
	for _, q := range queries {
		payload = append(payload, savedQueryPayload(q))
	}
	writeJSON(w, http.StatusOK, map[string]any{"savedQueries": payload})
}

// UseSavedQuery handles POST /analytics/saved/{id}/use.
func (h *AnalyticsHandler) UseSavedQuery(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := h.tracker.UpdateUsage(r.Context(), id, userIDFromRequest(r))
	writeJSON(w, http.StatusOK, SuccessResponse{Success: err == nil})
}

// DeleteSavedQuery handles DELETE /analytics/saved/{id}.
// Deletion is scoped to the owning user; a query owned by someone else is
// reported the same as a missing one.
func (h *AnalyticsHandler) DeleteSavedQuery(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := h.tracker.DeleteSavedQuery(r.Context(), id, userIDFromRequest(r))
	writeJSON(w, http.StatusOK, SuccessResponse{Success: err == nil})
}

// Cleanup handles POST /analytics/cleanup.
func (h *AnalyticsHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DaysToKeep int `json:"daysToKeep"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	ok := h.tracker.Cleanup(r.Context(), req.DaysToKeep)
	writeJSON(w, http.StatusOK, SuccessResponse{Success: ok})
}

const timeFormat = "2006-01-02T15:04:05Z07:00"

func savedQueryPayload(q *storage.SavedQuery) SavedQueryResponse {
	resp := SavedQueryResponse{
		ID:    q.ID,
		Name:  q.Name,
		Query: q.Query,
		Filters: SearchOptionsPayload{
			MatchThreshold: q.Filters.MatchThreshold,
			MatchCount:     q.Filters.MatchCount,
			FileIDs:        q.Filters.FileIDs,
		},
		UseCount:  q.UseCount,
		CreatedAt: q.CreatedAt.Format(timeFormat),
	}
	if q.LastUsedAt != nil {
		used := q.LastUsedAt.Format(timeFormat)
		resp.LastUsedAt = &used
	}
	return resp
}

// intParam parses an integer query parameter, falling back to a default on
// absence or a non-numeric value.
func intParam(r *http.Request, name string, defaultValue int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}
