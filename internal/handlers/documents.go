package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"fieldservice-ai/internal/contextutil"
	"fieldservice-ai/internal/indexer"
	"fieldservice-ai/internal/search"
	"fieldservice-ai/internal/service"
	"fieldservice-ai/internal/storage"
)

// Error message strings returned by the document endpoints. They are part
// of the HTTP contract and existing callers match on them verbatim.
const (
	msgMissingProcessFields = "File ID and text content are required"
	msgFileNotFound         = "File not found"
	msgProcessFailed        = "Failed to process document"
	msgInternalError        = "Internal server error"
	msgQueryRequired        = "Query is required"
	msgProcessInProgress    = "Processing already in progress for this file"
)

// DocumentsHandler handles document processing and search endpoints.
type DocumentsHandler struct {
	pipeline *indexer.Pipeline
	engine   search.Engine
	fileRepo storage.FileStore
}

// NewDocumentsHandler creates a new DocumentsHandler.
func NewDocumentsHandler(pipeline *indexer.Pipeline, engine search.Engine, fileRepo storage.FileStore) *DocumentsHandler {
	return &DocumentsHandler{
		pipeline: pipeline,
		engine:   engine,
		fileRepo: fileRepo,
	}
}

// ProcessRequest is the payload for POST /documents/process.
type ProcessRequest struct {
	FileID      string `json:"fileId"`
	TextContent string `json:"textContent"`
}

// ProcessResponse is the success payload for POST /documents/process.
type ProcessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SearchOptionsPayload mirrors search.Options for the HTTP layer.
type SearchOptionsPayload struct {
	MatchThreshold float32  `json:"matchThreshold,omitempty"`
	MatchCount     int      `json:"matchCount,omitempty"`
	FileIDs        []string `json:"fileIds,omitempty"`
}

// SearchRequest is the payload for POST /documents/search.
type SearchRequest struct {
	Query   string                `json:"query"`
	Options *SearchOptionsPayload `json:"options,omitempty"`
}

// SearchResponse is the payload for both search endpoints.
type SearchResponse struct {
	Success bool            `json:"success"`
	Results []search.Result `json:"results"`
	Query   string          `json:"query"`
	Count   int             `json:"count"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Process handles POST /documents/process.
func (h *DocumentsHandler) Process(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid process request body", "error", err)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	fileID := strings.TrimSpace(req.FileID)
	textContent := strings.TrimSpace(req.TextContent)
	if fileID == "" || textContent == "" {
		writeError(w, http.StatusBadRequest, msgMissingProcessFields)
		return
	}

	file, err := h.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, msgFileNotFound)
			return
		}
		logger.ErrorContext(ctx, "failed to look up file", "file_id", fileID, "error", err)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	// An already-processed file gets its chunk set replaced; a fresh file
	// gets a plain indexing pass.
	if file.IsProcessed {
		err = h.pipeline.Reprocess(ctx, file, req.TextContent)
	} else {
		err = h.pipeline.Process(ctx, file, req.TextContent)
	}
	if err != nil {
		if errors.Is(err, service.ErrProcessingInProgress) {
			writeError(w, http.StatusConflict, msgProcessInProgress)
			return
		}
		logger.ErrorContext(ctx, "document processing failed", "file_id", fileID, "error", err)
		writeError(w, http.StatusInternalServerError, msgProcessFailed)
		return
	}

	writeJSON(w, http.StatusOK, ProcessResponse{
		Success: true,
		Message: "Document processed successfully",
	})
}

// SearchPost handles POST /documents/search.
func (h *DocumentsHandler) SearchPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid search request body", "error", err)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	opts := search.Options{}
	if req.Options != nil {
		opts.MatchThreshold = req.Options.MatchThreshold
		opts.MatchCount = req.Options.MatchCount
		opts.FileIDs = req.Options.FileIDs
	}

	h.runSearch(w, r, req.Query, opts)
}

// SearchGet handles GET /documents/search.
// Query parameters: q (required), threshold, count, fileIds (comma-separated,
// empty segments dropped). Non-numeric threshold/count values fall back to
// the search defaults.
func (h *DocumentsHandler) SearchGet(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	opts := search.Options{}
	if raw := params.Get("threshold"); raw != "" {
		if threshold, err := strconv.ParseFloat(raw, 32); err == nil {
			opts.MatchThreshold = float32(threshold)
		}
	}
	if raw := params.Get("count"); raw != "" {
		if count, err := strconv.Atoi(raw); err == nil {
			opts.MatchCount = count
		}
	}
	if raw := params.Get("fileIds"); raw != "" {
		var fileIDs []string
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				fileIDs = append(fileIDs, id)
			}
		}
		opts.FileIDs = fileIDs
	}

	h.runSearch(w, r, params.Get("q"), opts)
}

// runSearch validates the query, invokes the engine and writes the result.
func (h *DocumentsHandler) runSearch(w http.ResponseWriter, r *http.Request, query string, opts search.Options) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(query) == "" {
		writeError(w, http.StatusBadRequest, msgQueryRequired)
		return
	}

	resp, err := h.engine.Search(ctx, search.Request{
		UserID:  userIDFromRequest(r),
		Query:   query,
		Options: opts,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, msgQueryRequired)
			return
		}
		logger.ErrorContext(ctx, "search failed", "error", err)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	results := resp.Results
	if results == nil {
		results = []search.Result{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{
		Success: true,
		Results: results,
		Query:   resp.Query,
		Count:   len(results),
	})
}

// userIDFromRequest reads the acting user from the X-User-ID header.
// Authentication lives a layer above this subsystem.
func userIDFromRequest(r *http.Request) string {
	if userID := strings.TrimSpace(r.Header.Get("X-User-ID")); userID != "" {
		return userID
	}
	return "anonymous"
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, ErrorResponse{Error: message})
}
