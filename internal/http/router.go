package http

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"fieldservice-ai/internal/analytics"
	"fieldservice-ai/internal/handlers"
	"fieldservice-ai/internal/indexer"
	"fieldservice-ai/internal/search"
	"fieldservice-ai/internal/storage"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Pipeline *indexer.Pipeline
	Engine   search.Engine
	FileRepo storage.FileStore
	Tracker  *analytics.Tracker
	DB       *sql.DB
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	// Add chi middleware
	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	documentsHandler := handlers.NewDocumentsHandler(deps.Pipeline, deps.Engine, deps.FileRepo)
	analyticsHandler := handlers.NewAnalyticsHandler(deps.Tracker)
	healthHandler := handlers.NewHealthHandler(deps.DB)

	r.Route("/documents", func(r chi.Router) {
		r.Post("/process", documentsHandler.Process)
		r.Post("/search", documentsHandler.SearchPost)
		r.Get("/search", documentsHandler.SearchGet)
	})

	r.Route("/analytics", func(r chi.Router) {
		r.Post("/track", analyticsHandler.Track)
		r.Post("/click", analyticsHandler.Click)
		r.Get("/history", analyticsHandler.History)
		r.Get("/popular", analyticsHandler.Popular)
		r.Get("/summary", analyticsHandler.Summary)
		r.Get("/performance", analyticsHandler.Performance)
		r.Post("/cleanup", analyticsHandler.Cleanup)
		r.Route("/saved", func(r chi.Router) {
			r.Post("/", analyticsHandler.SaveQuery)
			r.Get("/", analyticsHandler.SavedQueries)
			r.Post("/{id}/use", analyticsHandler.UseSavedQuery)
			r.Delete("/{id}", analyticsHandler.DeleteSavedQuery)
		})
	})

	r.Method(http.MethodGet, "/health", healthHandler)

	return r
}
