package http

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pagemill/internal/handlers"
	"pagemill/internal/splitter"
	"pagemill/internal/storage"
)

// Deps holds dependencies for the HTTP router. Seeder may be nil when
// crawling is disabled; the crawl route is then not registered.
type Deps struct {
	DB           *sql.DB
	Pages        storage.PageStore
	Chunks       storage.ChunkStore
	Seeder       handlers.Seeder
	SplitOptions splitter.Options
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	// Add chi middleware
	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)

	// Add CORS middleware
	r.Use(CORS)

	chunkHandler := handlers.NewChunkHandler(deps.SplitOptions)
	pagesHandler := handlers.NewPagesHandler(deps.Pages)
	pageChunksHandler := handlers.NewPageChunksHandler(deps.Pages, deps.Chunks)
	healthHandler := handlers.NewHealthHandler(deps.DB)

	// Register API routes
	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/chunk", chunkHandler)
		r.Method(http.MethodGet, "/pages", pagesHandler)
		r.Method(http.MethodGet, "/pages/{id}/chunks", pageChunksHandler)
		r.Method(http.MethodGet, "/chunks/{id}", handlers.NewChunkByIDHandler(deps.Chunks))
		r.Method(http.MethodGet, "/health", healthHandler)

		if deps.Seeder != nil {
			r.Method(http.MethodPost, "/crawl", handlers.NewCrawlHandler(deps.Seeder))
		}
	})

	return r
}
