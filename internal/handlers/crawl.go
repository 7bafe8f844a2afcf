package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"pagemill/internal/contextutil"
)

// Seeder enqueues crawl seed URLs. Implemented by crawler.Crawler.
type Seeder interface {
	Seed(ctx context.Context, urls []string) error
}

// CrawlHandler handles HTTP requests to start crawls.
type CrawlHandler struct {
	seeder Seeder
}

// NewCrawlHandler creates a new CrawlHandler.
func NewCrawlHandler(seeder Seeder) *CrawlHandler {
	return &CrawlHandler{seeder: seeder}
}

// CrawlRequest represents the HTTP request payload for starting a crawl.
//
// swagger:model CrawlRequest
type CrawlRequest struct {
	URLs []string `json:"urls"`
}

// CrawlResponse represents the HTTP response payload for starting a crawl.
//
// swagger:model CrawlResponse
type CrawlResponse struct {
	Enqueued int `json:"enqueued"`
}

// ServeHTTP handles HTTP requests to start crawls.
//
// Enqueues the submitted URLs as crawl seeds. The crawl itself runs
// in the background; this endpoint only validates and queues.
//
// swagger:route POST /api/crawl startCrawl
//
// # Enqueue crawl seed URLs
//
// ---
// consumes:
// - application/json
// produces:
// - application/json
// responses:
//
//	'202':
//	  description: URLs accepted and queued
//	  schema:
//	    "$ref": "#/definitions/CrawlResponse"
//	'400':
//	  description: Bad request (no URLs or an invalid URL)
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *CrawlHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req CrawlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if len(req.URLs) == 0 {
		logger.WarnContext(ctx, "no urls in request")
		h.writeError(w, http.StatusBadRequest, "At least one URL is required")
		return
	}

	if err := h.seeder.Seed(ctx, req.URLs); err != nil {
		logger.WarnContext(ctx, "failed to seed crawl", "error", err)
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	logger.InfoContext(ctx, "crawl seeds enqueued", "count", len(req.URLs))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	if err := json.NewEncoder(w).Encode(CrawlResponse{Enqueued: len(req.URLs)}); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError writes an error response.
func (h *CrawlHandler) writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
	})
}
