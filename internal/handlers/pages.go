package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pagemill/internal/contextutil"
	"pagemill/internal/storage"
)

// PagesHandler handles HTTP requests for listing processed pages.
type PagesHandler struct {
	pages storage.PageStore
}

// NewPagesHandler creates a new PagesHandler.
func NewPagesHandler(pages storage.PageStore) *PagesHandler {
	return &PagesHandler{pages: pages}
}

// PageResponse represents one processed page.
//
// swagger:model PageResponse
type PageResponse struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Title     string `json:"title"`
	Hop       int    `json:"hop"`
	Hash      string `json:"hash"`
	FetchedAt string `json:"fetched_at"`
}

// PagesResponse represents the page list response.
//
// swagger:model PagesResponse
type PagesResponse struct {
	Pages []PageResponse `json:"pages"`
	Count int            `json:"count"`
}

// ServeHTTP handles HTTP requests for listing pages.
//
// swagger:route GET /api/pages listPages
//
// # List processed pages
//
// ---
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Successful response with the page list
//	  schema:
//	    "$ref": "#/definitions/PagesResponse"
func (h *PagesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	pages, err := h.pages.List(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list pages", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to list pages")
		return
	}

	resp := PagesResponse{
		Pages: make([]PageResponse, 0, len(pages)),
		Count: len(pages),
	}
	for _, page := range pages {
		resp.Pages = append(resp.Pages, pageResponse(page))
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError writes an error response.
func (h *PagesHandler) writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
	})
}

func pageResponse(page *storage.Page) PageResponse {
	return PageResponse{
		ID:        page.ID,
		URL:       page.URL,
		Title:     page.Title,
		Hop:       page.Hop,
		Hash:      page.Hash,
		FetchedAt: page.FetchedAt.UTC().Format(time.RFC3339),
	}
}

// PageChunksHandler handles HTTP requests for a page's stored chunks.
type PageChunksHandler struct {
	pages  storage.PageStore
	chunks storage.ChunkStore
}

// NewPageChunksHandler creates a new PageChunksHandler.
func NewPageChunksHandler(pages storage.PageStore, chunks storage.ChunkStore) *PageChunksHandler {
	return &PageChunksHandler{pages: pages, chunks: chunks}
}

// StoredChunkResponse represents one stored chunk with its decoded
// placement metadata.
//
// swagger:model StoredChunkResponse
type StoredChunkResponse struct {
	ID          string            `json:"id"`
	ChunkIndex  int               `json:"chunk_index"`
	TotalChunks int               `json:"total_chunks"`
	Breadcrumb  []string          `json:"breadcrumb"`
	Headers     map[string]string `json:"headers"`
	Level       int               `json:"level"`
	CharCount   int               `json:"char_count"`
	WordCount   int               `json:"word_count"`
	Text        string            `json:"text"`
}

// PageChunksResponse represents the chunk list for one page.
//
// swagger:model PageChunksResponse
type PageChunksResponse struct {
	Page   PageResponse          `json:"page"`
	Chunks []StoredChunkResponse `json:"chunks"`
	Count  int                   `json:"count"`
}

// ServeHTTP handles HTTP requests for a page's chunks.
//
// swagger:route GET /api/pages/{id}/chunks listPageChunks
//
// # List chunks of a processed page
//
// ---
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Successful response with the page and its chunks
//	  schema:
//	    "$ref": "#/definitions/PageChunksResponse"
//	'404':
//	  description: Page not found
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *PageChunksHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	id := chi.URLParam(r, "id")

	page, err := h.pages.GetByID(ctx, id)
	if err == storage.ErrNotFound {
		h.writeError(w, http.StatusNotFound, "Page not found")
		return
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to get page", "id", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to get page")
		return
	}

	records, err := h.chunks.ListByPage(ctx, page.ID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list chunks", "page_id", page.ID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to list chunks")
		return
	}

	resp := PageChunksResponse{
		Page:   pageResponse(page),
		Chunks: make([]StoredChunkResponse, 0, len(records)),
		Count:  len(records),
	}
	for _, record := range records {
		resp.Chunks = append(resp.Chunks, storedChunkResponse(record))
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError writes an error response.
func (h *PageChunksHandler) writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
	})
}

// ChunkByIDHandler handles HTTP requests for a single stored chunk.
type ChunkByIDHandler struct {
	chunks storage.ChunkStore
}

// NewChunkByIDHandler creates a new ChunkByIDHandler.
func NewChunkByIDHandler(chunks storage.ChunkStore) *ChunkByIDHandler {
	return &ChunkByIDHandler{chunks: chunks}
}

// ServeHTTP handles HTTP requests for a single stored chunk.
//
// swagger:route GET /api/chunks/{id} getChunk
//
// # Get one stored chunk
//
// ---
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Successful response with the chunk
//	  schema:
//	    "$ref": "#/definitions/StoredChunkResponse"
//	'404':
//	  description: Chunk not found
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *ChunkByIDHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	id := chi.URLParam(r, "id")

	record, err := h.chunks.GetByID(ctx, id)
	if err == storage.ErrNotFound {
		h.writeError(w, http.StatusNotFound, "Chunk not found")
		return
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to get chunk", "id", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to get chunk")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(storedChunkResponse(record)); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError writes an error response.
func (h *ChunkByIDHandler) writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
	})
}

// storedChunkResponse decodes the JSON placement columns. Rows written
// by the pipeline always hold valid JSON; anything else decodes to
// empty values.
func storedChunkResponse(record *storage.ChunkRecord) StoredChunkResponse {
	breadcrumb := []string{}
	_ = json.Unmarshal([]byte(record.Breadcrumb), &breadcrumb)

	headers := map[string]string{}
	_ = json.Unmarshal([]byte(record.Headers), &headers)

	return StoredChunkResponse{
		ID:          record.ID,
		ChunkIndex:  record.ChunkIndex,
		TotalChunks: record.TotalChunks,
		Breadcrumb:  breadcrumb,
		Headers:     headers,
		Level:       record.Level,
		CharCount:   record.CharCount,
		WordCount:   record.WordCount,
		Text:        record.Text,
	}
}
