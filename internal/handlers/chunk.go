package handlers

import (
	"encoding/json"
	"net/http"

	"pagemill/internal/contextutil"
	"pagemill/internal/frontmatter"
	"pagemill/internal/splitter"
)

// ChunkHandler handles HTTP requests for ad-hoc document splitting.
type ChunkHandler struct {
	defaults splitter.Options
}

// NewChunkHandler creates a new ChunkHandler. defaults supplies the
// splitter settings used when the request omits them.
func NewChunkHandler(defaults splitter.Options) *ChunkHandler {
	return &ChunkHandler{defaults: defaults}
}

// ChunkRequest represents the HTTP request payload for splitting.
// Pointer fields are optional and fall back to the server defaults.
//
// swagger:model ChunkRequest
type ChunkRequest struct {
	Text           string  `json:"text"`
	ChunkSize      *int    `json:"chunk_size,omitempty"`
	ChunkOverlap   *int    `json:"chunk_overlap,omitempty"`
	MaxHeaderLevel *int    `json:"max_header_level,omitempty"`
	Strategy       *string `json:"strategy,omitempty"`
}

// ChunkResponse represents the HTTP response payload for splitting.
//
// swagger:model ChunkResponse
type ChunkResponse struct {
	Chunks []splitter.Chunk `json:"chunks"`
	Count  int              `json:"count"`
}

// ErrorResponse represents an error response.
//
// swagger:model ErrorResponse
type ErrorResponse struct {
	Error string `json:"error"`
}

// ServeHTTP handles HTTP requests for splitting.
//
// Splits the submitted markdown text into chunks without persisting
// anything. Frontmatter, if present, is stripped before splitting.
//
// swagger:route POST /api/chunk chunkText
//
// # Split markdown into chunks
//
// ---
// consumes:
// - application/json
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Successful response with the chunk list
//	  schema:
//	    "$ref": "#/definitions/ChunkResponse"
//	'400':
//	  description: Bad request (empty text or invalid splitter settings)
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *ChunkHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ChunkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Text == "" {
		logger.WarnContext(ctx, "empty text in request")
		h.writeError(w, http.StatusBadRequest, "Text is required")
		return
	}

	opts := h.defaults
	if req.ChunkSize != nil {
		opts.ChunkSize = *req.ChunkSize
	}
	if req.ChunkOverlap != nil {
		opts.ChunkOverlap = *req.ChunkOverlap
	}
	if req.MaxHeaderLevel != nil {
		opts.MaxHeaderLevel = *req.MaxHeaderLevel
	}
	if req.Strategy != nil {
		opts.Strategy = *req.Strategy
	}

	split, err := splitter.New(opts)
	if err != nil {
		logger.WarnContext(ctx, "invalid splitter settings", "error", err)
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	_, body := frontmatter.Extract(req.Text)
	chunks := split.Split(body)
	if chunks == nil {
		chunks = []splitter.Chunk{}
	}

	resp := ChunkResponse{
		Chunks: chunks,
		Count:  len(chunks),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError writes an error response.
func (h *ChunkHandler) writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
	})
}
