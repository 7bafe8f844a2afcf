// Package pipeline turns raw markdown documents into persisted,
// exportable chunks. It is the seam between the crawler (or the
// filesystem) and the storage layer.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"

	"pagemill/internal/cleaner"
	"pagemill/internal/contextutil"
	"pagemill/internal/exporter"
	"pagemill/internal/frontmatter"
	"pagemill/internal/splitter"
	"pagemill/internal/storage"
)

// Pipeline orchestrates cleaning, splitting, and storing of markdown
// documents. The cleaner and exporter are optional and skipped when
// nil.
type Pipeline struct {
	pages  storage.PageStore
	chunks storage.ChunkStore
	split  splitter.Splitter
	clean  *cleaner.Cleaner
	export *exporter.Writer
	md     goldmark.Markdown
	logger *slog.Logger
}

// New creates a new processing pipeline. clean and export may be nil.
func New(
	pages storage.PageStore,
	chunks storage.ChunkStore,
	split splitter.Splitter,
	clean *cleaner.Cleaner,
	export *exporter.Writer,
) *Pipeline {
	return &Pipeline{
		pages:  pages,
		chunks: chunks,
		split:  split,
		clean:  clean,
		export: export,
		md:     goldmark.New(),
		logger: slog.Default(),
	}
}

// ProcessDocument cleans, splits, and stores one markdown document.
// source is the canonical identity of the document (URL or file path)
// and hop is its crawl distance from a seed, zero for local files.
//
// Unchanged documents are detected by content hash and skipped.
// Returns the number of chunks written.
func (p *Pipeline) ProcessDocument(ctx context.Context, source, content string, hop int) (int, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if p.clean != nil {
		content = p.clean.Clean(content)
	}

	meta, body := frontmatter.Parse(content)

	// Hash the cleaned body, not the frontmatter: crawled pages carry a
	// scrape_date that changes on every fetch.
	hash := sha256.Sum256([]byte(body))
	hashHex := fmt.Sprintf("%x", hash)

	existing, err := p.pages.GetByURL(ctx, source)
	if err != nil && err != storage.ErrNotFound {
		return 0, fmt.Errorf("failed to check existing page: %w", err)
	}

	if existing != nil && existing.Hash == hashHex {
		logger.DebugContext(ctx, "skipping unchanged document", "source", source, "hash", hashHex)
		return 0, nil
	}

	title := docTitle(p.md, []byte(body), meta, source)

	chunks := p.split.Split(body)
	if len(chunks) == 0 {
		logger.WarnContext(ctx, "no chunks generated", "source", source)
		return 0, nil
	}

	page := &storage.Page{
		URL:   source,
		Title: title,
		Hop:   hop,
		Hash:  hashHex,
	}
	if existing != nil {
		page.ID = existing.ID
	}
	if err := p.pages.Upsert(ctx, page); err != nil {
		return 0, fmt.Errorf("failed to upsert page: %w", err)
	}

	if existing != nil {
		if err := p.chunks.DeleteByPage(ctx, page.ID); err != nil {
			return 0, fmt.Errorf("failed to delete old chunks: %w", err)
		}
	}

	for i, chunk := range chunks {
		record, err := chunkRecord(page.ID, i, len(chunks), chunk)
		if err != nil {
			return 0, err
		}
		if err := p.chunks.Insert(ctx, record); err != nil {
			return 0, fmt.Errorf("failed to insert chunk: %w", err)
		}
	}

	if p.export != nil {
		if _, err := p.export.WriteChunks(source, meta, chunks); err != nil {
			return 0, fmt.Errorf("failed to export chunks: %w", err)
		}
	}

	logger.InfoContext(ctx, "processed document", "source", source, "title", title, "chunks", len(chunks))
	return len(chunks), nil
}

// chunkRecord maps a split chunk to its storage row. Breadcrumb and
// headers are stored as JSON text, never NULL.
func chunkRecord(pageID string, index, total int, chunk splitter.Chunk) (*storage.ChunkRecord, error) {
	breadcrumb := chunk.Breadcrumb
	if breadcrumb == nil {
		breadcrumb = []string{}
	}
	breadcrumbJSON, err := json.Marshal(breadcrumb)
	if err != nil {
		return nil, fmt.Errorf("failed to encode breadcrumb: %w", err)
	}

	headers := chunk.Headers
	if headers == nil {
		headers = map[string]string{}
	}
	headersJSON, err := json.Marshal(headers)
	if err != nil {
		return nil, fmt.Errorf("failed to encode headers: %w", err)
	}

	return &storage.ChunkRecord{
		ID:          uuid.New().String(),
		PageID:      pageID,
		ChunkIndex:  index,
		TotalChunks: total,
		Breadcrumb:  string(breadcrumbJSON),
		Headers:     string(headersJSON),
		Level:       chunk.Level,
		CharCount:   chunk.CharCount,
		WordCount:   chunk.WordCount,
		Text:        chunk.Text,
	}, nil
}

// Stats summarizes a directory run.
type Stats struct {
	Files  int
	Chunks int
	Errors int
}

// markdownExts are the file extensions ProcessDir picks up.
var markdownExts = map[string]bool{
	".md":       true,
	".mdx":      true,
	".markdown": true,
}

// ProcessDir walks dir and processes every markdown file found.
// Per-file errors are logged and counted but do not stop the walk.
func (p *Pipeline) ProcessDir(ctx context.Context, dir string) (Stats, error) {
	logger := contextutil.LoggerFromContext(ctx)

	var stats Stats
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !markdownExts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		stats.Files++
		content, err := os.ReadFile(path)
		if err != nil {
			stats.Errors++
			logger.ErrorContext(ctx, "failed to read file", "path", path, "error", err)
			return nil
		}

		n, err := p.ProcessDocument(ctx, path, string(content), 0)
		if err != nil {
			stats.Errors++
			logger.ErrorContext(ctx, "failed to process file", "path", path, "error", err)
			return nil
		}
		stats.Chunks += n
		return nil
	})
	if err != nil {
		return stats, fmt.Errorf("failed to walk %s: %w", dir, err)
	}

	logger.InfoContext(ctx, "directory processed", "dir", dir,
		"files", stats.Files, "chunks", stats.Chunks, "errors", stats.Errors)
	if p.clean != nil {
		cs := p.clean.Stats()
		logger.InfoContext(ctx, "cleaning summary",
			"files", cs.Files, "bytes_removed", cs.BytesRemoved)
	}

	if stats.Errors > 0 {
		return stats, fmt.Errorf("processing completed with %d errors", stats.Errors)
	}
	return stats, nil
}
