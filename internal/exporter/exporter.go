// Package exporter writes processed chunks back out as standalone
// markdown files, one per chunk, each carrying the source document's
// frontmatter plus the chunk's own placement metadata. The flat files
// are what downstream indexing jobs consume.
package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"pagemill/internal/frontmatter"
	"pagemill/internal/splitter"
)

var slugUnsafe = regexp.MustCompile(`[^a-z0-9._-]+`)
var slugDashes = regexp.MustCompile(`-{2,}`)

// Writer exports chunks under a single output directory with a flat
// layout: <source-slug>_NNNN.md.
type Writer struct {
	outDir string
	opts   splitter.Options
	// now is swapped in tests for a fixed clock.
	now func() time.Time
}

// New creates a Writer. The directory is created on first write, not
// here, so constructing a Writer is side-effect free.
func New(outDir string, opts splitter.Options) *Writer {
	return &Writer{outDir: outDir, opts: opts, now: time.Now}
}

// WriteChunks writes one file per chunk. source names the originating
// document (a URL or file path) and original carries its frontmatter,
// which every chunk file inherits with the chunk metadata merged on
// top. It returns the written file paths in chunk order.
func (w *Writer) WriteChunks(source string, original map[string]any, chunks []splitter.Chunk) ([]string, error) {
	if len(chunks) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	stem := Slugify(sourceStem(source))
	createdAt := w.now().UTC().Format(time.RFC3339)

	paths := make([]string, 0, len(chunks))
	for i, c := range chunks {
		meta := frontmatter.Merge(original, map[string]any{
			"chunk_id":         uuid.New().String(),
			"chunk_created_at": createdAt,
			"source_file":      filepath.ToSlash(source),
			"chunk_index":      i,
			"total_chunks":     len(chunks),
			"section_path":     c.Breadcrumb,
			"section_level":    c.Level,
			"section_headers":  c.Headers,
			"char_count":       c.CharCount,
			"word_count":       c.WordCount,
			"splitter":         w.opts.Strategy,
			"chunk_size":       w.opts.ChunkSize,
			"chunk_overlap":    w.opts.ChunkOverlap,
		})

		block, err := frontmatter.Build(meta)
		if err != nil {
			return nil, fmt.Errorf("building frontmatter for chunk %d: %w", i, err)
		}

		path := filepath.Join(w.outDir, fmt.Sprintf("%s_%04d.md", stem, i))
		if err := os.WriteFile(path, []byte(block+c.Text+"\n"), 0o644); err != nil {
			return nil, fmt.Errorf("writing chunk file: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// sourceStem reduces a source name to its bare file stem: path and
// extension dropped, URL schemes stripped.
func sourceStem(source string) string {
	s := source
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	s = strings.Trim(s, "/")
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(s, filepath.Ext(s))
	return s
}

// Slugify lowercases text and reduces it to filename-safe characters.
func Slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = strings.ReplaceAll(s, " ", "-")
	s = slugUnsafe.ReplaceAllString(s, "-")
	s = slugDashes.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "chunk"
	}
	return s
}
