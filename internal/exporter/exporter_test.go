package exporter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pagemill/internal/frontmatter"
	"pagemill/internal/splitter"
)

func testWriter(t *testing.T) *Writer {
	t.Helper()
	w := New(t.TempDir(), splitter.Options{
		ChunkSize:      1200,
		ChunkOverlap:   150,
		MaxHeaderLevel: 3,
		Strategy:       splitter.StrategySmart,
	})
	w.now = func() time.Time {
		return time.Date(2025, 10, 26, 12, 0, 0, 0, time.UTC)
	}
	return w
}

func TestWriteChunks(t *testing.T) {
	w := testWriter(t)

	chunks := []splitter.Chunk{
		{
			Text:       "# Guide\n\nFirst part.",
			Breadcrumb: []string{"Guide"},
			Headers:    map[string]string{"h1": "Guide"},
			Level:      1,
			CharCount:  20,
			WordCount:  4,
		},
		{
			Text:      "Second part.",
			CharCount: 12,
			WordCount: 2,
		},
	}
	original := map[string]any{
		"original_url": "https://example.com/guide",
		"title":        "Guide",
	}

	paths, err := w.WriteChunks("https://example.com/docs/guide.html", original, chunks)
	if err != nil {
		t.Fatalf("WriteChunks() error = %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("WriteChunks() wrote %d files, want 2", len(paths))
	}

	if got := filepath.Base(paths[0]); got != "guide_0000.md" {
		t.Errorf("first file = %q, want guide_0000.md", got)
	}
	if got := filepath.Base(paths[1]); got != "guide_0001.md" {
		t.Errorf("second file = %q, want guide_0001.md", got)
	}

	data, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatal(err)
	}
	meta, body := frontmatter.Parse(string(data))

	if meta["original_url"] != "https://example.com/guide" {
		t.Errorf("original frontmatter not carried over: %v", meta["original_url"])
	}
	if meta["chunk_index"] != 0 || meta["total_chunks"] != 2 {
		t.Errorf("chunk placement = %v / %v", meta["chunk_index"], meta["total_chunks"])
	}
	if meta["section_level"] != 1 || meta["char_count"] != 20 || meta["word_count"] != 4 {
		t.Errorf("chunk metadata wrong: %v", meta)
	}
	if meta["splitter"] != "smart" || meta["chunk_size"] != 1200 || meta["chunk_overlap"] != 150 {
		t.Errorf("splitter settings wrong: %v", meta)
	}
	if created, ok := meta["chunk_created_at"]; !ok || created == "" {
		t.Errorf("chunk_created_at = %v", created)
	}
	if id, ok := meta["chunk_id"].(string); !ok || id == "" {
		t.Errorf("chunk_id = %v", meta["chunk_id"])
	}
	if strings.TrimSpace(body) != "# Guide\n\nFirst part." {
		t.Errorf("body = %q", body)
	}
}

func TestWriteChunks_UniqueIDs(t *testing.T) {
	w := testWriter(t)

	chunks := []splitter.Chunk{{Text: "a"}, {Text: "b"}}
	paths, err := w.WriteChunks("doc.md", nil, chunks)
	if err != nil {
		t.Fatalf("WriteChunks() error = %v", err)
	}

	ids := map[any]bool{}
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatal(err)
		}
		meta, _ := frontmatter.Parse(string(data))
		ids[meta["chunk_id"]] = true
	}
	if len(ids) != 2 {
		t.Errorf("chunk ids are not unique: %v", ids)
	}
}

func TestWriteChunks_Empty(t *testing.T) {
	w := testWriter(t)
	paths, err := w.WriteChunks("doc.md", nil, nil)
	if err != nil {
		t.Fatalf("WriteChunks() error = %v", err)
	}
	if paths != nil {
		t.Errorf("WriteChunks() = %v, want nil", paths)
	}
}

func TestSourceStem(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"https://example.com/docs/getting-started.html", "getting-started"},
		{"https://example.com/", "example"},
		{"notes/intro.md", "intro"},
		{"intro.md", "intro"},
	}
	for _, tt := range tests {
		if got := sourceStem(tt.source); got != tt.want {
			t.Errorf("sourceStem(%q) = %q, want %q", tt.source, got, tt.want)
		}
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Getting Started", "getting-started"},
		{"What's New?", "what-s-new"},
		{"  spaced  out  ", "spaced-out"},
		{"", "chunk"},
		{"???", "chunk"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
