package splitter

import (
	"reflect"
	"strings"
	"testing"
)

func legacyOpts(size, overlap int) Options {
	return Options{
		ChunkSize:      size,
		ChunkOverlap:   overlap,
		MaxHeaderLevel: 3,
		Strategy:       StrategyLegacy,
	}
}

func TestLegacySplit_SectionPerHeading(t *testing.T) {
	text := "intro\n\n# A\nbody a\n## B\nbody b\n"

	s := &legacySplitter{opts: legacyOpts(500, 0)}
	chunks := s.Split(text)
	if len(chunks) != 3 {
		t.Fatalf("Split() returned %d chunks, want 3", len(chunks))
	}

	want := []struct {
		text string
		path []string
	}{
		{"intro", nil},
		{"# A\nbody a", []string{"A"}},
		{"## B\nbody b", []string{"A", "B"}},
	}
	for i, w := range want {
		if chunks[i].Text != w.text {
			t.Errorf("chunks[%d].Text = %q, want %q", i, chunks[i].Text, w.text)
		}
		if !reflect.DeepEqual(chunks[i].Breadcrumb, w.path) {
			t.Errorf("chunks[%d].Breadcrumb = %v, want %v", i, chunks[i].Breadcrumb, w.path)
		}
		if chunks[i].Level != len(w.path) {
			t.Errorf("chunks[%d].Level = %d, want %d", i, chunks[i].Level, len(w.path))
		}
	}
}

func TestLegacySplit_SizeSplitWithinSection(t *testing.T) {
	text := "# T\n" + strings.Repeat("m", 250)

	s := &legacySplitter{opts: legacyOpts(100, 0)}
	chunks := s.Split(text)
	if len(chunks) != 3 {
		t.Fatalf("Split() returned %d chunks, want 3", len(chunks))
	}
	// All pieces of one section share the section's ancestry.
	for i, c := range chunks {
		if !reflect.DeepEqual(c.Breadcrumb, []string{"T"}) {
			t.Errorf("chunks[%d].Breadcrumb = %v, want [T]", i, c.Breadcrumb)
		}
	}
}

func TestLegacySplit_FenceNeverCut(t *testing.T) {
	text := "# Code\n\nlead text here\n```go\n" +
		strings.Repeat("line of code\n", 10) +
		"```\nafter text\n"

	s := &legacySplitter{opts: legacyOpts(60, 0)}
	chunks := s.Split(text)
	if len(chunks) != 2 {
		t.Fatalf("Split() returned %d chunks, want 2", len(chunks))
	}

	// The cut at 60 bytes lands inside the fence and is deferred to the
	// fence end, so the first chunk exceeds the size budget but holds
	// the whole block.
	if len(chunks[0].Text) <= 60 {
		t.Errorf("chunks[0] length %d, want an oversized deferred piece", len(chunks[0].Text))
	}
	if strings.Count(chunks[0].Text, "```") != 2 {
		t.Errorf("chunks[0] does not hold the complete fence:\n%s", chunks[0].Text)
	}
	if chunks[1].Text != "after text" {
		t.Errorf("chunks[1].Text = %q, want %q", chunks[1].Text, "after text")
	}
}

func TestLegacySplit_UnclosedFence(t *testing.T) {
	text := "```\n" + strings.Repeat("x", 100)

	s := &legacySplitter{opts: legacyOpts(50, 0)}
	chunks := s.Split(text)
	if len(chunks) != 1 {
		t.Fatalf("Split() returned %d chunks, want 1", len(chunks))
	}
	if chunks[0].Text != text {
		t.Errorf("chunks[0] does not hold the unclosed fence intact")
	}
}

func TestLegacySplit_Empty(t *testing.T) {
	s := &legacySplitter{opts: legacyOpts(100, 0)}
	if chunks := s.Split("  \n "); chunks != nil {
		t.Errorf("Split() = %v, want nil", chunks)
	}
}

func TestSplitBySize_Overlap(t *testing.T) {
	pieces := splitBySize(strings.Repeat("a", 250), 100, 20)
	wantLens := []int{100, 100, 90}
	if len(pieces) != len(wantLens) {
		t.Fatalf("splitBySize() returned %d pieces, want %d", len(pieces), len(wantLens))
	}
	for i, w := range wantLens {
		if len(pieces[i]) != w {
			t.Errorf("pieces[%d] length = %d, want %d", i, len(pieces[i]), w)
		}
	}
}

func TestFenceSpans(t *testing.T) {
	text := "a\n```\ncode\n```\nb\n  ```\nindented\n```\n"
	spans := fenceSpans(text)
	if len(spans) != 2 {
		t.Fatalf("fenceSpans() returned %d spans, want 2", len(spans))
	}
	if spans[0].start != 2 || spans[0].end != 15 {
		t.Errorf("spans[0] = %+v, want {2 15}", spans[0])
	}
}
