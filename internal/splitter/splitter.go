// Package splitter turns markdown documents into bounded,
// hierarchy-aware text fragments for a downstream retrieval index.
//
// Two strategies share one Chunk shape: the "smart" splitter cuts at
// the rightmost natural boundary inside each size window (headers
// first, then paragraph, sentence, clause and word fallbacks), while
// the "legacy" splitter reproduces the older two-stage behavior of
// splitting at every heading and then purely by size. Both are pure:
// one call per document, no state shared between calls.
package splitter

import (
	"fmt"
)

// Strategy names accepted by New.
const (
	StrategySmart  = "smart"
	StrategyLegacy = "legacy"
)

// Defaults mirror the historical pipeline settings.
const (
	DefaultChunkSize      = 1200
	DefaultChunkOverlap   = 150
	DefaultMaxHeaderLevel = 3
)

// Options configures a Splitter. It is passed explicitly rather than
// read from ambient state so the core stays trivially testable.
type Options struct {
	// ChunkSize is the target maximum chunk length in bytes.
	ChunkSize int
	// ChunkOverlap is the number of bytes repeated after a
	// non-structural cut to preserve context across the boundary.
	ChunkOverlap int
	// MaxHeaderLevel is the deepest heading level (1..6) the smart
	// strategy treats as a first-class split point.
	MaxHeaderLevel int
	// Strategy selects the implementation: StrategySmart or
	// StrategyLegacy.
	Strategy string
}

// Chunk is one emitted fragment with the metadata needed to place it
// back in its source document.
type Chunk struct {
	// Text is the trimmed fragment body, never empty.
	Text string `json:"text"`
	// Breadcrumb lists the ancestor heading titles active at the
	// chunk start, ordered from level 1 down. Skipped heading depths
	// are omitted, not padded.
	Breadcrumb []string `json:"breadcrumb"`
	// Headers maps level labels ("h1".."h6") to the title active at
	// that level at the chunk start.
	Headers map[string]string `json:"headers"`
	// Level is the breadcrumb depth.
	Level int `json:"level"`
	// CharCount is the rune count of Text.
	CharCount int `json:"char_count"`
	// WordCount is the whitespace-delimited word count of Text.
	WordCount int `json:"word_count"`
}

// Splitter splits one markdown document (frontmatter already removed)
// into chunks in document order.
type Splitter interface {
	Split(text string) []Chunk
}

// New validates opts and returns the selected strategy. Invalid
// options are configuration errors and should be treated as fatal at
// startup; malformed document input is never an error.
func New(opts Options) (Splitter, error) {
	if opts.ChunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", opts.ChunkSize)
	}
	if opts.ChunkOverlap < 0 {
		return nil, fmt.Errorf("chunk overlap must not be negative, got %d", opts.ChunkOverlap)
	}
	if opts.MaxHeaderLevel < 1 || opts.MaxHeaderLevel > 6 {
		return nil, fmt.Errorf("max header level must be between 1 and 6, got %d", opts.MaxHeaderLevel)
	}
	switch opts.Strategy {
	case StrategySmart:
		return &smartSplitter{opts: opts}, nil
	case StrategyLegacy:
		return &legacySplitter{opts: opts}, nil
	default:
		return nil, fmt.Errorf("unknown split strategy %q", opts.Strategy)
	}
}

// DefaultOptions returns the historical defaults with the given
// strategy.
func DefaultOptions(strategy string) Options {
	return Options{
		ChunkSize:      DefaultChunkSize,
		ChunkOverlap:   DefaultChunkOverlap,
		MaxHeaderLevel: DefaultMaxHeaderLevel,
		Strategy:       strategy,
	}
}
