package splitter

import (
	"strings"
	"unicode/utf8"
)

// smartSplitter is the primary header-aware strategy: a single cursor
// walks the document, each window is cut at the rightmost natural
// boundary, and non-structural cuts resume with overlap.
type smartSplitter struct {
	opts Options
}

func (s *smartSplitter) Split(text string) []Chunk {
	chunks, _ := splitSmart(text, s.opts)
	return chunks
}

// splitSmart is the assembler loop. It also reports how many hard cuts
// were forced (no boundary found in a window), the degenerate case the
// tests watch for.
func splitSmart(text string, opts Options) ([]Chunk, int) {
	if strings.TrimSpace(text) == "" {
		return nil, 0
	}

	high := locateHeaders(text, 1, opts.MaxHeaderLevel)
	var low []header
	if opts.MaxHeaderLevel < 6 {
		low = locateHeaders(text, opts.MaxHeaderLevel+1, 6)
	}

	var chunks []Chunk
	hardCuts := 0
	pos := 0

	for pos < len(text) {
		// Terminal case: the remaining tail fits in one chunk.
		if len(text)-pos <= opts.ChunkSize {
			if c, ok := makeChunk(text, high, pos, len(text), opts.MaxHeaderLevel); ok {
				chunks = append(chunks, c)
			}
			break
		}

		// Reserve a minimum size for the very first chunk so a nearby
		// word or paragraph boundary cannot produce an orphaned tiny
		// leading fragment.
		minPos := 0
		if len(chunks) == 0 {
			minPos = opts.ChunkSize / 3
		}

		bp := selectCut(text, pos, opts.ChunkSize, minPos, high, low)
		end := bp.pos
		if bp.hard {
			hardCuts++
			end = runeStart(text, end)
		}

		c, ok := makeChunk(text, high, pos, end, opts.MaxHeaderLevel)
		if ok && (len(chunks) == 0 || len(c.Text) >= opts.ChunkSize/3) {
			// The first chunk is always kept (a title-only preamble is
			// legitimate); later fragments below a third of the budget
			// are noise, typically a lone header, and are dropped.
			chunks = append(chunks, c)
		}

		switch {
		case bp.structural:
			// Next chunk starts exactly at the header; no overlap.
			pos = end
		case opts.ChunkOverlap > 0:
			next := end - opts.ChunkOverlap
			if next <= pos {
				next = pos + 1
			}
			pos = next
		default:
			if end <= pos {
				end = pos + 1
			}
			pos = end
		}
	}

	return mergeLeading(chunks, opts.ChunkSize), hardCuts
}

// makeChunk trims the span and attaches its heading ancestry. Spans
// that trim to nothing yield no chunk.
func makeChunk(text string, headers []header, start, end, maxLevel int) (Chunk, bool) {
	trimmed := strings.TrimSpace(text[start:end])
	if trimmed == "" {
		return Chunk{}, false
	}
	breadcrumb, headerMap := pathAt(headers, start, end, maxLevel)
	return Chunk{
		Text:       trimmed,
		Breadcrumb: breadcrumb,
		Headers:    headerMap,
		Level:      len(breadcrumb),
		CharCount:  utf8.RuneCountInString(trimmed),
		WordCount:  len(strings.Fields(trimmed)),
	}, true
}

// mergeLeading folds a short leading fragment (content before the
// first split point, such as a bare title) into its successor. The
// successor's hierarchy metadata wins.
func mergeLeading(chunks []Chunk, chunkSize int) []Chunk {
	if len(chunks) < 2 || len(chunks[0].Text) >= chunkSize/3 {
		return chunks
	}
	merged := chunks[1]
	merged.Text = chunks[0].Text + "\n\n" + chunks[1].Text
	merged.CharCount = utf8.RuneCountInString(merged.Text)
	merged.WordCount = len(strings.Fields(merged.Text))
	return append([]Chunk{merged}, chunks[2:]...)
}

// runeStart backs a forced cut off a multi-byte rune so a hard cut
// never splits a character. end must be < len(text).
func runeStart(text string, end int) int {
	for end > 0 && !utf8.RuneStart(text[end]) {
		end--
	}
	return end
}
