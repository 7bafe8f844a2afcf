package splitter

import (
	"strings"
	"unicode/utf8"
)

// legacySplitter reproduces the older two-stage behavior, retained for
// comparison and regression runs: stage one splits at every heading
// regardless of section size, stage two re-splits each section purely
// by character budget. The only structure stage two respects is fenced
// code blocks, which are never cut.
type legacySplitter struct {
	opts Options
}

func (s *legacySplitter) Split(text string) []Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	headers := locateHeaders(text, 1, 6)
	var chunks []Chunk
	for _, sec := range sectionBounds(headers, len(text)) {
		breadcrumb, headerMap := pathAt(headers, sec.start, sec.end, 6)
		for _, piece := range splitBySize(text[sec.start:sec.end], s.opts.ChunkSize, s.opts.ChunkOverlap) {
			trimmed := strings.TrimSpace(piece)
			if trimmed == "" {
				continue
			}
			chunks = append(chunks, Chunk{
				Text:       trimmed,
				Breadcrumb: breadcrumb,
				Headers:    headerMap,
				Level:      len(breadcrumb),
				CharCount:  utf8.RuneCountInString(trimmed),
				WordCount:  len(strings.Fields(trimmed)),
			})
		}
	}
	return chunks
}

// span is a half-open byte range.
type span struct {
	start, end int
}

// sectionBounds cuts the document at every heading start. Content
// before the first heading forms a leading section of its own.
func sectionBounds(headers []header, n int) []span {
	if len(headers) == 0 {
		return []span{{0, n}}
	}
	var spans []span
	if headers[0].start > 0 {
		spans = append(spans, span{0, headers[0].start})
	}
	for i, h := range headers {
		end := n
		if i+1 < len(headers) {
			end = headers[i+1].start
		}
		spans = append(spans, span{h.start, end})
	}
	return spans
}

// splitBySize divides text into size/overlap windows with no regard to
// structure, except that a cut landing inside a fenced code block is
// deferred until the fence closes; that one piece may exceed size.
// After a deferred cut the cursor resumes at the fence end without
// overlap, so fence content is never re-emitted.
func splitBySize(text string, size, overlap int) []string {
	fences := fenceSpans(text)
	var pieces []string
	pos := 0

	for pos < len(text) {
		if len(text)-pos <= size {
			pieces = append(pieces, text[pos:])
			break
		}

		end := pos + size
		deferred := false
		if f, ok := enclosingFence(fences, end); ok {
			end = f.end
			deferred = true
		}
		if end > len(text) {
			end = len(text)
		}
		if !deferred {
			end = runeStart(text, end)
		}
		if end <= pos {
			end = pos + 1
		}
		pieces = append(pieces, text[pos:end])

		if deferred || overlap <= 0 {
			pos = end
		} else {
			next := end - overlap
			if next <= pos {
				next = pos + 1
			}
			pos = next
		}
	}
	return pieces
}

// fenceSpans locates fenced code blocks: a span runs from the opening
// triple-backtick line through the end of the closing one. An unclosed
// fence extends to the end of the text: malformed input degrades, it
// does not fail.
func fenceSpans(text string) []span {
	var spans []span
	open := -1
	offset := 0
	for _, line := range strings.SplitAfter(text, "\n") {
		if strings.HasPrefix(strings.TrimLeft(line, " \t"), "```") {
			if open < 0 {
				open = offset
			} else {
				spans = append(spans, span{open, offset + len(line)})
				open = -1
			}
		}
		offset += len(line)
	}
	if open >= 0 {
		spans = append(spans, span{open, len(text)})
	}
	return spans
}

// enclosingFence reports the fence strictly containing pos, if any.
func enclosingFence(fences []span, pos int) (span, bool) {
	for _, f := range fences {
		if pos > f.start && pos < f.end {
			return f, true
		}
	}
	return span{}, false
}
