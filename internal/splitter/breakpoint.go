package splitter

import "strings"

// cut is a selected breakpoint.
type cut struct {
	pos        int  // absolute end offset of the chunk
	structural bool // header boundary, resume without overlap
	hard       bool // nothing usable found, forced cut at the limit
}

// selectCut picks the best breakpoint for the window
// text[pos:pos+limit], greedily preferring the rightmost candidate of
// the highest-priority tier: high-level header, lower-level header
// (only when no minimum first-chunk size is reserved), paragraph
// break, sentence end, comma, single space, and finally a hard cut
// exactly at the limit.
//
// Header candidates must start strictly after pos; the non-structural
// tiers are further restricted to the open interval (minPos, limit) so
// the very first chunk is not cut into a tiny fragment by a nearby
// space or paragraph break. high and low carry the document's
// precomputed headers split at the configured maximum split level.
func selectCut(text string, pos, limit, minPos int, high, low []header) cut {
	maxPos := pos + limit

	if p := lastHeaderStart(high, pos, maxPos); p >= 0 {
		return cut{pos: p, structural: true}
	}
	if minPos == 0 {
		if p := lastHeaderStart(low, pos, maxPos); p >= 0 {
			return cut{pos: p, structural: true}
		}
	}

	window := text[pos:maxPos]
	if c := lastSeparatorCut(window, "\n\n", minPos, limit); c >= 0 {
		return cut{pos: pos + c}
	}
	best := -1
	for _, sep := range []string{". ", "! ", "? "} {
		if c := lastSeparatorCut(window, sep, minPos, limit); c > best {
			best = c
		}
	}
	if best >= 0 {
		return cut{pos: pos + best}
	}
	if c := lastSeparatorCut(window, ", ", minPos, limit); c >= 0 {
		return cut{pos: pos + c}
	}
	if c := lastSeparatorCut(window, " ", minPos, limit); c >= 0 {
		return cut{pos: pos + c}
	}
	return cut{pos: maxPos, hard: true}
}

// lastHeaderStart returns the start offset of the rightmost header in
// the open interval (after, before), or -1. headers are in document
// order, so the scan can stop at the first header past the window.
func lastHeaderStart(headers []header, after, before int) int {
	best := -1
	for _, h := range headers {
		if h.start >= before {
			break
		}
		if h.start > after {
			best = h.start
		}
	}
	return best
}

// lastSeparatorCut returns the rightmost cut position that follows sep
// and lies in the open interval (minPos, limit), or -1. The cut lands
// just past the separator so the separator stays with the emitted
// chunk.
func lastSeparatorCut(window, sep string, minPos, limit int) int {
	searchEnd := limit - 1
	if searchEnd > len(window) {
		searchEnd = len(window)
	}
	if searchEnd <= 0 {
		return -1
	}
	idx := strings.LastIndex(window[:searchEnd], sep)
	if idx < 0 {
		return -1
	}
	c := idx + len(sep)
	if c <= minPos {
		// The rightmost candidate is already too far left; earlier
		// ones can only be worse.
		return -1
	}
	return c
}
