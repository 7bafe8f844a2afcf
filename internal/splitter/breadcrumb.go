package splitter

import "strconv"

// pathAt reconstructs the heading ancestry for a chunk spanning
// [startPos, endPos). It folds over the located headers in document
// order: a header at level L overwrites the running entry for L and
// closes any deeper levels, and every header at or before startPos
// snapshots the running map. The snapshot distinguishes a chunk's
// ancestors from a heading that lies inside the chunk itself: a chunk
// beginning immediately after an H2 belongs under that H2 even though
// the H2 text sits at the boundary.
//
// The returned breadcrumb holds the snapshot titles in level order
// 1..maxLevel with absent levels skipped; the map carries the same
// titles keyed "h1".."h6".
func pathAt(headers []header, startPos, endPos, maxLevel int) ([]string, map[string]string) {
	active := make(map[int]string)
	var snapshot map[int]string

	for _, h := range headers {
		if h.start >= endPos {
			break
		}
		active[h.level] = h.text
		for level := h.level + 1; level <= 6; level++ {
			delete(active, level)
		}
		if h.start <= startPos {
			snapshot = make(map[int]string, len(active))
			for level, title := range active {
				snapshot[level] = title
			}
		}
	}

	var breadcrumb []string
	headerMap := make(map[string]string, len(snapshot))
	for level := 1; level <= maxLevel; level++ {
		title, ok := snapshot[level]
		if !ok {
			continue
		}
		breadcrumb = append(breadcrumb, title)
		headerMap["h"+strconv.Itoa(level)] = title
	}
	return breadcrumb, headerMap
}
