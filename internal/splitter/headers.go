package splitter

import (
	"regexp"
	"strings"
)

// header is a located markdown heading line.
type header struct {
	start int    // byte offset of the opening '#'
	end   int    // byte offset just past the last title character
	text  string // title with hashes and surrounding whitespace removed
	level int    // 1..6
}

// headerLineRe matches an ATX heading: 1-6 hashes at the start of a
// line, a space, then title text. Seven or more hashes never match.
var headerLineRe = regexp.MustCompile(`(?m)^(#{1,6}) (.+)$`)

// locateHeaders scans text for heading lines with levels in
// [minLevel, maxLevel] and returns them in document order. The scan is
// run once per document and the result reused for every chunk.
func locateHeaders(text string, minLevel, maxLevel int) []header {
	var headers []header
	for _, m := range headerLineRe.FindAllStringSubmatchIndex(text, -1) {
		level := m[3] - m[2]
		if level < minLevel || level > maxLevel {
			continue
		}
		title := strings.TrimSpace(text[m[4]:m[5]])
		if title == "" {
			continue
		}
		headers = append(headers, header{
			start: m[0],
			end:   m[1],
			text:  title,
			level: level,
		})
	}
	return headers
}
