// Package frontmatter reads and writes the YAML header block shared by
// every stage of the pipeline. Scraped pages carry their origin URL and
// fetch date here, the cleaner preserves the block untouched, and the
// exporter merges per-chunk fields over it.
package frontmatter

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Extract splits content into the raw frontmatter block (delimiters
// included) and the remaining body. A document without a leading
// "---" line, or without a closing one, has no frontmatter: the block
// is empty and the body is the whole content.
func Extract(content string) (block, body string) {
	if !strings.HasPrefix(content, "---\n") {
		return "", content
	}
	end := strings.Index(content[4:], "\n---\n")
	if end < 0 {
		return "", content
	}
	end += 4
	return content[:end+5], content[end+5:]
}

// Parse extracts the frontmatter and decodes it into a map. Malformed
// YAML, typically an unquoted colon in a scraped title, degrades to
// a line-based key/value scan instead of failing, since a bad header
// line must never cost us the document body.
func Parse(content string) (map[string]any, string) {
	block, body := Extract(content)
	if block == "" {
		return map[string]any{}, content
	}

	inner := block[4 : len(block)-5]
	meta := map[string]any{}
	if err := yaml.Unmarshal([]byte(inner), &meta); err == nil {
		if meta == nil {
			meta = map[string]any{}
		}
		return meta, body
	}
	return parseLoose(inner), body
}

// parseLoose scans "key: value" lines, coercing booleans and integers
// and stripping matched quotes. Lines without both a key and a value,
// and comment lines, are skipped.
func parseLoose(inner string) map[string]any {
	meta := map[string]any{}
	for _, line := range strings.Split(inner, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		switch {
		case strings.EqualFold(value, "true"):
			meta[key] = true
		case strings.EqualFold(value, "false"):
			meta[key] = false
		default:
			if n, err := strconv.Atoi(value); err == nil {
				meta[key] = n
				continue
			}
			meta[key] = stripQuotes(value)
		}
	}
	return meta
}

func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// Build renders meta as a frontmatter block ready to prepend to a
// document, delimiters and trailing blank line included. An empty map
// renders nothing.
func Build(meta map[string]any) (string, error) {
	if len(meta) == 0 {
		return "", nil
	}
	out, err := yaml.Marshal(meta)
	if err != nil {
		return "", err
	}
	return "---\n" + string(out) + "---\n\n", nil
}

// Merge overlays updates on original without mutating either. Updates
// win on key collisions.
func Merge(original, updates map[string]any) map[string]any {
	merged := make(map[string]any, len(original)+len(updates))
	for k, v := range original {
		merged[k] = v
	}
	for k, v := range updates {
		merged[k] = v
	}
	return merged
}
