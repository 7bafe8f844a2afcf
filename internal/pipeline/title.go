package pipeline

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// docTitle picks a document title: the first H1, else the first H2
// seen before any H1, else the frontmatter title field, else a
// cleaned-up source name.
func docTitle(md goldmark.Markdown, body []byte, meta map[string]any, source string) string {
	doc := md.Parser().Parse(text.NewReader(body))

	var firstH1, firstH2 string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		// firstH1 being set would have stopped the walk already, so
		// any H2 reached here precedes every H1.
		headingText := nodeText(heading, body)
		if heading.Level == 1 && firstH1 == "" {
			firstH1 = headingText
		} else if heading.Level == 2 && firstH2 == "" {
			firstH2 = headingText
		}

		if firstH1 != "" {
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})

	if firstH1 != "" {
		return firstH1
	}
	if firstH2 != "" {
		return firstH2
	}
	if t, ok := meta["title"].(string); ok && t != "" {
		return t
	}
	return titleFromSource(source)
}

// nodeText flattens a node's inline content to plain text.
func nodeText(n ast.Node, content []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Text:
			sb.Write(v.Segment.Value(content))
		case *ast.String:
			sb.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

// titleFromSource derives a readable title from a file path or URL:
// last segment, extension dropped, separators spaced, words
// capitalized.
func titleFromSource(source string) string {
	name := source
	if i := strings.Index(name, "://"); i >= 0 {
		name = name[i+3:]
	}
	name = strings.Trim(name, "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)

	words := strings.Fields(name)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
