package crawler

import (
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"golang.org/x/net/html"
)

var blankRunRe = regexp.MustCompile(`\n{4,}`)

// noiseTags and noiseClasses are dropped wholesale before conversion
// when a page has no identifiable main content region; what remains of
// the body is assumed to be the article.
var noiseTags = []string{
	"nav", "header", "footer", "aside", "script", "style", "noscript",
	"iframe", "form", "input", "button",
}

var noiseClasses = []string{
	"nav", "navbar", "navigation", "sidebar", "menu", "toc",
	"footer", "header", "advertisement", "social", "share",
	"comments", "related", "breadcrumb", "cookie-banner",
}

// Converter turns fetched HTML into markdown suited for chunking.
type Converter struct {
	md *md.Converter
}

// NewConverter builds a converter with GitHub-flavored markdown rules,
// so tables and fenced code blocks survive the round trip.
func NewConverter() *Converter {
	c := md.NewConverter("", true, nil)
	c.Use(plugin.GitHubFlavored())
	return &Converter{md: c}
}

// Convert extracts the page title and the main content as markdown.
// Pages without a <main> or <article> region fall back to a
// noise-stripped <body>.
func (c *Converter) Convert(page []byte) (title, markdown string, err error) {
	doc, parseErr := html.Parse(strings.NewReader(string(page)))
	if parseErr != nil {
		// html.Parse recovers from almost anything; a real failure
		// means the input is not HTML at all.
		return "", "", parseErr
	}

	title = findTitle(doc)

	content := mainContent(doc)
	markdown, err = c.md.ConvertString(content)
	if err != nil {
		return "", "", err
	}
	markdown = tidyMarkdown(markdown)

	if title == "" {
		title = firstH1(markdown)
	}
	return title, markdown, nil
}

// mainContent selects the best content region: <main>, then
// <article>, then a cleaned <body>.
func mainContent(doc *html.Node) string {
	for _, tag := range []string{"main", "article"} {
		if n := findTag(doc, tag); n != nil {
			return renderNode(n)
		}
	}

	pruneTags(doc, noiseTags)
	pruneClasses(doc, noiseClasses)
	if body := findTag(doc, "body"); body != nil {
		return renderNode(body)
	}
	return renderNode(doc)
}

func findTitle(doc *html.Node) string {
	n := findTag(doc, "title")
	if n == nil || n.FirstChild == nil {
		return ""
	}
	return strings.TrimSpace(n.FirstChild.Data)
}

// findTag returns the first element with the given tag name, depth
// first.
func findTag(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findTag(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// pruneTags removes every element whose tag is in tags. Children of a
// removed element go with it.
func pruneTags(doc *html.Node, tags []string) {
	drop := make(map[string]bool, len(tags))
	for _, t := range tags {
		drop[t] = true
	}
	prune(doc, func(n *html.Node) bool {
		return drop[n.Data]
	})
}

// pruneClasses removes every element carrying one of the given class
// names.
func pruneClasses(doc *html.Node, classes []string) {
	drop := make(map[string]bool, len(classes))
	for _, c := range classes {
		drop[strings.ToLower(c)] = true
	}
	prune(doc, func(n *html.Node) bool {
		for _, a := range n.Attr {
			if a.Key != "class" {
				continue
			}
			for _, name := range strings.Fields(strings.ToLower(a.Val)) {
				if drop[name] {
					return true
				}
			}
		}
		return false
	})
}

func prune(root *html.Node, match func(*html.Node) bool) {
	var doomed []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			doomed = append(doomed, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	for _, n := range doomed {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
}

func renderNode(n *html.Node) string {
	var sb strings.Builder
	_ = html.Render(&sb, n)
	return sb.String()
}

// tidyMarkdown trims line endings and caps blank-line runs so the
// cleaner and splitter see consistent input.
func tidyMarkdown(content string) string {
	content = blankRunRe.ReplaceAllString(content, "\n\n\n")
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// firstH1 returns the first level-1 heading in markdown, for pages
// whose <title> is missing or empty.
func firstH1(markdown string) string {
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
