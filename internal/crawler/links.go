package crawler

import (
	"net/url"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/net/html"
)

// ExtractLinks collects the same-site links on a page, resolved
// against base. Fragments are dropped, query strings kept, and the
// host comparison ignores a www prefix. The result is deduplicated
// and sorted for deterministic crawling.
func ExtractLinks(base *url.URL, page []byte) []string {
	doc, err := html.Parse(strings.NewReader(string(page)))
	if err != nil {
		return nil
	}

	seen := map[string]bool{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, a := range n.Attr {
				if a.Key != "href" {
					continue
				}
				if link, ok := normalizeLink(base, a.Val); ok {
					seen[link] = true
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	links := make([]string, 0, len(seen))
	for link := range seen {
		links = append(links, link)
	}
	sort.Strings(links)
	return links
}

func normalizeLink(base *url.URL, href string) (string, bool) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", false
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", false
	}
	if !sameSite(abs.Host, base.Host) {
		return "", false
	}
	abs.Fragment = ""
	return abs.String(), true
}

// sameSite compares hosts ignoring a www prefix, so www.example.com
// and example.com count as one site.
func sameSite(a, b string) bool {
	return strings.TrimPrefix(a, "www.") == strings.TrimPrefix(b, "www.")
}

// SkipURL reports whether a URL matches any of the configured glob
// patterns. Patterns use doublestar syntax: a lone * does not cross
// path separators, ** does. A pattern that fails to compile matches
// nothing.
func SkipURL(rawURL string, patterns []string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, rawURL); err == nil && ok {
			return true
		}
	}
	return false
}
