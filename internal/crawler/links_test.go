package crawler

import (
	"net/url"
	"reflect"
	"testing"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func TestExtractLinks(t *testing.T) {
	base := mustParse(t, "https://example.com/docs/intro")
	page := []byte(`<html><body>
<a href="/docs/setup">Setup</a>
<a href="advanced">Advanced</a>
<a href="https://example.com/docs/faq#section">FAQ</a>
<a href="https://www.example.com/docs/api?version=2">API</a>
<a href="https://other.org/page">External</a>
<a href="mailto:hi@example.com">Mail</a>
<a href="/docs/setup">Setup again</a>
</body></html>`)

	got := ExtractLinks(base, page)
	want := []string{
		"https://example.com/docs/advanced",
		"https://example.com/docs/faq",
		"https://example.com/docs/setup",
		"https://www.example.com/docs/api?version=2",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractLinks() = %v, want %v", got, want)
	}
}

func TestExtractLinks_WWWInsensitive(t *testing.T) {
	base := mustParse(t, "https://www.example.com/")
	page := []byte(`<a href="https://example.com/page">bare host</a>`)

	got := ExtractLinks(base, page)
	if len(got) != 1 || got[0] != "https://example.com/page" {
		t.Errorf("ExtractLinks() = %v, want the bare-host link kept", got)
	}
}

func TestSkipURL(t *testing.T) {
	patterns := []string{
		"https://example.com/forums/**",
		"**/*.pdf",
	}

	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.com/forums/thread/42", true},
		{"https://example.com/docs/manual.pdf", true},
		{"https://example.com/docs/intro", false},
	}
	for _, tt := range tests {
		if got := SkipURL(tt.url, patterns); got != tt.want {
			t.Errorf("SkipURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestSkipURL_NoPatterns(t *testing.T) {
	if SkipURL("https://example.com/", nil) {
		t.Error("SkipURL() with no patterns must not match")
	}
}
