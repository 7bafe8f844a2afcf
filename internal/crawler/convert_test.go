package crawler

import (
	"strings"
	"testing"
)

func TestConvert_TitleAndMarkdown(t *testing.T) {
	page := []byte(`<html>
<head><title>Install Guide</title></head>
<body>
<main>
<h1>Installing</h1>
<p>Run the installer.</p>
<pre><code>make install</code></pre>
</main>
</body>
</html>`)

	title, markdown, err := NewConverter().Convert(page)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if title != "Install Guide" {
		t.Errorf("title = %q, want Install Guide", title)
	}
	if !strings.Contains(markdown, "# Installing") {
		t.Errorf("markdown missing heading:\n%s", markdown)
	}
	if !strings.Contains(markdown, "Run the installer.") {
		t.Errorf("markdown missing body text:\n%s", markdown)
	}
	if !strings.Contains(markdown, "make install") {
		t.Errorf("markdown missing code block:\n%s", markdown)
	}
}

func TestConvert_TitleFallsBackToH1(t *testing.T) {
	page := []byte(`<html><body><main><h1>Only Heading</h1><p>text</p></main></body></html>`)

	title, _, err := NewConverter().Convert(page)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if title != "Only Heading" {
		t.Errorf("title = %q, want Only Heading", title)
	}
}

func TestConvert_MainRegionWins(t *testing.T) {
	page := []byte(`<html><body>
<nav><a href="/">Home</a> | <a href="/about">About</a></nav>
<main><p>The real content.</p></main>
<footer>Copyright notice</footer>
</body></html>`)

	_, markdown, err := NewConverter().Convert(page)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !strings.Contains(markdown, "The real content.") {
		t.Errorf("markdown missing main content:\n%s", markdown)
	}
	if strings.Contains(markdown, "Copyright") || strings.Contains(markdown, "About") {
		t.Errorf("markdown leaked chrome outside <main>:\n%s", markdown)
	}
}

func TestConvert_NoisePrunedWithoutMain(t *testing.T) {
	page := []byte(`<html><body>
<nav>Navigation menu</nav>
<div class="sidebar">Sidebar junk</div>
<div><p>Kept paragraph.</p></div>
<footer>Footer junk</footer>
</body></html>`)

	_, markdown, err := NewConverter().Convert(page)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !strings.Contains(markdown, "Kept paragraph.") {
		t.Errorf("markdown missing content:\n%s", markdown)
	}
	for _, junk := range []string{"Navigation menu", "Sidebar junk", "Footer junk"} {
		if strings.Contains(markdown, junk) {
			t.Errorf("markdown kept noise %q:\n%s", junk, markdown)
		}
	}
}

func TestTidyMarkdown(t *testing.T) {
	in := "a   \n\n\n\n\n\nb\t\n"
	want := "a\n\n\nb"
	if got := tidyMarkdown(in); got != want {
		t.Errorf("tidyMarkdown() = %q, want %q", got, want)
	}
}

func TestFirstH1(t *testing.T) {
	if got := firstH1("intro\n## Sub\n# Main Title\n"); got != "Main Title" {
		t.Errorf("firstH1() = %q, want Main Title", got)
	}
	if got := firstH1("no headings"); got != "" {
		t.Errorf("firstH1() = %q, want empty", got)
	}
}
