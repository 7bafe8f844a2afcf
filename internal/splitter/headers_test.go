package splitter

import "testing"

func TestLocateHeaders(t *testing.T) {
	text := "# One\ntext\n## Two\n### Three"

	headers := locateHeaders(text, 1, 6)
	if len(headers) != 3 {
		t.Fatalf("locateHeaders() returned %d headers, want 3", len(headers))
	}

	want := []struct {
		start int
		text  string
		level int
	}{
		{0, "One", 1},
		{11, "Two", 2},
		{18, "Three", 3},
	}
	for i, w := range want {
		h := headers[i]
		if h.start != w.start || h.text != w.text || h.level != w.level {
			t.Errorf("headers[%d] = {start:%d text:%q level:%d}, want {start:%d text:%q level:%d}",
				i, h.start, h.text, h.level, w.start, w.text, w.level)
		}
	}
}

func TestLocateHeaders_LevelRange(t *testing.T) {
	text := "# One\n## Two\n### Three\n#### Four"

	headers := locateHeaders(text, 2, 3)
	if len(headers) != 2 {
		t.Fatalf("locateHeaders(2,3) returned %d headers, want 2", len(headers))
	}
	if headers[0].text != "Two" || headers[1].text != "Three" {
		t.Errorf("locateHeaders(2,3) = %q, %q, want Two, Three", headers[0].text, headers[1].text)
	}
}

func TestLocateHeaders_NonHeaders(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"seven hashes", "####### seven"},
		{"no space after hashes", "#nospace"},
		{"hash mid line", "normal # inline"},
		{"blank title", "#  \n"},
		{"empty input", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if headers := locateHeaders(tt.text, 1, 6); len(headers) != 0 {
				t.Errorf("locateHeaders(%q) = %v, want none", tt.text, headers)
			}
		})
	}
}

func TestLocateHeaders_NotAtLineStart(t *testing.T) {
	text := "intro ## not a header\n## Real\n"
	headers := locateHeaders(text, 1, 6)
	if len(headers) != 1 || headers[0].text != "Real" {
		t.Fatalf("locateHeaders() = %v, want single header Real", headers)
	}
}
