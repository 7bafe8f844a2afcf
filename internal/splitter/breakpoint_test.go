package splitter

import (
	"strings"
	"testing"
)

func TestSelectCut_HeaderBeatsEverything(t *testing.T) {
	text := "intro\n\n## Next\nmore text follows here"
	high := locateHeaders(text, 1, 3)

	c := selectCut(text, 0, 30, 0, high, nil)
	if !c.structural || c.pos != 7 {
		t.Fatalf("selectCut() = %+v, want structural cut at 7", c)
	}
}

func TestSelectCut_HeaderAtPosExcluded(t *testing.T) {
	// A header exactly at the cursor is the current chunk's own heading,
	// not a place to stop.
	text := "## Start\n" + strings.Repeat("y", 50)
	high := locateHeaders(text, 1, 3)

	c := selectCut(text, 0, 40, 0, high, nil)
	if c.structural {
		t.Fatalf("selectCut() = %+v, want non-structural", c)
	}
}

func TestSelectCut_LowHeaderTier(t *testing.T) {
	text := "intro\n\n## Next\nmore text follows here"
	low := locateHeaders(text, 2, 6)

	// With no reserved minimum the deeper header is still a structural
	// boundary.
	c := selectCut(text, 0, 30, 0, nil, low)
	if !c.structural || c.pos != 7 {
		t.Fatalf("selectCut(minPos=0) = %+v, want structural cut at 7", c)
	}

	// With a reserved minimum the low tier is skipped entirely and the
	// cut falls through to the rightmost space.
	c = selectCut(text, 0, 30, 10, nil, low)
	if c.structural {
		t.Fatalf("selectCut(minPos=10) = %+v, want non-structural", c)
	}
	if c.pos != 25 {
		t.Errorf("selectCut(minPos=10) pos = %d, want 25", c.pos)
	}
}

func TestSelectCut_ParagraphBeatsSentence(t *testing.T) {
	text := "One. Two\n\nThree four five six seven"

	c := selectCut(text, 0, 30, 0, nil, nil)
	if c.pos != 10 || c.structural || c.hard {
		t.Fatalf("selectCut() = %+v, want plain cut at 10", c)
	}
}

func TestSelectCut_SentenceBeatsComma(t *testing.T) {
	text := "Alpha, beta. Gamma delta epsilon zeta"

	c := selectCut(text, 0, 30, 0, nil, nil)
	if c.pos != 13 {
		t.Fatalf("selectCut() pos = %d, want 13 (after the period)", c.pos)
	}
}

func TestSelectCut_RightmostSentencePunctuation(t *testing.T) {
	text := "Wow! Go? Now then after that more"

	c := selectCut(text, 0, 30, 0, nil, nil)
	if c.pos != 9 {
		t.Fatalf("selectCut() pos = %d, want 9 (after the question mark)", c.pos)
	}
}

func TestSelectCut_SpaceFallback(t *testing.T) {
	text := "aaaa bbbb ccccccccccccccccccc"

	c := selectCut(text, 0, 25, 0, nil, nil)
	if c.pos != 10 || c.hard {
		t.Fatalf("selectCut() = %+v, want plain cut at 10", c)
	}
}

func TestSelectCut_HardCut(t *testing.T) {
	text := strings.Repeat("x", 40)

	c := selectCut(text, 0, 30, 0, nil, nil)
	if !c.hard || c.pos != 30 {
		t.Fatalf("selectCut() = %+v, want hard cut at 30", c)
	}
}

func TestSelectCut_MinPosRejectsEarlyBoundary(t *testing.T) {
	// The only paragraph break sits before minPos, so it cannot be used
	// even though paragraph breaks outrank spaces.
	text := "ab\n\n" + strings.Repeat("c", 10) + " " + strings.Repeat("d", 30)

	c := selectCut(text, 0, 30, 5, nil, nil)
	if c.pos != 15 {
		t.Fatalf("selectCut() pos = %d, want 15 (space after the c run)", c.pos)
	}
}

func TestLastSeparatorCut_OpenInterval(t *testing.T) {
	// A separator whose cut would land exactly at the limit is excluded.
	window := strings.Repeat("e", 8) + " " + strings.Repeat("f", 20)
	if c := lastSeparatorCut(window, " ", 0, 9); c != -1 {
		t.Errorf("lastSeparatorCut(limit=9) = %d, want -1", c)
	}
	if c := lastSeparatorCut(window, " ", 0, 10); c != 9 {
		t.Errorf("lastSeparatorCut(limit=10) = %d, want 9", c)
	}
}
