package draft

import (
	"strings"
	"testing"
)

const sampleDraft = `# The Beginning of Infinity

A conversation about explanations.

## Chapter 1: Good Explanations

The discussion opens with a distinction between explanations that are easy
to vary and explanations that are hard to vary.

A second paragraph of prose continues the argument.

### Key Excerpts

> "A good explanation is hard to vary." — GUEST
> "Testability is not enough." — GUEST

### Core Claims

- **Hard to vary**: "A good explanation is hard to vary."
- **Testability insufficient**: "Testability is not enough."

## Chapter 2: Static Societies

Prose for the second chapter.

### Key Excerpts

_No key excerpts are available for this chapter._

### Core Claims

_No core claims could be grounded for this chapter._
`

func TestParse_Chapters(t *testing.T) {
	doc := Parse(sampleDraft)

	if doc.Title != "The Beginning of Infinity" {
		t.Errorf("title = %q", doc.Title)
	}
	if len(doc.Chapters) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(doc.Chapters))
	}

	ch := doc.Chapters[0]
	if ch.Index != 1 || ch.Title != "Good Explanations" {
		t.Errorf("chapter 1 = %d %q", ch.Index, ch.Title)
	}
	if len(ch.Prose) != 2 {
		t.Errorf("expected 2 prose paragraphs, got %d: %v", len(ch.Prose), ch.Prose)
	}
	if len(ch.Excerpts) != 2 {
		t.Fatalf("expected 2 excerpts, got %d", len(ch.Excerpts))
	}
	if ch.Excerpts[0].Quote != "A good explanation is hard to vary." {
		t.Errorf("excerpt quote = %q", ch.Excerpts[0].Quote)
	}
	if ch.Excerpts[0].Speaker != "GUEST" {
		t.Errorf("excerpt speaker = %q", ch.Excerpts[0].Speaker)
	}
	if len(ch.Claims) != 2 {
		t.Fatalf("expected 2 claims, got %d", len(ch.Claims))
	}
	if ch.Claims[0].Title != "Hard to vary" {
		t.Errorf("claim title = %q", ch.Claims[0].Title)
	}
	if ch.Claims[0].Evidence != "A good explanation is hard to vary." {
		t.Errorf("claim evidence = %q", ch.Claims[0].Evidence)
	}
}

func TestParse_PlaceholderChapters(t *testing.T) {
	doc := Parse(sampleDraft)
	ch := doc.Chapters[1]

	if !ch.HasExcerptSection || !ch.HasClaimSection {
		t.Fatal("expected both reserved sections present")
	}
	if len(ch.Excerpts) != 0 || len(ch.Claims) != 0 {
		t.Errorf("placeholder lines must not parse as entries: %d excerpts, %d claims",
			len(ch.Excerpts), len(ch.Claims))
	}
}

func TestRender_RoundTrip(t *testing.T) {
	doc := Parse(sampleDraft)
	out := Render(doc)
	reparsed := Parse(out)

	if len(reparsed.Chapters) != len(doc.Chapters) {
		t.Fatalf("round trip changed chapter count: %d -> %d",
			len(doc.Chapters), len(reparsed.Chapters))
	}
	if len(reparsed.Chapters[0].Excerpts) != 2 {
		t.Errorf("round trip lost excerpts")
	}
	if !strings.Contains(out, PlaceholderClaims) {
		t.Errorf("render dropped claim placeholder")
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"One sentence.", 1},
		{"First. Second! Third?", 3},
		{"Dr. Deutsch spoke. Then a question?", 2},
		{"No terminator at all", 1},
		{"", 0},
	}

	for _, tt := range tests {
		got := SplitSentences(tt.in)
		if len(got) != tt.want {
			t.Errorf("SplitSentences(%q) = %d sentences %v, want %d", tt.in, len(got), got, tt.want)
		}
	}
}

func TestProseWordCount(t *testing.T) {
	doc := Parse(sampleDraft)
	if doc.ProseWordCount() == 0 {
		t.Error("expected non-zero prose word count")
	}
}
