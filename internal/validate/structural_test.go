package validate

import (
	"testing"

	"github.com/veriscript/veriscript/internal/draft"
	"github.com/veriscript/veriscript/internal/model"
)

func newTestChecker() *Checker {
	return New(model.DefaultConfig().Validation)
}

func countRule(violations []model.Violation, rule string) int {
	n := 0
	for _, v := range violations {
		if v.Rule == rule {
			n++
		}
	}
	return n
}

func TestEmptySections_EmptyExcerptsIsOneViolation(t *testing.T) {
	doc := draft.Parse(`## Chapter 1: Gap

Some prose about the topic.

### Key Excerpts

### Core Claims

- **Soluble problems**: "Problems are soluble."
`)

	c := newTestChecker()
	vs := c.CheckDocument(doc, nil)

	if got := countRule(vs, RuleEmptySection); got != 1 {
		t.Fatalf("expected exactly 1 empty-section violation, got %d: %+v", got, vs)
	}
	for _, v := range vs {
		if v.Rule == RuleEmptySection {
			if v.Severity != model.SeverityP0 {
				t.Errorf("empty section severity = %s, want P0", v.Severity)
			}
			if v.Detail != `"Key Excerpts" section is empty` {
				t.Errorf("violation names the wrong section: %q", v.Detail)
			}
		}
	}
}

func TestEmptySections_PlaceholderCountsAsFill(t *testing.T) {
	doc := draft.Parse(`## Chapter 1: Fallback

Prose.

### Key Excerpts

_No key excerpts are available for this chapter._

### Core Claims

_No core claims could be grounded for this chapter._
`)

	c := newTestChecker()
	if vs := c.EmptySections(doc); len(vs) != 0 {
		t.Errorf("placeholder-filled sections must not be flagged: %+v", vs)
	}
}

func TestInlineQuoteLeaks(t *testing.T) {
	doc := draft.Parse(`## Chapter 1: Leak

He said "a long quoted passage in prose" in passing. The word "ok" stays.
`)

	c := newTestChecker()
	vs := c.InlineQuoteLeaks(doc)

	if len(vs) != 1 {
		t.Fatalf("expected 1 inline-quote violation, got %d: %+v", len(vs), vs)
	}
	if vs[0].Chapter != 1 {
		t.Errorf("chapter = %d, want 1", vs[0].Chapter)
	}
}

func TestPlaceholderGlue(t *testing.T) {
	doc := draft.Parse(`## Chapter 1: Glue

The point is strong, as discussed in the excerpts above.
`)

	c := newTestChecker()
	if vs := c.PlaceholderGlue(doc); len(vs) != 1 {
		t.Errorf("expected 1 glue violation, got %+v", vs)
	}
}

func TestVerbatimLeaks(t *testing.T) {
	quote := "Problems are soluble and optimism is a duty."

	leaked := draft.Parse(`## Chapter 1: Copy

The guest maintains that problems are soluble and optimism is a duty for everyone.
`)
	paraphrased := draft.Parse(`## Chapter 1: Safe

The guest maintains that every problem yields to the right knowledge.
`)
	quoted := draft.Parse(`## Chapter 1: Quoted

He said "Problems are soluble and optimism is a duty." plainly.
`)

	c := newTestChecker()

	if vs := c.VerbatimLeaks(leaked, []string{quote}); len(vs) != 1 {
		t.Errorf("unquoted copy must be flagged, got %+v", vs)
	}
	if vs := c.VerbatimLeaks(paraphrased, []string{quote}); len(vs) != 0 {
		t.Errorf("paraphrase must pass, got %+v", vs)
	}
	if vs := c.VerbatimLeaks(quoted, []string{quote}); len(vs) != 0 {
		t.Errorf("properly quoted copy is not a verbatim leak, got %+v", vs)
	}
}

func TestClaimsCoverageGap(t *testing.T) {
	doc := draft.Parse(`## Chapter 1: Gap

Prose.

### Key Excerpts

> "First substantive excerpt from the conversation." — GUEST
> "Second substantive excerpt from the conversation." — GUEST

### Core Claims

_No core claims could be grounded for this chapter._
`)

	c := newTestChecker()
	if vs := c.ClaimsCoverageGaps(doc); len(vs) != 1 {
		t.Errorf("expected 1 coverage-gap violation, got %+v", vs)
	}
}

func TestShortSupport_BareAcknowledgement(t *testing.T) {
	doc := draft.Parse(`## Chapter 1: Weak

Prose.

### Core Claims

- **Claim X**: "Yes."
`)

	c := newTestChecker()
	vs := c.CheckDocument(doc, nil)

	if got := countRule(vs, RuleShortSupport); got != 1 {
		t.Fatalf("expected exactly 1 short-support violation, got %d: %+v", got, vs)
	}
}

func TestShortSupport_ClaimWithoutEvidence(t *testing.T) {
	doc := draft.Parse(`## Chapter 1: Bare

Prose.

### Core Claims

- **Claim with no quote**: stated without support.
`)

	c := newTestChecker()
	vs := c.ShortSupport(doc)

	if got := countRule(vs, RuleClaimWithoutEvidence); got != 1 {
		t.Errorf("expected claim-without-evidence violation, got %+v", vs)
	}
}

func TestDanglingAttributions(t *testing.T) {
	doc := draft.Parse(`## Chapter 1: Fragments

Deutsch argues. The point about progress stands, saying. A complete sentence notes the trend clearly.
`)

	c := newTestChecker()
	vs := c.DanglingAttributions(doc)

	if len(vs) != 2 {
		t.Errorf("expected 2 dangling-attribution violations, got %d: %+v", len(vs), vs)
	}
}

func TestTokenCorruption(t *testing.T) {
	tests := []struct {
		name  string
		prose string
		want  int
	}{
		{"doubled comma", "The result,, was strange.", 1},
		{"doubled period", "It ended.. abruptly.", 1},
		{"ellipsis is fine", "Well... maybe.", 0},
		{"stacked articles", "It was a the mistake.", 1},
		{"clean prose", "Nothing wrong here.", 0},
	}

	c := newTestChecker()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := draft.Parse("## Chapter 1: T\n\n" + tt.prose + "\n")
			if vs := c.TokenCorruption(doc); len(vs) != tt.want {
				t.Errorf("got %d violations, want %d: %+v", len(vs), tt.want, vs)
			}
		})
	}
}

func TestDefinitionalCandidate_PriorityOrder(t *testing.T) {
	sentences := []string{
		"The title defines the theme as the beginning of infinity.",
		"A good explanation is hard to vary.",
	}
	keywords := []string{"hard to vary", "is defined as", "the theme"}

	got, ok := DefinitionalCandidate(sentences, keywords)
	if !ok {
		t.Fatal("expected a candidate")
	}
	if got != sentences[1] {
		t.Errorf("highest-priority keyword must win, got %q", got)
	}

	if _, ok := DefinitionalCandidate(sentences, []string{"absent"}); ok {
		t.Error("no keyword match must return ok=false")
	}
}
