package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/veriscript/veriscript/internal/draft"
	"github.com/veriscript/veriscript/internal/model"
)

func parseForTest(t *testing.T, markdown string) *draft.Document {
	t.Helper()
	doc := draft.Parse(markdown)
	if len(doc.Chapters) == 0 {
		t.Fatal("fixture draft has no chapters")
	}
	return doc
}

const verifierTranscript = `**HOST:** Today David Deutsch joins us.

**GUEST:** Problems are soluble. A good explanation is hard to vary.
Optimism is a duty when knowledge can grow without bound.`

const cleanDraft = `# The Beginning

## Chapter 1: Soluble Problems

The conversation opens with a sweeping case for optimism. Every obstacle
yields to the right knowledge, and nothing in physics forbids progress.

### Key Excerpts

> "Problems are soluble." — GUEST

### Core Claims

- **Explanations**: "A good explanation is hard to vary."
`

func testConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Enforcement.KnownSpeakers = []string{"David Deutsch"}
	return cfg
}

func TestVerify_CleanDocumentPasses(t *testing.T) {
	v := NewVerifier(testConfig(), true)
	rep := v.Verify(context.Background(), "clean", verifierTranscript, cleanDraft)

	if rep.Error != "" {
		t.Fatalf("unexpected error: %s", rep.Error)
	}
	if !rep.StructuralPass {
		t.Fatalf("structural issues: %v", rep.StructuralIssues)
	}
	if rep.Groundedness == nil || rep.Groundedness.OverallVerdict != model.VerdictPass {
		t.Fatalf("groundedness = %+v", rep.Groundedness)
	}
	if rep.ProvenanceRate != 1.0 {
		t.Errorf("provenance rate = %v", rep.ProvenanceRate)
	}
	if rep.ChapterCount != 1 || len(rep.ChapterProseWords) != 1 {
		t.Errorf("chapter accounting = %d / %v", rep.ChapterCount, rep.ChapterProseWords)
	}
	if rep.SentencesDropped != 0 {
		t.Errorf("clean prose dropped %d sentences: %+v", rep.SentencesDropped, rep.DropReasons)
	}
}

func TestVerify_PersonNameInProseIsDropped(t *testing.T) {
	draftText := strings.Replace(cleanDraft,
		"The conversation opens with a sweeping case for optimism.",
		"David Deutsch opens with a sweeping case for optimism.", 1)

	v := NewVerifier(testConfig(), true)
	rep := v.Verify(context.Background(), "named", verifierTranscript, draftText)

	if rep.SentencesDropped != 1 {
		t.Fatalf("dropped = %d, want 1", rep.SentencesDropped)
	}
	if rep.DropReasons["person_name"] != 1 {
		t.Errorf("drop reasons = %+v", rep.DropReasons)
	}
	if rep.PersonBlacklistSize == 0 {
		t.Error("known speaker must be on the blacklist")
	}
}

func TestVerify_UngroundedExcerptFailsStrict(t *testing.T) {
	draftText := strings.Replace(cleanDraft,
		`"Problems are soluble."`,
		`"This was never said on the program."`, 1)

	v := NewVerifier(testConfig(), true)
	rep := v.Verify(context.Background(), "ungrounded", verifierTranscript, draftText)

	if rep.Groundedness.OverallVerdict != model.VerdictFail {
		t.Errorf("strict verdict = %s, want FAIL", rep.Groundedness.OverallVerdict)
	}
	if rep.ProvenanceRate != 0 {
		t.Errorf("provenance rate = %v, want 0", rep.ProvenanceRate)
	}
}

func TestVerify_FallbackChapterCounted(t *testing.T) {
	draftText := cleanDraft + `
## Chapter 2: Fallback

Thin prose only.

### Key Excerpts

_No key excerpts are available for this chapter._

### Core Claims

_No core claims could be grounded for this chapter._
`

	v := NewVerifier(testConfig(), true)
	rep := v.Verify(context.Background(), "fallback", verifierTranscript, draftText)

	if rep.ChaptersWithFallback != 1 {
		t.Errorf("fallback chapters = %d, want 1", rep.ChaptersWithFallback)
	}
	if rep.ChapterCount != 2 {
		t.Errorf("chapter count = %d, want 2", rep.ChapterCount)
	}
}

func TestVerify_EmptyDraftIsIsolatedError(t *testing.T) {
	v := NewVerifier(testConfig(), true)
	rep := v.Verify(context.Background(), "empty", verifierTranscript, "")

	if rep.Error == "" {
		t.Fatal("chapterless draft must set report error")
	}
	if rep.Name != "empty" {
		t.Errorf("name = %q", rep.Name)
	}
}

func TestScrub_ReturnsEnforcedCopy(t *testing.T) {
	draftText := strings.Replace(cleanDraft,
		"The conversation opens with a sweeping case for optimism.",
		"David Deutsch opens with a sweeping case for optimism.", 1)

	v := NewVerifier(testConfig(), true)
	doc := parseForTest(t, draftText)
	scrubbed, report := v.Scrub("named", verifierTranscript, doc)

	if report.SentencesDropped != 1 {
		t.Fatalf("dropped = %d", report.SentencesDropped)
	}
	if strings.Contains(scrubbed.Chapters[0].ProseText(), "David Deutsch") {
		t.Error("scrubbed prose still names the speaker")
	}
	if !strings.Contains(doc.Chapters[0].ProseText(), "David Deutsch") {
		t.Error("input document must be unchanged")
	}
}
