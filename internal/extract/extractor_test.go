package extract

import (
	"context"
	"testing"

	"github.com/veriscript/veriscript/internal/canon"
	"github.com/veriscript/veriscript/internal/llm"
	"github.com/veriscript/veriscript/internal/model"
)

const chapterResponse = "```json\n" + `{
  "claims": [
    {
      "claim": "Good explanations are hard to vary.",
      "claim_type": "position",
      "confidence": 0.9,
      "quotes": [
        {"quote": "a good explanation is \"hard to vary\" while still accounting for what it purports to account for", "speaker": "GUEST"}
      ]
    },
    {
      "claim": "This claim has fabricated support and must be dropped.",
      "claim_type": "factual",
      "confidence": 1.5,
      "quotes": [
        {"quote": "text that was never spoken in this transcript by anyone whatsoever"}
      ]
    }
  ]
}` + "\n```"

func testPlan() *Plan {
	return &Plan{
		ProjectID: "proj-1",
		Chapters: []ChapterPlan{
			{Index: 1, Title: "Good Explanations", MustInclude: []string{"hard to vary"}},
		},
	}
}

func TestExtract_DropsUnsupportedClaims(t *testing.T) {
	ct := canon.Freeze(transcriptRaw)
	provider := &llm.MockProvider{Responses: []string{chapterResponse}}
	e := NewExtractor(provider, nil, model.ExtractionConfig{})

	em, errs := e.Extract(context.Background(), testPlan(), ct, model.ModeInterview)
	if len(errs) != 0 {
		t.Fatalf("unexpected degradations: %v", errs)
	}

	if em.TranscriptHash != ct.Hash {
		t.Error("evidence map must pin the transcript hash")
	}
	if len(em.Chapters) != 1 {
		t.Fatalf("expected 1 chapter, got %d", len(em.Chapters))
	}

	ch := em.Chapters[0]
	if len(ch.Claims) != 1 {
		t.Fatalf("expected unsupported claim to be dropped, got %d claims", len(ch.Claims))
	}

	entry := ch.Claims[0]
	if !entry.HasSupport() {
		t.Fatal("persisted claim must have support")
	}
	if entry.Confidence < 0 || entry.Confidence > 1 {
		t.Errorf("confidence not clamped: %f", entry.Confidence)
	}
	sq := entry.Support[0]
	if sq.StartChar == nil || sq.EndChar == nil {
		t.Fatal("support quote missing offsets")
	}
	if got := ct.Text[*sq.StartChar:*sq.EndChar]; got != sq.Quote {
		t.Errorf("offsets disagree with quote: %q vs %q", got, sq.Quote)
	}
	if sq.Speaker != "GUEST" {
		t.Errorf("speaker = %q", sq.Speaker)
	}
}

func TestExtract_ProviderErrorDegrades(t *testing.T) {
	ct := canon.Freeze(transcriptRaw)
	provider := &llm.MockProvider{Err: &llm.APIError{Kind: llm.ErrRateLimited, Message: "slow down"}}
	e := NewExtractor(provider, nil, model.ExtractionConfig{})

	em, errs := e.Extract(context.Background(), testPlan(), ct, model.ModeInterview)
	if len(errs) != 1 {
		t.Fatalf("expected 1 degradation, got %d", len(errs))
	}
	if len(em.Chapters) != 1 {
		t.Fatalf("degraded chapter must still be present")
	}
	if len(em.Chapters[0].Claims) != 0 {
		t.Error("degraded chapter must be empty")
	}
	if em.Chapters[0].Title != "Good Explanations" {
		t.Error("degraded chapter keeps its plan metadata")
	}
}

func TestExtract_UnparseableResponseDegrades(t *testing.T) {
	ct := canon.Freeze(transcriptRaw)
	provider := &llm.MockProvider{Responses: []string{"I'm sorry, I can't produce JSON today."}}
	e := NewExtractor(provider, nil, model.ExtractionConfig{})

	em, errs := e.Extract(context.Background(), testPlan(), ct, model.ModeInterview)
	if len(errs) != 1 {
		t.Fatalf("expected 1 degradation, got %d", len(errs))
	}
	if len(em.Chapters[0].Claims) != 0 {
		t.Error("unparseable chapter must degrade to empty evidence")
	}
}

func TestParseChapterResponse_PlainJSON(t *testing.T) {
	raw, err := parseChapterResponse(`{"claims":[]}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(raw.Claims) != 0 {
		t.Errorf("claims = %d", len(raw.Claims))
	}
}
