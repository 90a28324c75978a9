package whitelist

import (
	"strings"
	"testing"

	"github.com/veriscript/veriscript/internal/draft"
)

const sampleTranscript = `**HOST:** Today David Deutsch joins us to talk about progress.
His collaborator Sarah Fitzgerald worked at Acme Technologies on the FOOBAR
project using the CRM and the DeepStack toolchain.`

func buildTestWhitelist() *Whitelist {
	return Build(sampleTranscript, []string{"David Deutsch"}, nil)
}

func TestBuild_PersonBlacklist(t *testing.T) {
	wl := buildTestWhitelist()

	if _, found := wl.BlacklistedPerson("Then David Deutsch made a point."); !found {
		t.Error("known speaker full name must be blacklisted")
	}
	if _, found := wl.BlacklistedPerson("Deutsch argued otherwise."); !found {
		t.Error("last name alone must be blacklisted")
	}
	if _, found := wl.BlacklistedPerson("Sarah Fitzgerald disagreed."); !found {
		t.Error("capitalized pair with common first name must be blacklisted")
	}
	if _, found := wl.BlacklistedPerson("The argument stands on its own."); found {
		t.Error("sentence without names must not be flagged")
	}
}

func TestBuild_EntityAllowlist(t *testing.T) {
	wl := buildTestWhitelist()

	if !wl.HasAllowlistedEntity("The deal with Acme Technologies closed.") {
		t.Error("org-suffix phrase must be allowlisted")
	}
	if !wl.HasAllowlistedEntity("They rebuilt it on FOOBAR.") {
		t.Error("ALL-CAPS acronym must be allowlisted as product")
	}
	if !wl.HasAllowlistedEntity("The CRM was central.") {
		t.Error("known acronym term must be allowlisted as org")
	}
	if !wl.HasAllowlistedEntity("DeepStack shipped early.") {
		t.Error("CamelCase token must be allowlisted as product")
	}

	if wl.OrgCount() == 0 || wl.ProductCount() == 0 {
		t.Errorf("expected both org and product entries, got %d orgs %d products",
			wl.OrgCount(), wl.ProductCount())
	}
}

func TestBuild_AcronymClassification(t *testing.T) {
	wl := Build("They compared the CRM against the ZORP platform.", nil, nil)

	// CRM is a known domain term -> ORG; ZORP is unknown -> PRODUCT.
	if wl.OrgCount() != 1 {
		t.Errorf("expected 1 org (CRM), got %d", wl.OrgCount())
	}
	if wl.ProductCount() != 1 {
		t.Errorf("expected 1 product (ZORP), got %d", wl.ProductCount())
	}
}

func TestQuotes(t *testing.T) {
	wl := buildTestWhitelist()
	wl.AddQuote("“Progress is unbounded.”")

	if !wl.HasQuote(`"Progress is unbounded."`) {
		t.Error("quote lookup must be canonicalization-insensitive")
	}
	if wl.HasQuote("Something never said") {
		t.Error("unknown quote must not be blessed")
	}
}

const enforceDraft = `## Chapter 1: Progress

The conversation turns to optimism. David Deutsch insists that problems are soluble. The work at Acme Technologies by Deutsch proved influential. A closing thought stands alone.

### Key Excerpts

> "Problems are soluble." — David Deutsch

### Core Claims

- **Soluble problems**: "Problems are soluble."
`

func TestEnforce_DropsPersonSentences(t *testing.T) {
	doc := draft.Parse(enforceDraft)
	wl := buildTestWhitelist()

	out, report := Enforce(doc, wl)

	if report.SentencesDropped != 1 {
		t.Fatalf("expected 1 dropped sentence, got %d: %+v", report.SentencesDropped, report.DropDetails)
	}
	if report.DropDetails[0].Type != DropPersonName {
		t.Errorf("drop type = %q", report.DropDetails[0].Type)
	}
	if report.SentencesKeptByAllowlist != 1 {
		t.Errorf("expected 1 allowlist save, got %d", report.SentencesKeptByAllowlist)
	}

	prose := out.Chapters[0].ProseText()
	for _, sentence := range draft.SplitSentences(prose) {
		if name, found := wl.BlacklistedPerson(sentence); found && !wl.HasAllowlistedEntity(sentence) {
			t.Errorf("output prose still names %q: %q", name, sentence)
		}
	}

	// Reserved sections stay untouched.
	if len(out.Chapters[0].Excerpts) != 1 {
		t.Error("Key Excerpts must be left alone")
	}
	if !strings.Contains(out.Chapters[0].Excerpts[0].Raw, "David Deutsch") {
		t.Error("excerpt attribution must survive enforcement")
	}
}

func TestEnforce_InputUnmodified(t *testing.T) {
	doc := draft.Parse(enforceDraft)
	before := doc.Chapters[0].ProseText()

	wl := buildTestWhitelist()
	_, _ = Enforce(doc, wl)

	if doc.Chapters[0].ProseText() != before {
		t.Error("enforcement must not mutate its input")
	}
}
