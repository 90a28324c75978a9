// Package pipeline wires the verification stages together: draft parsing,
// speaker attribution, whitelist enforcement, structural validation and
// groundedness checking for single documents, plus evidence extraction and
// report rendering around them.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/veriscript/veriscript/internal/attribution"
	"github.com/veriscript/veriscript/internal/draft"
	"github.com/veriscript/veriscript/internal/model"
	"github.com/veriscript/veriscript/internal/validate"
	"github.com/veriscript/veriscript/internal/whitelist"
)

// Verifier runs the full per-document verification chain. It implements
// worker.Verifier; any internal failure is isolated into the report's Error
// field so batch runs never abort on one bad document.
type Verifier struct {
	cfg     *model.Config
	checker *validate.Checker
	strict  bool

	// EvidenceFor optionally supplies the evidence map for a document, whose
	// support quotes extend the whitelist. Nil means drafts are verified
	// against their own reserved sections only.
	EvidenceFor func(name string) *model.EvidenceMap
}

// NewVerifier builds a verifier. strict selects the groundedness verdict
// policy.
func NewVerifier(cfg *model.Config, strict bool) *Verifier {
	return &Verifier{
		cfg:     cfg,
		checker: validate.New(cfg.Validation),
		strict:  strict,
	}
}

// Verify checks one transcript/draft pair and returns its report.
func (v *Verifier) Verify(ctx context.Context, name, transcript, draftText string) (report model.DocumentReport) {
	report.Name = name
	defer func() {
		if r := recover(); r != nil {
			report = model.DocumentReport{Name: name, Error: fmt.Sprintf("verify panicked: %v", r)}
		}
	}()

	doc := draft.Parse(draftText)
	if len(doc.Chapters) == 0 {
		report.Error = "draft has no chapters"
		return report
	}

	wl := v.buildWhitelist(name, transcript, doc)
	_, enforcement := whitelist.Enforce(doc, wl)

	violations := v.checker.CheckDocument(doc, wl.Quotes())
	grounded := validate.CheckGroundedness(doc, transcript, v.strict)

	report.StructuralPass = true
	for _, viol := range violations {
		if viol.Severity == model.SeverityP0 {
			report.StructuralPass = false
		}
		report.StructuralIssues = append(report.StructuralIssues, formatViolation(viol))
	}

	report.SentencesDropped = enforcement.SentencesDropped
	if len(enforcement.DropDetails) > 0 {
		report.DropReasons = map[string]int{}
		for _, d := range enforcement.DropDetails {
			report.DropReasons[d.Type]++
		}
	}

	report.ChapterCount = len(doc.Chapters)
	for _, ch := range doc.Chapters {
		words := 0
		for _, para := range ch.Prose {
			sentences := draft.SplitSentences(para)
			report.SentenceCount += len(sentences)
			words += len(strings.Fields(para))
		}
		report.ChapterProseWords = append(report.ChapterProseWords, words)
		report.ProseWordCount += words
		if chapterHasFallback(ch) {
			report.ChaptersWithFallback++
		}
	}

	report.PersonBlacklistSize = wl.PersonCount()
	report.EntityAllowlistOrgs = wl.OrgCount()
	report.EntityAllowlistProds = wl.ProductCount()
	report.ProvenanceRate = grounded.ExcerptProvenance.Rate
	report.Groundedness = grounded

	return report
}

// Scrub returns the enforced copy of a draft along with the enforcement
// report, for callers that want the cleaned document rather than a verdict.
func (v *Verifier) Scrub(name, transcript string, doc *draft.Document) (*draft.Document, model.EnforcementReport) {
	wl := v.buildWhitelist(name, transcript, doc)
	return whitelist.Enforce(doc, wl)
}

// buildWhitelist compiles the per-document whitelist: transcript entities
// after attribution, known speakers, evidence-map support quotes, and the
// draft's own reserved-section quotes.
func (v *Verifier) buildWhitelist(name, transcript string, doc *draft.Document) *whitelist.Whitelist {
	speakers := v.cfg.Enforcement.KnownSpeakers

	resolved := transcript
	if len(speakers) > 0 {
		r := attribution.NewResolver(attribution.Options{
			GuestName:         speakers[0],
			ShortTurnMaxWords: v.cfg.Validation.ShortTurnMaxWords,
		})
		resolved = r.ResolveMarkdown(transcript)
	}

	var em *model.EvidenceMap
	if v.EvidenceFor != nil {
		em = v.EvidenceFor(name)
	}

	wl := whitelist.Build(resolved, speakers, em)
	for _, ch := range doc.Chapters {
		for _, e := range ch.Excerpts {
			wl.AddQuote(e.Quote)
		}
		for _, cl := range ch.Claims {
			if cl.Evidence != "" {
				wl.AddQuote(cl.Evidence)
			}
		}
	}
	return wl
}

func chapterHasFallback(ch draft.Chapter) bool {
	for _, l := range ch.ExcerptLines {
		if draft.IsPlaceholder(l) {
			return true
		}
	}
	for _, l := range ch.ClaimLines {
		if draft.IsPlaceholder(l) {
			return true
		}
	}
	return false
}

func formatViolation(v model.Violation) string {
	if v.Chapter > 0 {
		return fmt.Sprintf("[%s] %s (chapter %d): %s", v.Severity, v.Rule, v.Chapter, v.Detail)
	}
	return fmt.Sprintf("[%s] %s: %s", v.Severity, v.Rule, v.Detail)
}
