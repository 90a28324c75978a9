// Package validate runs pure checks over parsed drafts: structural shape,
// content invariants, and groundedness against the canonical transcript.
// Every check is deterministic and side-effect free; callers union the
// resulting violations.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/veriscript/veriscript/internal/canon"
	"github.com/veriscript/veriscript/internal/draft"
	"github.com/veriscript/veriscript/internal/model"
)

// Rule names reported in violations.
const (
	RuleEmptySection         = "empty_section"
	RuleInlineQuote          = "inline_quote_leak"
	RulePlaceholderGlue      = "placeholder_glue"
	RuleVerbatimLeak         = "verbatim_leak"
	RuleClaimsCoverageGap    = "claims_coverage_gap"
	RuleClaimWithoutEvidence = "claim_without_evidence"
	RuleShortSupport         = "short_support"
	RuleDanglingAttribution  = "dangling_attribution"
	RuleTokenCorruption      = "token_corruption"
)

// glue phrases that should have been resolved before output.
var gluePhrases = []string{
	"as discussed in the excerpts above",
	"as shown in the excerpts above",
	"as discussed in the excerpts below",
	"see the excerpts above",
	"refer to the key excerpts",
	"as noted in the claims below",
}

// bare acknowledgements that cannot serve as claim evidence.
var bareAcknowledgements = map[string]bool{
	"yes": true, "no": true, "ok": true, "okay": true,
	"right": true, "sure": true, "yeah": true, "exactly": true,
	"mm-hmm": true, "uh-huh": true,
}

var (
	quotedSpanRe = regexp.MustCompile(`"([^"]*)"`)
	danglingRe   = regexp.MustCompile(`\b(?:argues|notes|says|adds|claims|explains|observes|continues|insists|writes)[,.]$`)
	sayingRe     = regexp.MustCompile(`, saying[,.]?$`)
	articleRe    = regexp.MustCompile(`(?i)\b(?:a|an|the)\s+(?:a|an|the)\b`)
	doublePunct  = regexp.MustCompile(`[,;:?!]{2,}`)
)

// Checker applies the structural and content validators with configured
// length cutoffs.
type Checker struct {
	cfg model.ValidationConfig
}

// New builds a checker; zero cutoffs fall back to the defaults.
func New(cfg model.ValidationConfig) *Checker {
	def := model.DefaultConfig().Validation
	if cfg.VerbatimMinLen <= 0 {
		cfg.VerbatimMinLen = def.VerbatimMinLen
	}
	if cfg.InlineQuoteLen <= 0 {
		cfg.InlineQuoteLen = def.InlineQuoteLen
	}
	return &Checker{cfg: cfg}
}

// CheckDocument runs every validator and unions the violations.
// whitelistedQuotes feeds the verbatim-leak detector; pass nil to skip it.
func (c *Checker) CheckDocument(doc *draft.Document, whitelistedQuotes []string) []model.Violation {
	var out []model.Violation
	out = append(out, c.EmptySections(doc)...)
	out = append(out, c.InlineQuoteLeaks(doc)...)
	out = append(out, c.PlaceholderGlue(doc)...)
	out = append(out, c.VerbatimLeaks(doc, whitelistedQuotes)...)
	out = append(out, c.ClaimsCoverageGaps(doc)...)
	out = append(out, c.ShortSupport(doc)...)
	out = append(out, c.DanglingAttributions(doc)...)
	out = append(out, c.TokenCorruption(doc)...)
	return out
}

// EmptySections flags a reserved section whose body is only whitespace.
// A designated placeholder sentence counts as valid fill.
func (c *Checker) EmptySections(doc *draft.Document) []model.Violation {
	var out []model.Violation
	for _, ch := range doc.Chapters {
		if ch.HasExcerptSection && sectionEmpty(ch.ExcerptLines) {
			out = append(out, model.Violation{
				Rule:     RuleEmptySection,
				Severity: model.SeverityP0,
				Chapter:  ch.Index,
				Detail:   `"Key Excerpts" section is empty`,
			})
		}
		if ch.HasClaimSection && sectionEmpty(ch.ClaimLines) {
			out = append(out, model.Violation{
				Rule:     RuleEmptySection,
				Severity: model.SeverityP0,
				Chapter:  ch.Index,
				Detail:   `"Core Claims" section is empty`,
			})
		}
	}
	return out
}

func sectionEmpty(lines []string) bool {
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			return false
		}
	}
	return true
}

// InlineQuoteLeaks flags quotation-mark pairs of at least InlineQuoteLen
// characters inside prose regions. Quotes belong in the reserved sections.
func (c *Checker) InlineQuoteLeaks(doc *draft.Document) []model.Violation {
	var out []model.Violation
	for _, ch := range doc.Chapters {
		for _, para := range ch.Prose {
			for _, m := range quotedSpanRe.FindAllStringSubmatch(para, -1) {
				if len(m[1]) < c.cfg.InlineQuoteLen {
					continue
				}
				out = append(out, model.Violation{
					Rule:     RuleInlineQuote,
					Severity: model.SeverityP1,
					Chapter:  ch.Index,
					Detail:   fmt.Sprintf("quoted span in prose: %q", truncate(m[1], 60)),
				})
			}
		}
	}
	return out
}

// PlaceholderGlue flags residual template phrases in prose.
func (c *Checker) PlaceholderGlue(doc *draft.Document) []model.Violation {
	var out []model.Violation
	for _, ch := range doc.Chapters {
		lower := strings.ToLower(ch.ProseText())
		for _, phrase := range gluePhrases {
			if strings.Contains(lower, phrase) {
				out = append(out, model.Violation{
					Rule:     RulePlaceholderGlue,
					Severity: model.SeverityP1,
					Chapter:  ch.Index,
					Detail:   fmt.Sprintf("residual template phrase %q", phrase),
				})
			}
		}
	}
	return out
}

// VerbatimLeaks flags prose sentences that copy a long run of a whitelisted
// quote without quotation marks. Prose must paraphrase.
func (c *Checker) VerbatimLeaks(doc *draft.Document, quotes []string) []model.Violation {
	minLen := c.cfg.VerbatimMinLen

	var normQuotes []string
	for _, q := range quotes {
		nq := strings.ToLower(canon.Canonicalize(q))
		if len(nq) >= minLen {
			normQuotes = append(normQuotes, nq)
		}
	}
	if len(normQuotes) == 0 {
		return nil
	}

	var out []model.Violation
	for _, ch := range doc.Chapters {
		for _, sentence := range draft.SplitSentences(ch.ProseText()) {
			unquoted := quotedSpanRe.ReplaceAllString(sentence, "")
			norm := strings.ToLower(canon.Canonicalize(unquoted))
			for _, nq := range normQuotes {
				if !sharesRun(norm, nq, minLen) {
					continue
				}
				out = append(out, model.Violation{
					Rule:     RuleVerbatimLeak,
					Severity: model.SeverityP1,
					Chapter:  ch.Index,
					Detail:   fmt.Sprintf("unquoted copy of whitelisted material: %q", truncate(sentence, 80)),
				})
				break
			}
		}
	}
	return out
}

// sharesRun reports whether text contains any substring of quote with at
// least min bytes.
func sharesRun(text, quote string, min int) bool {
	if len(quote) < min || len(text) < min {
		return false
	}
	for i := 0; i+min <= len(quote); i++ {
		if strings.Contains(text, quote[i:i+min]) {
			return true
		}
	}
	return false
}

// ClaimsCoverageGaps flags chapters with two or more excerpts but zero
// substantive claims.
func (c *Checker) ClaimsCoverageGaps(doc *draft.Document) []model.Violation {
	var out []model.Violation
	for _, ch := range doc.Chapters {
		if len(ch.Excerpts) >= 2 && ch.SubstantiveClaims() == 0 {
			out = append(out, model.Violation{
				Rule:     RuleClaimsCoverageGap,
				Severity: model.SeverityP1,
				Chapter:  ch.Index,
				Detail:   fmt.Sprintf("%d excerpts but no substantive claims", len(ch.Excerpts)),
			})
		}
	}
	return out
}

// ShortSupport flags claims whose evidence is a bare acknowledgement, and
// claims carrying no evidence quote at all.
func (c *Checker) ShortSupport(doc *draft.Document) []model.Violation {
	var out []model.Violation
	for _, ch := range doc.Chapters {
		for _, cl := range ch.Claims {
			if cl.Evidence == "" {
				out = append(out, model.Violation{
					Rule:     RuleClaimWithoutEvidence,
					Severity: model.SeverityP1,
					Chapter:  ch.Index,
					Detail:   fmt.Sprintf("claim %q has no evidence quote", cl.Title),
				})
				continue
			}
			if isBareAcknowledgement(cl.Evidence) {
				out = append(out, model.Violation{
					Rule:     RuleShortSupport,
					Severity: model.SeverityP1,
					Chapter:  ch.Index,
					Detail:   fmt.Sprintf("claim %q supported only by %q", cl.Title, cl.Evidence),
				})
			}
		}
	}
	return out
}

func isBareAcknowledgement(evidence string) bool {
	s := strings.ToLower(strings.TrimSpace(evidence))
	s = strings.TrimRight(s, ".!?,")
	return bareAcknowledgements[s]
}

// DanglingAttributions flags fragments ending in an attribution verb with
// no object.
func (c *Checker) DanglingAttributions(doc *draft.Document) []model.Violation {
	var out []model.Violation
	for _, ch := range doc.Chapters {
		for _, sentence := range draft.SplitSentences(ch.ProseText()) {
			if !danglingRe.MatchString(sentence) && !sayingRe.MatchString(sentence) {
				continue
			}
			out = append(out, model.Violation{
				Rule:     RuleDanglingAttribution,
				Severity: model.SeverityP2,
				Chapter:  ch.Index,
				Detail:   fmt.Sprintf("attribution with no object: %q", truncate(sentence, 80)),
			})
		}
	}
	return out
}

// TokenCorruption flags artifacts of faulty substitution: duplicated
// punctuation and stacked articles.
func (c *Checker) TokenCorruption(doc *draft.Document) []model.Violation {
	var out []model.Violation
	for _, ch := range doc.Chapters {
		for _, para := range ch.Prose {
			if m := doublePunct.FindString(para); m != "" {
				out = append(out, model.Violation{
					Rule:     RuleTokenCorruption,
					Severity: model.SeverityP2,
					Chapter:  ch.Index,
					Detail:   fmt.Sprintf("duplicated punctuation %q", m),
				})
			}
			if hasDoubledPeriod(para) {
				out = append(out, model.Violation{
					Rule:     RuleTokenCorruption,
					Severity: model.SeverityP2,
					Chapter:  ch.Index,
					Detail:   "doubled period",
				})
			}
			if m := articleRe.FindString(para); m != "" {
				out = append(out, model.Violation{
					Rule:     RuleTokenCorruption,
					Severity: model.SeverityP2,
					Chapter:  ch.Index,
					Detail:   fmt.Sprintf("stacked articles %q", m),
				})
			}
		}
	}
	return out
}

// hasDoubledPeriod finds ".." runs that are not an ellipsis.
func hasDoubledPeriod(s string) bool {
	run := 0
	for i := 0; i <= len(s); i++ {
		if i < len(s) && s[i] == '.' {
			run++
			continue
		}
		if run == 2 {
			return true
		}
		run = 0
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
