package model

import "time"

// Verdict is the closed set of check outcomes.
type Verdict string

const (
	VerdictPass Verdict = "PASS"
	VerdictWarn Verdict = "WARN"
	VerdictFail Verdict = "FAIL"
)

// Worse returns the worse of two verdicts (FAIL > WARN > PASS).
func (v Verdict) Worse(other Verdict) Verdict {
	if v == VerdictFail || other == VerdictFail {
		return VerdictFail
	}
	if v == VerdictWarn || other == VerdictWarn {
		return VerdictWarn
	}
	return VerdictPass
}

// Severity ranks threshold violations.
type Severity string

const (
	SeverityP0 Severity = "P0" // Structural failure - blocks shipping
	SeverityP1 Severity = "P1" // Quality regression
	SeverityP2 Severity = "P2" // Soft warning
)

// Violation is a single invariant or threshold breach.
type Violation struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity,omitempty"`
	Chapter  int      `json:"chapter,omitempty"` // 1-based chapter index, 0 if document-level
	Detail   string   `json:"detail"`
}

// EnforcementReport summarizes whitelist enforcement over prose regions.
type EnforcementReport struct {
	SentencesDropped         int          `json:"sentences_dropped"`
	DropDetails              []DropDetail `json:"drop_details,omitempty"`
	SentencesKeptByAllowlist int          `json:"sentences_kept_due_to_allowlist"`
}

// DropDetail records one dropped sentence and why.
type DropDetail struct {
	Type     string `json:"type"` // Drop reason, e.g. "person_name"
	Sentence string `json:"sentence"`
}

// DocumentReport is the per-document verification result, recomputed on
// every run and never cached.
type DocumentReport struct {
	Name             string         `json:"name"`
	StructuralPass   bool           `json:"structural_pass"`
	StructuralIssues []string       `json:"structural_issues,omitempty"`
	SentencesDropped int            `json:"sentences_dropped"`
	SentenceCount    int            `json:"sentence_count"`
	DropReasons      map[string]int `json:"drop_reasons,omitempty"`
	ProvenanceRate   float64        `json:"provenance_rate"`

	ProseWordCount       int   `json:"prose_word_count"`
	ChapterCount         int   `json:"chapter_count"`
	ChapterProseWords    []int `json:"chapter_prose_words,omitempty"`
	ChaptersWithFallback int   `json:"chapters_with_fallback"`
	PersonBlacklistSize  int   `json:"person_blacklist_size"`
	EntityAllowlistOrgs  int   `json:"entity_allowlist_orgs"`
	EntityAllowlistProds int   `json:"entity_allowlist_products"`

	Groundedness *GroundednessReport `json:"groundedness,omitempty"`
	Error        string              `json:"error,omitempty"` // Isolated per-document failure
}

// GroundednessReport is the output of the groundedness checker.
type GroundednessReport struct {
	OverallVerdict    Verdict            `json:"overall_verdict"`
	ExcerptProvenance ProvenanceReport   `json:"excerpt_provenance"`
	ClaimSupport      ClaimSupportReport `json:"claim_support"`
}

// ProvenanceReport is the excerpt-provenance sub-check.
type ProvenanceReport struct {
	Total   int      `json:"total"`
	Found   int      `json:"found"`
	Rate    float64  `json:"rate"`
	Verdict Verdict  `json:"verdict"`
	Missing []string `json:"missing,omitempty"`
}

// ClaimSupportReport is the claim-support sub-check.
type ClaimSupportReport struct {
	Total        int      `json:"total"`
	WithEvidence int      `json:"with_evidence"`
	Rate         float64  `json:"rate"`
	Verdict      Verdict  `json:"verdict"`
	Missing      []string `json:"missing,omitempty"`
}

// CorpusReport aggregates document reports and gate decisions.
type CorpusReport struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Documents   []DocumentReport `json:"documents"`

	DocumentCount       int            `json:"document_count"`
	FailedDocuments     int            `json:"failed_documents"` // Documents whose verification errored
	TopDropReasons      map[string]int `json:"top_drop_reasons,omitempty"`
	AvgDropRatio        float64        `json:"avg_drop_ratio"`
	AvgFallbackRatio    float64        `json:"avg_fallback_ratio"`
	AvgExcerptRate      float64        `json:"avg_excerpt_provenance"`
	AvgClaimRate        float64        `json:"avg_claim_provenance"`
	P10ProseWords       float64        `json:"p10_prose_words_per_chapter"`
	ThresholdViolations []Violation    `json:"threshold_violations,omitempty"`
	OverallVerdict      Verdict        `json:"overall_verdict"`
}
