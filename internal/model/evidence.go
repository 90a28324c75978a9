package model

// EvidenceMap is the per-project set of claims and supporting quotes,
// created once per source transcript and read-only thereafter.
type EvidenceMap struct {
	ProjectID      string            `json:"project_id"`
	ContentMode    ContentMode       `json:"content_mode"`
	TranscriptHash string            `json:"transcript_hash"` // Hash of the canonical transcript offsets refer to
	Chapters       []ChapterEvidence `json:"chapters"`
}

// ChapterEvidence holds the extracted evidence for one planned chapter.
type ChapterEvidence struct {
	Index       int               `json:"index"`
	Title       string            `json:"title"`
	Claims      []EvidenceEntry   `json:"claims"`
	MustInclude []MustIncludeItem `json:"must_include,omitempty"`
	Forbidden   []string          `json:"forbidden,omitempty"`
}

// EvidenceEntry is a single claim backed by located quotes.
// Invariant: Support is never empty; claims with no located support are
// discarded at construction time and never persisted.
type EvidenceEntry struct {
	ID         string         `json:"id"`
	Claim      string         `json:"claim"`
	Support    []SupportQuote `json:"support"`
	Confidence float64        `json:"confidence"` // In [0,1]
	ClaimType  ClaimType      `json:"claim_type,omitempty"`
}

// SupportQuote is a verbatim quote located in the canonical transcript.
type SupportQuote struct {
	Quote     string `json:"quote"`
	StartChar *int   `json:"start_char,omitempty"`
	EndChar   *int   `json:"end_char,omitempty"`
	Speaker   string `json:"speaker,omitempty"`
}

// MustIncludeItem marks material a chapter is required to cover.
type MustIncludeItem struct {
	Text   string `json:"text"`
	Reason string `json:"reason,omitempty"`
}

// ClaimType categorizes the nature of a claim
type ClaimType string

const (
	ClaimTypeFactual     ClaimType = "factual"     // Verifiable statements of fact
	ClaimTypePosition    ClaimType = "position"    // A speaker's stated position or argument
	ClaimTypeDefinition  ClaimType = "definition"  // Definitional claims
	ClaimTypeAnecdote    ClaimType = "anecdote"    // Personal stories or examples
	ClaimTypePrediction  ClaimType = "prediction"  // Forward-looking statements
	ClaimTypeAttribution ClaimType = "attribution" // Claims about who said/did something
)

// HasSupport reports whether the entry satisfies the support invariant.
func (e EvidenceEntry) HasSupport() bool {
	return len(e.Support) > 0
}
