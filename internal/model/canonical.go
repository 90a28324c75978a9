package model

// CanonicalTranscript is the frozen reference form of a source transcript.
// All quote offsets downstream are character offsets into Text; Hash pins
// the coordinate system so stale offsets can be detected before reuse.
type CanonicalTranscript struct {
	Text string `json:"text"` // Canonical (normalized) transcript text
	Hash string `json:"hash"` // sha256 hex of Text
}

// Located is a quote that was found in a canonical transcript.
type Located struct {
	Quote      string `json:"quote"`       // Extracted span from the canonical text
	StartChar  int    `json:"start_char"`  // Start offset into CanonicalTranscript.Text
	EndChar    int    `json:"end_char"`    // End offset (exclusive)
	TokenCount int    `json:"token_count"` // Rough token estimate (chars/4)
	Preview    string `json:"preview"`     // Short preview of the match
	Tier       int    `json:"tier"`        // Which matching tier succeeded (1-3)
}
