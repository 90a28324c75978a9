// Package draft models generated documents: ordered chapters, each with a
// prose region and the two reserved sub-sections, "Key Excerpts" and
// "Core Claims". Quotes are permitted only inside the reserved sections.
package draft

import (
	"regexp"
	"strings"
)

// Placeholder sentences used when a chapter falls back to placeholder
// content. The empty-section detector treats these as valid fill.
const (
	PlaceholderExcerpts = "_No key excerpts are available for this chapter._"
	PlaceholderClaims   = "_No core claims could be grounded for this chapter._"
)

// Document is a parsed draft.
type Document struct {
	Title    string // Optional level-1 heading
	Preamble []string
	Chapters []Chapter
}

// Chapter is one level-2 chapter of a draft.
type Chapter struct {
	Index int
	Title string

	Prose        []string  // Prose paragraphs, reserved sections excluded
	Excerpts     []Excerpt // Parsed Key Excerpts entries
	ExcerptLines []string  // Raw body lines of the Key Excerpts section
	Claims       []Claim   // Parsed Core Claims entries
	ClaimLines   []string  // Raw body lines of the Core Claims section

	HasExcerptSection bool
	HasClaimSection   bool
}

// Excerpt is one Key Excerpts entry.
type Excerpt struct {
	Quote   string
	Speaker string
	Raw     string
}

// Claim is one Core Claims bullet: a claim statement plus its quoted
// evidence.
type Claim struct {
	Title    string
	Evidence string // Quoted supporting text, empty if none present
	Raw      string
}

var (
	chapterRe  = regexp.MustCompile(`^##\s+(?:Chapter\s+)?(\d+)[.:]?\s*(.*)$`)
	excerptsRe = regexp.MustCompile(`^###\s+Key Excerpts\s*$`)
	claimsRe   = regexp.MustCompile(`^###\s+Core Claims\s*$`)
	h3Re       = regexp.MustCompile(`^###\s+`)
	quotedRe   = regexp.MustCompile(`"([^"]+)"`)
	speakerRe  = regexp.MustCompile(`[-—]\s*\*{0,2}([A-Z][\w .'()]*?)\*{0,2}\s*$`)
	claimRe    = regexp.MustCompile(`^[-*]\s+\*\*(.+?)\*\*\s*[:.]?\s*(.*)$`)
)

// IsPlaceholder reports whether a line is one of the designated fallback
// placeholder sentences.
func IsPlaceholder(line string) bool {
	s := strings.TrimSpace(line)
	return s == PlaceholderExcerpts || s == PlaceholderClaims
}
