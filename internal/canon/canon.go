package canon

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/veriscript/veriscript/internal/model"
	"golang.org/x/text/unicode/norm"
)

// charReplacer maps typographic variants to their canonical ASCII forms.
// Applied after NFC composition so composed forms are covered too.
var charReplacer = strings.NewReplacer(
	"“", `"`, // left double quote
	"”", `"`, // right double quote
	"„", `"`, // low double quote
	"‘", "'", // left single quote
	"’", "'", // right single quote
	"‚", "'", // low single quote
	"—", "-", // em dash
	"–", "-", // en dash
	" ", " ", // non-breaking space
	" ", " ", // narrow non-breaking space
)

var (
	wsRun     = regexp.MustCompile(`\s+`)
	paraBreak = regexp.MustCompile(`\n{2,}`)
	lineWS    = regexp.MustCompile(`[ \t\r\f\v]+`)
)

// Canonicalize produces the flat canonical form of text: NFC composition,
// straight quotes, hyphens for dashes, plain spaces, single-spaced, trimmed.
// Idempotent and total over any input; empty or whitespace-only input
// canonicalizes to the empty string.
func Canonicalize(text string) string {
	s := norm.NFC.String(text)
	s = charReplacer.Replace(s)
	s = wsRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// CanonicalizeStructured is Canonicalize with paragraph breaks preserved:
// runs of two or more newlines become exactly one blank line, single
// newlines collapse to a space.
func CanonicalizeStructured(text string) string {
	s := norm.NFC.String(text)
	s = charReplacer.Replace(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	paras := paraBreak.Split(s, -1)
	out := make([]string, 0, len(paras))
	for _, p := range paras {
		p = strings.ReplaceAll(p, "\n", " ")
		p = lineWS.ReplaceAllString(p, " ")
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n\n")
}

// Hash returns the sha256 hex digest of text as-is.
func Hash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Freeze canonicalizes raw text (structured mode) and pins its hash.
// The result is the coordinate system all quote offsets reference.
func Freeze(raw string) model.CanonicalTranscript {
	text := CanonicalizeStructured(raw)
	return model.CanonicalTranscript{
		Text: text,
		Hash: Hash(text),
	}
}

// Verify recomputes the canonical form of raw and compares hashes.
// Raw-text differences that canonicalize identically (CRLF vs LF, curly vs
// straight quotes) still verify.
func Verify(raw string, hash string) bool {
	return Hash(CanonicalizeStructured(raw)) == hash
}
