package draft

import "strings"

// abbreviations that should not terminate a sentence.
var abbreviations = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "dr": true, "prof": true,
	"st": true, "vs": true, "etc": true, "e.g": true, "i.e": true,
}

// SplitSentences splits prose text into sentences. Simple terminator
// heuristic with abbreviation lookahead; good enough for enforcement and
// validation over generated prose, which is well-formed by construction.
func SplitSentences(text string) []string {
	text = strings.ReplaceAll(text, "\n", " ")

	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)

		if r != '.' && r != '!' && r != '?' {
			continue
		}
		// Terminator must be followed by whitespace or end of text.
		if i+1 < len(runes) && runes[i+1] != ' ' && runes[i+1] != '\t' {
			continue
		}
		if r == '.' && endsWithAbbreviation(current.String()) {
			continue
		}

		if s := strings.TrimSpace(current.String()); s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

func endsWithAbbreviation(s string) bool {
	s = strings.TrimSuffix(strings.TrimSpace(s), ".")
	idx := strings.LastIndexAny(s, " \t")
	word := strings.ToLower(s[idx+1:])
	return abbreviations[word]
}
