package validate

import "strings"

// DefinitionalCandidate picks the sentence a chapter's key-ideas coverage
// should anchor on. Keywords are an ordered priority list: the first keyword
// with any matching sentence wins, and among its matches the earliest
// sentence is chosen. Tuned per corpus, not a general algorithm.
func DefinitionalCandidate(sentences, keywords []string) (string, bool) {
	for _, kw := range keywords {
		lkw := strings.ToLower(kw)
		for _, s := range sentences {
			if strings.Contains(strings.ToLower(s), lkw) {
				return s, true
			}
		}
	}
	return "", false
}
