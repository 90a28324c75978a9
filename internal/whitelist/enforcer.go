package whitelist

import (
	"github.com/veriscript/veriscript/internal/draft"
	"github.com/veriscript/veriscript/internal/model"
)

// Drop reason types reported in EnforcementReport.DropDetails.
const (
	DropPersonName = "person_name"
)

// Enforce scrubs the prose regions of a draft: any sentence naming a
// blacklisted person is dropped unless an allowlisted entity also appears
// in it. Key Excerpts and Core Claims are never touched - speaker
// attributions there are intentional.
//
// The returned document is a modified copy; the input is left intact.
func Enforce(doc *draft.Document, wl *Whitelist) (*draft.Document, model.EnforcementReport) {
	out := *doc
	out.Chapters = make([]draft.Chapter, len(doc.Chapters))
	copy(out.Chapters, doc.Chapters)

	report := model.EnforcementReport{}

	for i := range out.Chapters {
		ch := &out.Chapters[i]

		var kept []string
		for _, para := range ch.Prose {
			sentences := draft.SplitSentences(para)
			var keptSentences []string

			for _, sentence := range sentences {
				_, flagged := wl.BlacklistedPerson(sentence)
				if !flagged {
					keptSentences = append(keptSentences, sentence)
					continue
				}

				// An allowlisted org/product in the same sentence wins:
				// "He joined Acme Corp" style sentences survive even when
				// mixed with flagged tokens.
				if wl.HasAllowlistedEntity(sentence) {
					report.SentencesKeptByAllowlist++
					keptSentences = append(keptSentences, sentence)
					continue
				}

				report.SentencesDropped++
				report.DropDetails = append(report.DropDetails, model.DropDetail{
					Type:     DropPersonName,
					Sentence: sentence,
				})
			}

			if len(keptSentences) > 0 {
				kept = append(kept, joinSentences(keptSentences))
			}
		}
		ch.Prose = kept
	}

	return &out, report
}

func joinSentences(sentences []string) string {
	out := ""
	for i, s := range sentences {
		if i > 0 {
			out += " "
		}
		out += s
	}
	return out
}
