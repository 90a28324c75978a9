package validate

import (
	"strings"

	"github.com/veriscript/veriscript/internal/canon"
	"github.com/veriscript/veriscript/internal/draft"
	"github.com/veriscript/veriscript/internal/model"
)

// CheckGroundedness verifies that every Key Excerpts quote and every Core
// Claims evidence quote is a normalized substring of the canonical
// transcript. Matching is canonicalization-insensitive, so curly quotes and
// collapsed whitespace in the draft do not cause false misses.
//
// Verdict policy per category: PASS only at rate 1.0; strict mode fails on
// any miss, tolerant mode warns on a single miss and fails beyond that. The
// overall verdict is the worse of the two categories.
func CheckGroundedness(doc *draft.Document, transcript string, strict bool) *model.GroundednessReport {
	normTranscript := canon.Canonicalize(transcript)

	var excerptTotal int
	var excerptMissing []string
	for _, ch := range doc.Chapters {
		for _, e := range ch.Excerpts {
			excerptTotal++
			if !foundIn(normTranscript, e.Quote) {
				excerptMissing = append(excerptMissing, e.Quote)
			}
		}
	}

	var claimTotal int
	var claimMissing []string
	for _, ch := range doc.Chapters {
		for _, cl := range ch.Claims {
			claimTotal++
			if cl.Evidence == "" {
				claimMissing = append(claimMissing, cl.Title)
				continue
			}
			if !foundIn(normTranscript, cl.Evidence) {
				claimMissing = append(claimMissing, cl.Evidence)
			}
		}
	}

	excerpts := model.ProvenanceReport{
		Total:   excerptTotal,
		Found:   excerptTotal - len(excerptMissing),
		Rate:    rate(excerptTotal, len(excerptMissing)),
		Verdict: categoryVerdict(excerptTotal, len(excerptMissing), strict),
		Missing: excerptMissing,
	}
	claims := model.ClaimSupportReport{
		Total:        claimTotal,
		WithEvidence: claimTotal - len(claimMissing),
		Rate:         rate(claimTotal, len(claimMissing)),
		Verdict:      categoryVerdict(claimTotal, len(claimMissing), strict),
		Missing:      claimMissing,
	}

	return &model.GroundednessReport{
		OverallVerdict:    excerpts.Verdict.Worse(claims.Verdict),
		ExcerptProvenance: excerpts,
		ClaimSupport:      claims,
	}
}

func foundIn(normTranscript, quote string) bool {
	nq := canon.Canonicalize(quote)
	if nq == "" {
		return false
	}
	return strings.Contains(normTranscript, nq)
}

func rate(total, missing int) float64 {
	if total == 0 {
		return 1.0
	}
	return float64(total-missing) / float64(total)
}

func categoryVerdict(total, missing int, strict bool) model.Verdict {
	if total == 0 || missing == 0 {
		return model.VerdictPass
	}
	if strict {
		return model.VerdictFail
	}
	if missing <= 1 {
		return model.VerdictWarn
	}
	return model.VerdictFail
}
