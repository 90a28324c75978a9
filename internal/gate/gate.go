// Package gate aggregates per-document verification reports into a corpus
// verdict. The gate is the ship/no-ship decision: it compares corpus-level
// aggregates against configured thresholds and ranks the breaches.
package gate

import (
	"fmt"
	"sort"
	"time"

	"github.com/veriscript/veriscript/internal/model"
)

// Gate rule names reported in threshold violations.
const (
	RuleFailedDocuments = "failed_documents"
	RuleWarnDocuments   = "warn_documents"
	RuleFallbackRatio   = "fallback_ratio"
	RuleExcerptRate     = "excerpt_provenance_rate"
	RuleClaimRate       = "claim_support_rate"
	RuleP10ProseWords   = "p10_prose_words"
)

// Evaluate builds the corpus report: aggregates, ranked threshold
// violations, and the overall verdict. The verdict is FAIL exactly when at
// least one fail-level breach occurred, WARN exactly when there are only
// warn-level breaches, and PASS otherwise.
func Evaluate(docs []model.DocumentReport, th model.Thresholds) *model.CorpusReport {
	rep := &model.CorpusReport{
		GeneratedAt:   time.Now().UTC(),
		Documents:     docs,
		DocumentCount: len(docs),
	}
	if len(docs) == 0 {
		rep.OverallVerdict = model.VerdictPass
		return rep
	}

	aggregate(rep)
	rep.ThresholdViolations = thresholdViolations(rep, th)

	failCount, warnCount := 0, 0
	for _, v := range rep.ThresholdViolations {
		if v.Severity == model.SeverityP2 {
			warnCount++
		} else {
			failCount++
		}
	}
	switch {
	case failCount > 0:
		rep.OverallVerdict = model.VerdictFail
	case warnCount > 0:
		rep.OverallVerdict = model.VerdictWarn
	default:
		rep.OverallVerdict = model.VerdictPass
	}

	return rep
}

func aggregate(rep *model.CorpusReport) {
	var dropSum, fallbackSum, excerptSum, claimSum float64
	var dropN, fallbackN, groundedN int
	var chapterWords []int

	rep.TopDropReasons = map[string]int{}

	for _, d := range rep.Documents {
		if d.Error != "" {
			rep.FailedDocuments++
			continue
		}

		if d.SentenceCount > 0 {
			dropSum += float64(d.SentencesDropped) / float64(d.SentenceCount)
			dropN++
		}
		if d.ChapterCount > 0 {
			fallbackSum += float64(d.ChaptersWithFallback) / float64(d.ChapterCount)
			fallbackN++
		}
		if g := d.Groundedness; g != nil {
			excerptSum += g.ExcerptProvenance.Rate
			claimSum += g.ClaimSupport.Rate
			groundedN++
		}
		chapterWords = append(chapterWords, d.ChapterProseWords...)
		for reason, n := range d.DropReasons {
			rep.TopDropReasons[reason] += n
		}
	}

	if dropN > 0 {
		rep.AvgDropRatio = dropSum / float64(dropN)
	}
	if fallbackN > 0 {
		rep.AvgFallbackRatio = fallbackSum / float64(fallbackN)
	}
	if groundedN > 0 {
		rep.AvgExcerptRate = excerptSum / float64(groundedN)
		rep.AvgClaimRate = claimSum / float64(groundedN)
	} else {
		rep.AvgExcerptRate = 1.0
		rep.AvgClaimRate = 1.0
	}
	rep.P10ProseWords = percentile10(chapterWords)
	if len(rep.TopDropReasons) == 0 {
		rep.TopDropReasons = nil
	}
}

func thresholdViolations(rep *model.CorpusReport, th model.Thresholds) []model.Violation {
	var out []model.Violation

	failDocs := rep.FailedDocuments
	warnDocs := 0
	for _, d := range rep.Documents {
		if d.Error != "" {
			continue
		}
		if !d.StructuralPass || (d.Groundedness != nil && d.Groundedness.OverallVerdict == model.VerdictFail) {
			failDocs++
		} else if d.Groundedness != nil && d.Groundedness.OverallVerdict == model.VerdictWarn {
			warnDocs++
		}
	}

	if failDocs > th.MaxFailDocuments {
		out = append(out, model.Violation{
			Rule:     RuleFailedDocuments,
			Severity: model.SeverityP0,
			Detail:   fmt.Sprintf("%d documents failed (max %d)", failDocs, th.MaxFailDocuments),
		})
	}
	if warnDocs > th.MaxWarnDocuments {
		out = append(out, model.Violation{
			Rule:     RuleWarnDocuments,
			Severity: model.SeverityP2,
			Detail:   fmt.Sprintf("%d documents warned (max %d)", warnDocs, th.MaxWarnDocuments),
		})
	}

	switch {
	case th.FallbackRatioFail > 0 && rep.AvgFallbackRatio >= th.FallbackRatioFail:
		out = append(out, model.Violation{
			Rule:     RuleFallbackRatio,
			Severity: model.SeverityP1,
			Detail:   fmt.Sprintf("fallback ratio %.3f >= %.3f", rep.AvgFallbackRatio, th.FallbackRatioFail),
		})
	case th.FallbackRatioWarn > 0 && rep.AvgFallbackRatio >= th.FallbackRatioWarn:
		out = append(out, model.Violation{
			Rule:     RuleFallbackRatio,
			Severity: model.SeverityP2,
			Detail:   fmt.Sprintf("fallback ratio %.3f >= %.3f", rep.AvgFallbackRatio, th.FallbackRatioWarn),
		})
	}

	out = append(out, rateViolations(RuleExcerptRate, rep.AvgExcerptRate, th.ExcerptRateWarn, th.ExcerptRateFail)...)
	out = append(out, rateViolations(RuleClaimRate, rep.AvgClaimRate, th.ClaimRateWarn, th.ClaimRateFail)...)

	if th.MinP10ProseWords > 0 && rep.P10ProseWords > 0 && rep.P10ProseWords < th.MinP10ProseWords {
		out = append(out, model.Violation{
			Rule:     RuleP10ProseWords,
			Severity: model.SeverityP2,
			Detail:   fmt.Sprintf("p10 prose words per chapter %.0f < %.0f", rep.P10ProseWords, th.MinP10ProseWords),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return severityRank(out[i].Severity) < severityRank(out[j].Severity)
	})
	return out
}

func rateViolations(rule string, rate, warn, fail float64) []model.Violation {
	switch {
	case fail > 0 && rate < fail:
		return []model.Violation{{
			Rule:     rule,
			Severity: model.SeverityP1,
			Detail:   fmt.Sprintf("%s %.3f < %.3f", rule, rate, fail),
		}}
	case warn > 0 && rate < warn:
		return []model.Violation{{
			Rule:     rule,
			Severity: model.SeverityP2,
			Detail:   fmt.Sprintf("%s %.3f < %.3f", rule, rate, warn),
		}}
	}
	return nil
}

func severityRank(s model.Severity) int {
	switch s {
	case model.SeverityP0:
		return 0
	case model.SeverityP1:
		return 1
	default:
		return 2
	}
}

// percentile10 is the nearest-rank 10th percentile.
func percentile10(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]int(nil), values...)
	sort.Ints(sorted)
	idx := (len(sorted) - 1) / 10
	return float64(sorted[idx])
}
