package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/veriscript/veriscript/internal/model"
)

const reportFooter = "Generated by veriscript."

// Renderer formats corpus and groundedness reports.
type Renderer struct {
	IncludeFooter bool
}

// JSON renders a corpus report as indented JSON.
func (r *Renderer) JSON(rep *model.CorpusReport) ([]byte, error) {
	return json.MarshalIndent(rep, "", "  ")
}

// GroundednessJSON renders a single groundedness report as indented JSON.
func (r *Renderer) GroundednessJSON(g *model.GroundednessReport) ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}

// Markdown renders the corpus report for humans.
func (r *Renderer) Markdown(rep *model.CorpusReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Corpus Verification Report\n\n")
	fmt.Fprintf(&b, "Verdict: **%s**\n\n", rep.OverallVerdict)
	fmt.Fprintf(&b, "Generated: %s\n\n", rep.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))

	fmt.Fprintf(&b, "## Aggregates\n\n")
	fmt.Fprintf(&b, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Documents | %d |\n", rep.DocumentCount)
	fmt.Fprintf(&b, "| Failed documents | %d |\n", rep.FailedDocuments)
	fmt.Fprintf(&b, "| Avg drop ratio | %.3f |\n", rep.AvgDropRatio)
	fmt.Fprintf(&b, "| Avg fallback ratio | %.3f |\n", rep.AvgFallbackRatio)
	fmt.Fprintf(&b, "| Avg excerpt provenance | %.3f |\n", rep.AvgExcerptRate)
	fmt.Fprintf(&b, "| Avg claim support | %.3f |\n", rep.AvgClaimRate)
	fmt.Fprintf(&b, "| P10 prose words/chapter | %.0f |\n\n", rep.P10ProseWords)

	if len(rep.TopDropReasons) > 0 {
		fmt.Fprintf(&b, "## Top drop reasons\n\n")
		for _, reason := range sortedKeys(rep.TopDropReasons) {
			fmt.Fprintf(&b, "- %s: %d\n", reason, rep.TopDropReasons[reason])
		}
		b.WriteString("\n")
	}

	if len(rep.ThresholdViolations) > 0 {
		fmt.Fprintf(&b, "## Threshold violations\n\n")
		for _, v := range rep.ThresholdViolations {
			fmt.Fprintf(&b, "- **%s** %s: %s\n", v.Severity, v.Rule, v.Detail)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Documents\n\n")
	fmt.Fprintf(&b, "| Name | Structural | Dropped | Provenance | Error |\n|---|---|---|---|---|\n")
	for _, d := range rep.Documents {
		structural := "pass"
		if !d.StructuralPass {
			structural = "FAIL"
		}
		fmt.Fprintf(&b, "| %s | %s | %d | %.3f | %s |\n",
			d.Name, structural, d.SentencesDropped, d.ProvenanceRate, d.Error)
	}

	if r.IncludeFooter {
		fmt.Fprintf(&b, "\n---\n%s\n", reportFooter)
	}

	return b.String()
}

// Summary renders the short stdout summary.
func (r *Renderer) Summary(rep *model.CorpusReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%d documents verified, %d failed\n", rep.DocumentCount, rep.FailedDocuments)
	fmt.Fprintf(&b, "excerpt provenance %.3f, claim support %.3f, drop ratio %.3f\n",
		rep.AvgExcerptRate, rep.AvgClaimRate, rep.AvgDropRatio)
	for _, v := range rep.ThresholdViolations {
		fmt.Fprintf(&b, "  [%s] %s: %s\n", v.Severity, v.Rule, v.Detail)
	}
	fmt.Fprintf(&b, "verdict: %s\n", rep.OverallVerdict)

	return b.String()
}

// WriteFile writes report output, creating parent directories as needed.
func (r *Renderer) WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Highest count first, name as tiebreak.
	sort.Slice(keys, func(i, j int) bool {
		if m[keys[i]] != m[keys[j]] {
			return m[keys[i]] > m[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}
