package pipeline

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/veriscript/veriscript/internal/model"
)

func sampleCorpusReport() *model.CorpusReport {
	return &model.CorpusReport{
		GeneratedAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		DocumentCount:  2,
		AvgExcerptRate: 0.95,
		AvgClaimRate:   1.0,
		TopDropReasons: map[string]int{"person_name": 3},
		ThresholdViolations: []model.Violation{
			{Rule: "excerpt_provenance_rate", Severity: model.SeverityP2, Detail: "0.950 < 0.980"},
		},
		OverallVerdict: model.VerdictWarn,
		Documents: []model.DocumentReport{
			{Name: "a", StructuralPass: true, ProvenanceRate: 1.0},
			{Name: "b", StructuralPass: false, SentencesDropped: 3, ProvenanceRate: 0.9},
		},
	}
}

func TestRenderer_JSONRoundTrips(t *testing.T) {
	r := &Renderer{}
	data, err := r.JSON(sampleCorpusReport())
	if err != nil {
		t.Fatal(err)
	}

	var back model.CorpusReport
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("rendered JSON must parse: %v", err)
	}
	if back.OverallVerdict != model.VerdictWarn || back.DocumentCount != 2 {
		t.Errorf("round trip lost fields: %+v", back)
	}
}

func TestRenderer_Markdown(t *testing.T) {
	r := &Renderer{IncludeFooter: true}
	md := r.Markdown(sampleCorpusReport())

	for _, want := range []string{
		"Verdict: **WARN**",
		"person_name: 3",
		"excerpt_provenance_rate",
		"| b | FAIL | 3 |",
		reportFooter,
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}

	bare := (&Renderer{}).Markdown(sampleCorpusReport())
	if strings.Contains(bare, reportFooter) {
		t.Error("footer must be opt-in")
	}
}

func TestRenderer_Summary(t *testing.T) {
	s := (&Renderer{}).Summary(sampleCorpusReport())
	if !strings.Contains(s, "verdict: WARN") {
		t.Errorf("summary missing verdict:\n%s", s)
	}
	if !strings.Contains(s, "2 documents verified") {
		t.Errorf("summary missing counts:\n%s", s)
	}
}
