package worker

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/veriscript/veriscript/internal/model"
)

type fakeVerifier struct{}

func (fakeVerifier) Verify(ctx context.Context, name, transcript, draft string) model.DocumentReport {
	if strings.Contains(transcript, "EXPLODE") {
		return model.DocumentReport{Name: name, Error: "verification blew up"}
	}
	return model.DocumentReport{Name: name, StructuralPass: true, ProvenanceRate: 1.0}
}

func writeCorpus(t *testing.T, dir string, stems map[string]string) {
	t.Helper()
	for stem, transcript := range stems {
		if err := os.WriteFile(filepath.Join(dir, stem+".transcript.md"), []byte(transcript), 0644); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, stem+".draft.md"), []byte("## Chapter 1: X\n\nProse.\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestDiscoverPairs(t *testing.T) {
	dir := t.TempDir()
	writeCorpus(t, dir, map[string]string{"alpha": "a", "beta": "b"})
	// Orphan transcript without a draft: skipped.
	if err := os.WriteFile(filepath.Join(dir, "orphan.transcript.md"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	pairs, err := DiscoverPairs(dir)
	if err != nil {
		t.Fatalf("DiscoverPairs: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(pairs))
	}
	if pairs[0].Name != "alpha" || pairs[1].Name != "beta" {
		t.Errorf("pairs not sorted by stem: %v", pairs)
	}
}

func TestBatchProcessor_IsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	writeCorpus(t, dir, map[string]string{
		"bad":  "EXPLODE",
		"good": "fine transcript",
	})

	b := NewBatchProcessor(fakeVerifier{}, 2)
	reports, err := b.ProcessDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("ProcessDir: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}

	// Deterministic order by name.
	if reports[0].Name != "bad" || reports[1].Name != "good" {
		t.Fatalf("unexpected order: %s, %s", reports[0].Name, reports[1].Name)
	}
	if reports[0].Error == "" {
		t.Error("bad document must record its failure")
	}
	if reports[1].Error != "" || !reports[1].StructuralPass {
		t.Error("good document must be unaffected by the bad one")
	}
}
