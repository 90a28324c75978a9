package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/veriscript/veriscript/internal/model"
)

// Verifier verifies one transcript/draft pair. Implementations must isolate
// failures into the report's Error field; a single bad document never
// aborts the batch.
type Verifier interface {
	Verify(ctx context.Context, name, transcript, draft string) model.DocumentReport
}

// DocumentPair is one corpus entry on disk.
type DocumentPair struct {
	Name           string
	TranscriptPath string
	DraftPath      string
}

// VerifyJob runs one document through the verifier.
type VerifyJob struct {
	Pair     DocumentPair
	Verifier Verifier
}

// VerifyResult wraps a document report for the pool.
type VerifyResult struct {
	Report model.DocumentReport
}

// GetError returns nil: per-document failures live inside the report.
func (r *VerifyResult) GetError() error { return nil }

// Execute reads the pair from disk and verifies it.
func (j *VerifyJob) Execute(ctx context.Context) Result {
	transcript, err := os.ReadFile(j.Pair.TranscriptPath)
	if err != nil {
		return &VerifyResult{Report: model.DocumentReport{
			Name:  j.Pair.Name,
			Error: fmt.Sprintf("read transcript: %v", err),
		}}
	}
	draft, err := os.ReadFile(j.Pair.DraftPath)
	if err != nil {
		return &VerifyResult{Report: model.DocumentReport{
			Name:  j.Pair.Name,
			Error: fmt.Sprintf("read draft: %v", err),
		}}
	}

	return &VerifyResult{
		Report: j.Verifier.Verify(ctx, j.Pair.Name, string(transcript), string(draft)),
	}
}

// BatchProcessor verifies a corpus of documents concurrently.
type BatchProcessor struct {
	verifier    Verifier
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(verifier Verifier, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		verifier:    verifier,
		concurrency: concurrency,
	}
}

// ProcessPairs verifies pairs concurrently and returns reports in
// deterministic (name) order.
func (b *BatchProcessor) ProcessPairs(ctx context.Context, pairs []DocumentPair) []model.DocumentReport {
	if len(pairs) == 0 {
		return []model.DocumentReport{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, pair := range pairs {
		pool.Submit(&VerifyJob{Pair: pair, Verifier: b.verifier})
	}

	results := pool.Wait()

	reports := make([]model.DocumentReport, 0, len(results))
	for _, r := range results {
		reports = append(reports, r.(*VerifyResult).Report)
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].Name < reports[j].Name })

	return reports
}

// ProcessDir discovers pairs in a directory and verifies them.
func (b *BatchProcessor) ProcessDir(ctx context.Context, dir string) ([]model.DocumentReport, error) {
	pairs, err := DiscoverPairs(dir)
	if err != nil {
		return nil, fmt.Errorf("discover pairs: %w", err)
	}
	return b.ProcessPairs(ctx, pairs), nil
}

// DiscoverPairs scans a directory for <stem>.transcript.md and
// <stem>.draft.md files and pairs them by stem. A stem with only one half
// is skipped; the caller decides whether that matters.
func DiscoverPairs(dir string) ([]DocumentPair, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	transcripts := make(map[string]string)
	drafts := make(map[string]string)

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".transcript.md"):
			stem := strings.TrimSuffix(name, ".transcript.md")
			transcripts[stem] = filepath.Join(dir, name)
		case strings.HasSuffix(name, ".draft.md"):
			stem := strings.TrimSuffix(name, ".draft.md")
			drafts[stem] = filepath.Join(dir, name)
		}
	}

	var pairs []DocumentPair
	for stem, tpath := range transcripts {
		dpath, ok := drafts[stem]
		if !ok {
			continue
		}
		pairs = append(pairs, DocumentPair{
			Name:           stem,
			TranscriptPath: tpath,
			DraftPath:      dpath,
		})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Name < pairs[j].Name })

	return pairs, nil
}
