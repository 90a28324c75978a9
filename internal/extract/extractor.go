package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/veriscript/veriscript/internal/llm"
	"github.com/veriscript/veriscript/internal/model"
	"github.com/veriscript/veriscript/internal/worker"
	"gopkg.in/yaml.v3"
)

// ChapterPlan describes one planned chapter of the target document.
type ChapterPlan struct {
	Index       int      `yaml:"index" json:"index"`
	Title       string   `yaml:"title" json:"title"`
	Summary     string   `yaml:"summary,omitempty" json:"summary,omitempty"`
	MustInclude []string `yaml:"must_include,omitempty" json:"must_include,omitempty"`
	Forbidden   []string `yaml:"forbidden,omitempty" json:"forbidden,omitempty"`
}

// Plan is a full chapter plan file.
type Plan struct {
	ProjectID string        `yaml:"project_id" json:"project_id"`
	Chapters  []ChapterPlan `yaml:"chapters" json:"chapters"`
}

// LoadPlan reads a chapter plan from a YAML file.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	if len(plan.Chapters) == 0 {
		return nil, fmt.Errorf("plan has no chapters")
	}
	return &plan, nil
}

// Extractor builds evidence maps by calling the generation service once per
// chapter and locating every returned quote in the canonical transcript.
type Extractor struct {
	provider llm.Provider
	limiter  *worker.Limiter
	cfg      model.ExtractionConfig
}

// NewExtractor creates a new evidence extractor. The limiter bounds the
// rate of generation calls; pass nil to disable limiting.
func NewExtractor(provider llm.Provider, limiter *worker.Limiter, cfg model.ExtractionConfig) *Extractor {
	return &Extractor{
		provider: provider,
		limiter:  limiter,
		cfg:      cfg,
	}
}

// rawChapter is the JSON shape requested from the generation service.
type rawChapter struct {
	Claims []rawClaim `json:"claims"`
}

type rawClaim struct {
	Claim      string     `json:"claim"`
	ClaimType  string     `json:"claim_type"`
	Confidence float64    `json:"confidence"`
	Quotes     []rawQuote `json:"quotes"`
}

type rawQuote struct {
	Quote   string `json:"quote"`
	Speaker string `json:"speaker"`
}

const chapterSchema = `{"claims":[{"claim":"string","claim_type":"factual|position|definition|anecdote|prediction|attribution","confidence":0.0,"quotes":[{"quote":"verbatim text from the transcript","speaker":"optional"}]}]}`

// Extract builds the evidence map for a plan. Chapter calls are
// independent and fan out concurrently; a failed or unparseable chapter
// degrades to an empty ChapterEvidence and never aborts the run.
func (e *Extractor) Extract(ctx context.Context, plan *Plan, transcript model.CanonicalTranscript, mode model.ContentMode) (*model.EvidenceMap, []error) {
	locator := NewLocator(transcript, e.cfg)

	chapters := make([]model.ChapterEvidence, len(plan.Chapters))
	errs := make([]error, len(plan.Chapters))

	var wg sync.WaitGroup
	for i, cp := range plan.Chapters {
		wg.Add(1)
		go func(idx int, cp ChapterPlan) {
			defer wg.Done()
			ce, err := e.extractChapter(ctx, locator, transcript, cp, mode)
			chapters[idx] = ce
			errs[idx] = err
		}(i, cp)
	}
	wg.Wait()

	var degraded []error
	for i, err := range errs {
		if err != nil {
			degraded = append(degraded, fmt.Errorf("chapter %d: %w", plan.Chapters[i].Index, err))
		}
	}

	return &model.EvidenceMap{
		ProjectID:      plan.ProjectID,
		ContentMode:    mode,
		TranscriptHash: transcript.Hash,
		Chapters:       chapters,
	}, degraded
}

// extractChapter runs one generation call and locates its quotes. On any
// failure it returns an empty ChapterEvidence along with the error.
func (e *Extractor) extractChapter(ctx context.Context, locator *Locator, transcript model.CanonicalTranscript, cp ChapterPlan, mode model.ContentMode) (model.ChapterEvidence, error) {
	empty := model.ChapterEvidence{
		Index:     cp.Index,
		Title:     cp.Title,
		Forbidden: cp.Forbidden,
	}
	for _, mi := range cp.MustInclude {
		empty.MustInclude = append(empty.MustInclude, model.MustIncludeItem{Text: mi})
	}

	if e.provider == nil {
		return empty, fmt.Errorf("no generation provider configured")
	}

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx, e.provider.Name()); err != nil {
			return empty, err
		}
	}

	resp, err := e.provider.Generate(ctx, llm.Request{
		System:     "You extract claims and verbatim supporting quotes from transcripts. Quotes must be copied exactly from the transcript, never paraphrased.",
		Prompt:     buildChapterPrompt(cp, transcript, mode),
		JSONSchema: chapterSchema,
		MaxTokens:  0, // provider default
	})
	if err != nil {
		return empty, err
	}

	raw, err := parseChapterResponse(resp.Text)
	if err != nil {
		return empty, err
	}

	ce := empty
	for n, rc := range raw.Claims {
		if strings.TrimSpace(rc.Claim) == "" {
			continue
		}

		entry := model.EvidenceEntry{
			ID:         fmt.Sprintf("ch%d-c%d", cp.Index, n+1),
			Claim:      strings.TrimSpace(rc.Claim),
			Confidence: clamp01(rc.Confidence),
			ClaimType:  model.ClaimType(rc.ClaimType),
		}

		max := e.cfg.MaxQuotesPerClaim
		if max <= 0 {
			max = 3
		}
		for _, rq := range rc.Quotes {
			if len(entry.Support) >= max {
				break
			}
			loc, ok := locator.Locate(rq.Quote)
			if !ok {
				continue
			}
			start, end := loc.StartChar, loc.EndChar
			entry.Support = append(entry.Support, model.SupportQuote{
				Quote:     loc.Quote,
				StartChar: &start,
				EndChar:   &end,
				Speaker:   strings.TrimSpace(rq.Speaker),
			})
		}

		// Claims without located support are dropped here, before the
		// evidence map is ever persisted.
		if entry.HasSupport() {
			ce.Claims = append(ce.Claims, entry)
		}
	}

	return ce, nil
}

// buildChapterPrompt assembles the extraction prompt for one chapter.
func buildChapterPrompt(cp ChapterPlan, transcript model.CanonicalTranscript, mode model.ContentMode) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Source material (%s transcript):\n\n%s\n\n", mode, transcript.Text)
	fmt.Fprintf(&b, "Extract the key claims for chapter %d, %q.\n", cp.Index, cp.Title)
	if cp.Summary != "" {
		fmt.Fprintf(&b, "Chapter scope: %s\n", cp.Summary)
	}
	if len(cp.MustInclude) > 0 {
		b.WriteString("The chapter must cover:\n")
		for _, mi := range cp.MustInclude {
			fmt.Fprintf(&b, "- %s\n", mi)
		}
	}
	if len(cp.Forbidden) > 0 {
		b.WriteString("Never include material about:\n")
		for _, f := range cp.Forbidden {
			fmt.Fprintf(&b, "- %s\n", f)
		}
	}
	b.WriteString("\nEvery claim needs 1-3 supporting quotes copied verbatim from the source.")

	return b.String()
}

// parseChapterResponse decodes the generation output, tolerating markdown
// code fences around the JSON body.
func parseChapterResponse(text string) (*rawChapter, error) {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}

	var raw rawChapter
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, fmt.Errorf("unparseable extraction response: %w", err)
	}
	return &raw, nil
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
