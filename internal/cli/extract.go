package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/veriscript/veriscript/internal/cache"
	"github.com/veriscript/veriscript/internal/canon"
	"github.com/veriscript/veriscript/internal/extract"
	"github.com/veriscript/veriscript/internal/llm"
	"github.com/veriscript/veriscript/internal/model"
	"github.com/veriscript/veriscript/internal/pipeline"
	"github.com/veriscript/veriscript/internal/worker"
)

var (
	extractTranscript string
	extractPlan       string
	extractMode       string
	extractProvider   string
	extractModel      string
	extractJSON       string
	extractNoCache    bool
	extractTimeout    time.Duration
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract the evidence map for a transcript and chapter plan",
	Long: `Extract calls the generation service once per planned chapter and
locates every returned quote in the canonical transcript. Claims whose
quotes cannot be located are dropped; a failed chapter degrades to empty
evidence and is reported as a warning.

Results are cached by canonical transcript hash and content mode, so
re-running on an unchanged transcript is free.

Example:
  veriscript extract --transcript ep42.transcript.md --plan ep42.plan.yaml
  veriscript extract --transcript ep42.transcript.md --plan ep42.plan.yaml --provider ollama --mode essay`,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(&extractTranscript, "transcript", "", "transcript markdown path (required)")
	extractCmd.Flags().StringVar(&extractPlan, "plan", "", "chapter plan YAML path (required)")
	extractCmd.Flags().StringVar(&extractMode, "mode", "interview", "content mode (interview, essay, tutorial)")
	extractCmd.Flags().StringVar(&extractProvider, "provider", "openai", "generation provider (openai, ollama)")
	extractCmd.Flags().StringVar(&extractModel, "model", "gpt-4o-mini", "generation model name")
	extractCmd.Flags().StringVar(&extractJSON, "json", "evidence.json", "output JSON path")
	extractCmd.Flags().BoolVar(&extractNoCache, "no-cache", false, "disable cache (force fresh extraction)")
	extractCmd.Flags().DurationVar(&extractTimeout, "timeout", 5*time.Minute, "overall extraction timeout")

	_ = extractCmd.MarkFlagRequired("transcript")
	_ = extractCmd.MarkFlagRequired("plan")
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), extractTimeout)
	defer cancel()

	mode, err := model.ParseContentMode(extractMode)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Extraction.ContentMode = mode
	cfg.LLM.Provider = extractProvider
	cfg.LLM.Model = extractModel
	cfg.Cache.Enabled = cfg.Cache.Enabled && !extractNoCache

	// API keys come from the environment, never from config files.
	switch extractProvider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "ollama":
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	raw, err := readTranscript(extractTranscript)
	if err != nil {
		return err
	}
	transcript := canon.Freeze(raw)

	plan, err := extract.LoadPlan(extractPlan)
	if err != nil {
		return err
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return err
	}
	if provider == nil {
		return fmt.Errorf("no generation provider configured")
	}

	var store cache.Cache
	if cfg.Cache.Enabled {
		store = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	limiter := worker.NewLimiter(cfg.Concurrency.RequestsPerSecond, cfg.Concurrency.BurstSize)
	extractor := extract.NewExtractor(provider, limiter, cfg.Extraction)
	service := pipeline.NewEvidenceService(extractor, store, cfg)

	if verbose {
		fmt.Fprintf(os.Stderr, "Transcript hash: %s\n", transcript.Hash)
		fmt.Fprintf(os.Stderr, "Chapters: %d\n\n", len(plan.Chapters))
	}

	em, degraded, cached, err := service.Evidence(ctx, plan, transcript)
	if err != nil {
		return fmt.Errorf("extract failed: %w", err)
	}
	for _, d := range degraded {
		fmt.Fprintf(os.Stderr, "warning: %v\n", d)
	}
	if verbose && cached {
		fmt.Fprintln(os.Stderr, "✓ Served from cache")
	}

	data, err := json.MarshalIndent(em, "", "  ")
	if err != nil {
		return fmt.Errorf("render evidence map: %w", err)
	}
	renderer := &pipeline.Renderer{}
	if err := renderer.WriteFile(extractJSON, data); err != nil {
		return err
	}

	claims := 0
	for _, ch := range em.Chapters {
		claims += len(ch.Claims)
	}
	fmt.Printf("✓ %d claims across %d chapters -> %s\n", claims, len(em.Chapters), extractJSON)

	return nil
}
