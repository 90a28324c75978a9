package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/veriscript/veriscript/internal/gate"
	"github.com/veriscript/veriscript/internal/model"
	"github.com/veriscript/veriscript/internal/pipeline"
	"github.com/veriscript/veriscript/internal/worker"
)

var (
	evalJSON        string
	evalMD          string
	evalConcurrency int
	evalTimeout     time.Duration
	evalNoFooter    bool
	evalSpeakers    []string
)

// evalCmd represents the eval command
var evalCmd = &cobra.Command{
	Use:   "eval <dir>",
	Short: "Verify a corpus of transcript/draft pairs and run the gate",
	Long: `Eval scans a directory for <stem>.transcript.md and <stem>.draft.md
pairs, verifies every pair concurrently, and aggregates the per-document
reports into a corpus verdict.

A document failure (unreadable file, malformed draft) is isolated into its
report; the rest of the corpus still runs. The command exits non-zero when
the gate records a P0 structural failure.

Example:
  veriscript eval ./corpus
  veriscript eval ./corpus --json report.json --md report.md
  veriscript eval ./corpus --speaker "David Deutsch" --concurrency 8`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().StringVar(&evalJSON, "json", "report.json", "output JSON path")
	evalCmd.Flags().StringVar(&evalMD, "md", "", "output Markdown path (optional)")
	evalCmd.Flags().IntVar(&evalConcurrency, "concurrency", 0, "worker count (default: config value)")
	evalCmd.Flags().DurationVar(&evalTimeout, "timeout", 10*time.Minute, "overall run timeout")
	evalCmd.Flags().BoolVar(&evalNoFooter, "no-footer", false, "disable footer in Markdown reports")
	evalCmd.Flags().StringArrayVar(&evalSpeakers, "speaker", nil, "known speaker name (repeatable, first is the main guest)")
}

func runEval(cmd *cobra.Command, args []string) error {
	dir := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), evalTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(evalSpeakers) > 0 {
		cfg.Enforcement.KnownSpeakers = evalSpeakers
	}
	if evalConcurrency > 0 {
		cfg.Concurrency.Workers = evalConcurrency
	}
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !evalNoFooter

	if verbose {
		fmt.Fprintf(os.Stderr, "Corpus: %s\n", dir)
		fmt.Fprintf(os.Stderr, "Workers: %d\n\n", cfg.Concurrency.Workers)
	}

	verifier := pipeline.NewVerifier(cfg, false)
	batch := worker.NewBatchProcessor(verifier, cfg.Concurrency.Workers)

	reports, err := batch.ProcessDir(ctx, dir)
	if err != nil {
		return fmt.Errorf("eval failed: %w", err)
	}
	corpus := gate.Evaluate(reports, cfg.Thresholds)

	renderer := &pipeline.Renderer{IncludeFooter: cfg.Output.IncludeFooter}
	if evalJSON != "" {
		data, err := renderer.JSON(corpus)
		if err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if err := renderer.WriteFile(evalJSON, data); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", evalJSON)
		}
	}
	if evalMD != "" {
		if err := renderer.WriteFile(evalMD, []byte(renderer.Markdown(corpus))); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", evalMD)
		}
	}

	fmt.Print(renderer.Summary(corpus))

	for _, v := range corpus.ThresholdViolations {
		if v.Severity == model.SeverityP0 {
			return fmt.Errorf("corpus gate failed: %s", v.Detail)
		}
	}
	return nil
}
