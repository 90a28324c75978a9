package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/veriscript/veriscript/internal/draft"
	"github.com/veriscript/veriscript/internal/model"
	"github.com/veriscript/veriscript/internal/pipeline"
	"github.com/veriscript/veriscript/internal/validate"
	"github.com/veriscript/veriscript/internal/worker"
)

var (
	groundDraft      string
	groundTranscript string
	groundStrict     bool
	groundTolerant   bool
	groundCI         bool
	groundJSON       string
)

// groundCmd represents the ground command
var groundCmd = &cobra.Command{
	Use:   "ground [dir]",
	Short: "Check that every quote in a draft exists in its transcript",
	Long: `Ground runs the groundedness checker: every Key Excerpts quote and
every Core Claims evidence quote must be a normalized substring of the
canonical transcript.

Give either a single pair with --draft and --transcript, or a directory of
<stem>.transcript.md / <stem>.draft.md pairs.

Strict mode fails on any missing quote; tolerant mode (the default) warns
on a single miss and fails beyond that. With --ci the command exits
non-zero on a FAIL verdict.

Example:
  veriscript ground --draft book.draft.md --transcript book.transcript.md
  veriscript ground ./corpus --strict --ci`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGround,
}

func init() {
	rootCmd.AddCommand(groundCmd)

	groundCmd.Flags().StringVar(&groundDraft, "draft", "", "draft markdown path")
	groundCmd.Flags().StringVar(&groundTranscript, "transcript", "", "transcript markdown path")
	groundCmd.Flags().BoolVar(&groundStrict, "strict", false, "fail on any missing quote")
	groundCmd.Flags().BoolVar(&groundTolerant, "tolerant", false, "warn on a single miss (default policy)")
	groundCmd.Flags().BoolVar(&groundCI, "ci", false, "exit non-zero on FAIL verdict")
	groundCmd.Flags().StringVar(&groundJSON, "json", "", "output JSON path (default: stdout)")
}

func runGround(cmd *cobra.Command, args []string) error {
	if groundStrict && groundTolerant {
		return fmt.Errorf("--strict and --tolerant are mutually exclusive")
	}

	single := groundDraft != "" || groundTranscript != ""
	if single && len(args) > 0 {
		return fmt.Errorf("give either --draft/--transcript or a directory, not both")
	}
	if single {
		if groundDraft == "" || groundTranscript == "" {
			return fmt.Errorf("--draft and --transcript must be given together")
		}
		return groundPair()
	}
	if len(args) == 0 {
		return fmt.Errorf("give a directory or a --draft/--transcript pair")
	}
	return groundDir(args[0])
}

func groundPair() error {
	draftData, err := os.ReadFile(groundDraft)
	if err != nil {
		return fmt.Errorf("read draft: %w", err)
	}
	transcript, err := readTranscript(groundTranscript)
	if err != nil {
		return err
	}

	doc := draft.Parse(string(draftData))
	rep := validate.CheckGroundedness(doc, transcript, groundStrict)

	renderer := &pipeline.Renderer{}
	data, err := renderer.GroundednessJSON(rep)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	if groundJSON != "" {
		if err := renderer.WriteFile(groundJSON, data); err != nil {
			return err
		}
	} else {
		fmt.Println(string(data))
	}

	if groundCI && rep.OverallVerdict == model.VerdictFail {
		return fmt.Errorf("groundedness check failed: %d excerpt misses, %d claim misses",
			len(rep.ExcerptProvenance.Missing), len(rep.ClaimSupport.Missing))
	}
	return nil
}

func groundDir(dir string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	verifier := pipeline.NewVerifier(cfg, groundStrict)
	batch := worker.NewBatchProcessor(verifier, cfg.Concurrency.Workers)

	reports, err := batch.ProcessDir(ctx, dir)
	if err != nil {
		return fmt.Errorf("ground failed: %w", err)
	}

	failed := 0
	for _, rep := range reports {
		verdict := model.VerdictFail
		switch {
		case rep.Error != "":
			fmt.Printf("%-30s ERROR  %s\n", rep.Name, rep.Error)
		case rep.Groundedness != nil:
			verdict = rep.Groundedness.OverallVerdict
			fmt.Printf("%-30s %-5s  excerpts %.3f, claims %.3f\n",
				rep.Name, verdict, rep.Groundedness.ExcerptProvenance.Rate, rep.Groundedness.ClaimSupport.Rate)
		}
		if rep.Error != "" || verdict == model.VerdictFail {
			failed++
		}
	}
	fmt.Printf("\n%d documents, %d failed\n", len(reports), failed)

	if groundCI && failed > 0 {
		return fmt.Errorf("groundedness check failed for %d documents", failed)
	}
	return nil
}
