package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/veriscript/veriscript/internal/draft"
	"github.com/veriscript/veriscript/internal/pipeline"
)

var (
	scrubTranscript string
	scrubSpeakers   []string
	scrubOut        string
)

// scrubCmd represents the scrub command
var scrubCmd = &cobra.Command{
	Use:   "scrub <draft.md>",
	Short: "Remove blacklisted person names from a draft's prose",
	Long: `Scrub enforces the quote whitelist on a draft: prose sentences naming
a blacklisted person are dropped unless an allowlisted organization or
product also appears in them. Key Excerpts and Core Claims are never
touched.

The whitelist is compiled from the transcript and the known speakers.

Example:
  veriscript scrub book.draft.md --transcript book.transcript.md --speaker "David Deutsch"`,
	Args: cobra.ExactArgs(1),
	RunE: runScrub,
}

func init() {
	rootCmd.AddCommand(scrubCmd)

	scrubCmd.Flags().StringVar(&scrubTranscript, "transcript", "", "transcript markdown path (required)")
	scrubCmd.Flags().StringArrayVar(&scrubSpeakers, "speaker", nil, "known speaker name (repeatable, first is the main guest)")
	scrubCmd.Flags().StringVar(&scrubOut, "out", "", "output path (default: stdout)")

	_ = scrubCmd.MarkFlagRequired("transcript")
}

func runScrub(cmd *cobra.Command, args []string) error {
	draftData, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read draft: %w", err)
	}
	transcript, err := readTranscript(scrubTranscript)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(scrubSpeakers) > 0 {
		cfg.Enforcement.KnownSpeakers = scrubSpeakers
	}

	doc := draft.Parse(string(draftData))
	verifier := pipeline.NewVerifier(cfg, false)
	scrubbed, report := verifier.Scrub(args[0], transcript, doc)

	out := draft.Render(scrubbed)
	if scrubOut == "" {
		fmt.Print(out)
	} else {
		renderer := &pipeline.Renderer{}
		if err := renderer.WriteFile(scrubOut, []byte(out)); err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stderr, "%d sentences dropped, %d kept by allowlist\n",
		report.SentencesDropped, report.SentencesKeptByAllowlist)
	for _, d := range report.DropDetails {
		if verbose {
			fmt.Fprintf(os.Stderr, "  [%s] %s\n", d.Type, d.Sentence)
		}
	}

	return nil
}
