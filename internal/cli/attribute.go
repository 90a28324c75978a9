package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/veriscript/veriscript/internal/attribution"
	"github.com/veriscript/veriscript/internal/pipeline"
)

var (
	attributeGuest string
	attributeHost  string
	attributeOut   string
)

// attributeCmd represents the attribute command
var attributeCmd = &cobra.Command{
	Use:   "attribute <transcript.md>",
	Short: "Re-label caller and clip turns in a transcript",
	Long: `Attribute walks a transcript's dialogue turns and relabels content
spoken by call-in participants or played clips that the raw labels
attribute to the main guest. Caller and clip segments persist until the
host explicitly hands the floor back to the guest by name. Ambiguous
turns keep their original label.

Example:
  veriscript attribute ep42.transcript.md --guest "David Deutsch"
  veriscript attribute ep42.transcript.md --guest "David Deutsch" --out ep42.attributed.md`,
	Args: cobra.ExactArgs(1),
	RunE: runAttribute,
}

func init() {
	rootCmd.AddCommand(attributeCmd)

	attributeCmd.Flags().StringVar(&attributeGuest, "guest", "", "main guest name (required)")
	attributeCmd.Flags().StringVar(&attributeHost, "host", "", "host name (optional)")
	attributeCmd.Flags().StringVar(&attributeOut, "out", "", "output path (default: stdout)")

	_ = attributeCmd.MarkFlagRequired("guest")
}

func runAttribute(cmd *cobra.Command, args []string) error {
	raw, err := readTranscript(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	resolver := attribution.NewResolver(attribution.Options{
		GuestName:         attributeGuest,
		HostName:          attributeHost,
		ShortTurnMaxWords: cfg.Validation.ShortTurnMaxWords,
	})
	out := resolver.ResolveMarkdown(raw)

	if attributeOut == "" {
		fmt.Print(out)
		return nil
	}
	renderer := &pipeline.Renderer{}
	if err := renderer.WriteFile(attributeOut, []byte(out)); err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", attributeOut)
	}
	return nil
}
