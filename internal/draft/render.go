package draft

import (
	"fmt"
	"strings"
)

// Render writes a document back to markdown in the canonical draft layout:
// chapter heading, prose, then the two reserved sub-sections.
func Render(doc *Document) string {
	var b strings.Builder

	if doc.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", doc.Title)
	}
	for _, p := range doc.Preamble {
		b.WriteString(p)
		b.WriteString("\n\n")
	}

	for _, ch := range doc.Chapters {
		if ch.Title != "" {
			fmt.Fprintf(&b, "## Chapter %d: %s\n\n", ch.Index, ch.Title)
		} else {
			fmt.Fprintf(&b, "## Chapter %d\n\n", ch.Index)
		}

		for _, p := range ch.Prose {
			b.WriteString(p)
			b.WriteString("\n\n")
		}

		if ch.HasExcerptSection {
			b.WriteString("### Key Excerpts\n\n")
			writeSectionLines(&b, ch.ExcerptLines, PlaceholderExcerpts)
		}
		if ch.HasClaimSection {
			b.WriteString("### Core Claims\n\n")
			writeSectionLines(&b, ch.ClaimLines, PlaceholderClaims)
		}
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writeSectionLines(b *strings.Builder, lines []string, placeholder string) {
	wrote := false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		b.WriteString(line)
		b.WriteString("\n")
		wrote = true
	}
	if !wrote {
		b.WriteString(placeholder)
		b.WriteString("\n")
	}
	b.WriteString("\n")
}
