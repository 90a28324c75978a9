// Package attribution re-labels dialogue turns in multi-party transcripts.
// A finite-state machine walks the ordered turns; caller and clip segments
// persist until an explicit handoff, so content spoken by a caller or a
// played clip never remains attributed to the main guest.
package attribution

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind is the closed set of turn labels.
type Kind int

const (
	KindUnknown Kind = iota
	KindHost
	KindGuest
	KindCaller
	KindClip
	KindProse // Downgraded heading: plain text, not a turn
)

func (k Kind) String() string {
	switch k {
	case KindHost:
		return "HOST"
	case KindGuest:
		return "GUEST"
	case KindCaller:
		return "CALLER"
	case KindClip:
		return "CLIP"
	case KindProse:
		return "PROSE"
	default:
		return "UNKNOWN"
	}
}

// Turn is one unit of the transcript: a labeled speaker turn, a structural
// heading, or (after downgrading) plain prose.
type Turn struct {
	Kind    Kind
	Name    string // Caller or clip subject name
	Text    string
	Heading bool   // Structural heading line
	Label   string // Original label text, preserved for unknown labels
}

var (
	labelRe   = regexp.MustCompile(`^\*\*([A-Z][A-Z ]*?)(?:\s*\(([^)]+)\))?:\*\*\s*(.*)$`)
	headingRe = regexp.MustCompile(`^#{2,4}\s+(.*)$`)
)

// ParseTurns splits transcript markdown into ordered turns. Lines under a
// label accumulate into that turn until the next label or heading.
func ParseTurns(markdown string) []Turn {
	var turns []Turn
	var cur *Turn

	flush := func() {
		if cur != nil {
			cur.Text = strings.TrimSpace(cur.Text)
			turns = append(turns, *cur)
			cur = nil
		}
	}

	for _, raw := range strings.Split(markdown, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if m := headingRe.FindStringSubmatch(line); m != nil {
			flush()
			turns = append(turns, Turn{Kind: KindUnknown, Heading: true, Text: strings.TrimSpace(m[1])})
			continue
		}

		if m := labelRe.FindStringSubmatch(line); m != nil {
			flush()
			label := strings.TrimSpace(m[1])
			cur = &Turn{
				Kind:  kindFromLabel(label),
				Name:  strings.TrimSpace(m[2]),
				Label: label,
				Text:  m[3],
			}
			continue
		}

		if cur != nil {
			cur.Text += " " + line
		} else {
			turns = append(turns, Turn{Kind: KindProse, Text: line})
		}
	}

	flush()
	return turns
}

func kindFromLabel(label string) Kind {
	switch label {
	case "HOST":
		return KindHost
	case "GUEST":
		return KindGuest
	case "CALLER":
		return KindCaller
	case "CLIP":
		return KindClip
	default:
		return KindUnknown
	}
}

// Render writes turns back to markdown, one turn per paragraph.
func Render(turns []Turn) string {
	var b strings.Builder

	first := true
	for _, t := range turns {
		if strings.TrimSpace(t.Text) == "" {
			continue
		}
		if !first {
			b.WriteString("\n\n")
		}
		first = false
		switch {
		case t.Heading:
			fmt.Fprintf(&b, "## %s", t.Text)
		case t.Kind == KindProse:
			b.WriteString(t.Text)
		case t.Kind == KindCaller || t.Kind == KindClip:
			fmt.Fprintf(&b, "**%s (%s):** %s", t.Kind, t.Name, t.Text)
		case t.Kind == KindUnknown && t.Label != "":
			// Unrecognized label: left exactly as found.
			fmt.Fprintf(&b, "**%s:** %s", t.Label, t.Text)
		default:
			fmt.Fprintf(&b, "**%s:** %s", t.Kind, t.Text)
		}
	}

	return b.String() + "\n"
}
