package attribution

import (
	"regexp"
	"sort"
	"strings"
)

// state is the FSM state between turns.
type state struct {
	kind Kind
	name string
}

// transition is one row of the data-driven transition table: a pattern, a
// priority, and the state entered when the pattern matches. Patterns with a
// capture group bind the state's name from the match.
type transition struct {
	rule     string
	priority int
	re       *regexp.Regexp
	next     Kind
}

// Caller-intro patterns. Forward-looking only: callers are bound to the
// "in <place>" clause, never to a surname, so a caller whose first name
// collides with the guest's still resolves as a caller.
var callerIntros = []transition{
	{
		rule:     "caller-on-air",
		priority: 10,
		re:       regexp.MustCompile(`\b([A-Z][a-z]+) in [A-Z][A-Za-z .'-]+(?:, [A-Z][A-Za-z .'-]+)*, you'?re on the air`),
		next:     KindCaller,
	},
	{
		rule:     "caller-calling-from",
		priority: 11,
		re:       regexp.MustCompile(`\b([A-Z][a-z]+) is calling (?:us )?from\b`),
		next:     KindCaller,
	},
}

// Clip-intro patterns. Only forward-looking intros transition; backward
// references ("we played the clip from ...") and third-party mentions by
// the host ("X says Y") must not.
var clipIntros = []transition{
	{
		rule:     "clip-heres",
		priority: 20,
		re:       regexp.MustCompile(`\b[Hh]ere'?s (?:a clip (?:of|from) )?([A-Z][a-z]+(?: [A-Z][a-z]+)?)`),
		next:     KindClip,
	},
	{
		rule:     "clip-lets-hear",
		priority: 21,
		re:       regexp.MustCompile(`\b[Ll]et'?s (?:hear from|listen to) (?:a clip (?:of|from) )?([A-Z][a-z]+(?: [A-Z][a-z]+)?)`),
		next:     KindClip,
	},
	{
		rule:     "clip-well-hear",
		priority: 22,
		re:       regexp.MustCompile(`\b[Ww]e(?:'ll| will| are going to) (?:now )?hear from ([A-Z][a-z]+(?: [A-Z][a-z]+)?)`),
		next:     KindClip,
	},
}

// Host-interjection patterns for short-turn reclassification.
var hostInterjections = []*regexp.Regexp{
	regexp.MustCompile(`^But\b[^.!?]*\?$`),
	regexp.MustCompile(`^You mean\b[^.!?]*\?$`),
	regexp.MustCompile(`^(?:And|So|Really|Wait)\b[^.!?]*\?$`),
}

// continuationStarts mark headings that continue a prior statement rather
// than introduce a new turn.
var continuationStarts = []string{"and ", "but ", "so ", "because ", "which ", "or "}

// Options configure a resolver for one transcript.
type Options struct {
	GuestName string // Main guest full name, e.g. "David Deutsch"
	HostName  string // Optional host name

	// ShortTurnMaxWords is the cutoff for host-interjection
	// reclassification; 0 means the default of 12.
	ShortTurnMaxWords int
}

// Resolver relabels turns using the transition table.
type Resolver struct {
	opts        Options
	guestFirst  string
	transitions []transition
	handoffRe   *regexp.Regexp
	addressRe   *regexp.Regexp
}

// NewResolver builds a resolver. The handoff pattern is derived from the
// guest's name: an explicit handoff addresses the main guest by name.
func NewResolver(opts Options) *Resolver {
	if opts.ShortTurnMaxWords <= 0 {
		opts.ShortTurnMaxWords = 12
	}

	r := &Resolver{opts: opts}

	parts := strings.Fields(opts.GuestName)
	if len(parts) > 0 {
		r.guestFirst = parts[0]
		quoted := regexp.QuoteMeta(r.guestFirst)
		r.handoffRe = regexp.MustCompile(
			`\b` + quoted + `\b[^.!?]*(?:what do you (?:say|think|make of)|let'?s pick it up|pick it up|your (?:thoughts|take|response))`)
		r.addressRe = regexp.MustCompile(`^` + quoted + `\b[,:]`)
	}

	r.transitions = append(r.transitions, callerIntros...)
	r.transitions = append(r.transitions, clipIntros...)
	sort.SliceStable(r.transitions, func(i, j int) bool {
		return r.transitions[i].priority < r.transitions[j].priority
	})

	return r
}

// Resolve relabels the turn sequence. Turns with no recognizable pattern
// keep their original label; guessing is worse than leaving an ambiguous
// turn alone.
func (r *Resolver) Resolve(turns []Turn) []Turn {
	out := make([]Turn, len(turns))
	copy(out, turns)

	r.sanitizeHeadings(out)

	st := state{kind: KindGuest}

	for i := range out {
		t := &out[i]

		if t.Kind == KindProse {
			continue
		}

		// Headings and host turns drive transitions.
		if t.Heading || t.Kind == KindHost {
			if next, ok := r.matchTransition(t.Text); ok {
				st = next
				continue
			}
			if st.kind != KindGuest && r.isHandoff(t.Text) {
				st = state{kind: KindGuest}
			}
			continue
		}

		// Short guest-labeled turns that read like host interjections are
		// relabeled as host turns, not speaker content.
		if t.Kind == KindGuest && r.isHostInterjection(t.Text) {
			t.Kind = KindHost
			t.Name = ""
			if st.kind != KindGuest && r.isHandoff(t.Text) {
				st = state{kind: KindGuest}
			}
			continue
		}

		// Content turns inherit a persistent caller/clip state.
		switch st.kind {
		case KindCaller, KindClip:
			if t.Kind == KindGuest || t.Kind == KindCaller || t.Kind == KindClip {
				t.Kind = st.kind
				t.Name = st.name
			}
		}
	}

	return out
}

// ResolveMarkdown is the string-in, string-out convenience wrapper.
func (r *Resolver) ResolveMarkdown(markdown string) string {
	return Render(r.Resolve(ParseTurns(markdown)))
}

// matchTransition evaluates the transition table in priority order.
func (r *Resolver) matchTransition(text string) (state, bool) {
	for _, tr := range r.transitions {
		m := tr.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		return state{kind: tr.next, name: m[1]}, true
	}
	return state{}, false
}

// isHandoff reports whether text explicitly hands the floor back to the
// main guest by name.
func (r *Resolver) isHandoff(text string) bool {
	return r.handoffRe != nil && r.handoffRe.MatchString(text)
}

// isHostInterjection matches very short turns that are really the host
// prompting: "But the sun?", "You mean forever?", or a direct address of
// the guest by name.
func (r *Resolver) isHostInterjection(text string) bool {
	if len(strings.Fields(text)) > r.opts.ShortTurnMaxWords {
		return false
	}
	for _, re := range hostInterjections {
		if re.MatchString(text) {
			return true
		}
	}
	return r.addressRe != nil && r.addressRe.MatchString(text)
}

// sanitizeHeadings downgrades heading lines that cannot plausibly introduce
// a new turn (continuations of a prior statement) to plain prose attached
// to the preceding turn.
func (r *Resolver) sanitizeHeadings(turns []Turn) {
	for i := range turns {
		t := &turns[i]
		if !t.Heading || r.plausibleHeading(t.Text) {
			continue
		}

		t.Heading = false
		if i > 0 && !turns[i-1].Heading && turns[i-1].Kind != KindProse {
			turns[i-1].Text = strings.TrimSpace(turns[i-1].Text + " " + t.Text)
			t.Text = ""
		}
		t.Kind = KindProse
	}
}

// plausibleHeading keeps headings that end in a question mark, match a
// transition pattern, or at least start a fresh sentence.
func (r *Resolver) plausibleHeading(text string) bool {
	if strings.HasSuffix(strings.TrimSpace(text), "?") {
		return true
	}
	if _, ok := r.matchTransition(text); ok {
		return true
	}
	if r.isHandoff(text) {
		return true
	}

	lower := strings.ToLower(text)
	for _, prefix := range continuationStarts {
		if strings.HasPrefix(lower, prefix) {
			return false
		}
	}
	if text != "" && text[0] >= 'a' && text[0] <= 'z' {
		return false
	}
	return true
}
