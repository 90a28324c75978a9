// Package extract builds evidence maps: it asks the generation service for
// claims plus verbatim supporting quotes, then locates each quote in the
// canonical transcript to obtain exact offsets. Claims whose quotes cannot
// be located are discarded, never persisted.
package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/veriscript/veriscript/internal/canon"
	"github.com/veriscript/veriscript/internal/model"
)

// Default locator tuning. Generation output frequently alters quote marks
// or truncates passages; exact matching alone would reject most genuine
// quotes, hence the three-tier strategy.
const (
	defaultMaxSpanChars = 500
	defaultAnchorChars  = 15
	defaultWindowChars  = 100
)

var prefixLengths = []int{40, 30, 20, 15}

// Locator maps quotes to character offsets in a canonical transcript.
// Offsets always reference the frozen canonical text, so they stay valid
// for as long as the transcript hash does.
type Locator struct {
	transcript model.CanonicalTranscript

	flat    string // Flat-normalized view of the canonical text
	flatIdx []int  // flat byte offset -> canonical text byte offset (len(flat)+1 entries)

	stripped    string // flat with quote characters removed
	strippedIdx []int  // stripped byte offset -> flat byte offset

	maxSpan     int
	anchorChars int
	windowChars int
}

// NewLocator builds a locator over a frozen canonical transcript.
func NewLocator(t model.CanonicalTranscript, cfg model.ExtractionConfig) *Locator {
	l := &Locator{
		transcript:  t,
		maxSpan:     cfg.MaxSpanChars,
		anchorChars: cfg.AnchorChars,
		windowChars: cfg.WindowChars,
	}
	if l.maxSpan <= 0 {
		l.maxSpan = defaultMaxSpanChars
	}
	if l.anchorChars <= 0 {
		l.anchorChars = defaultAnchorChars
	}
	if l.windowChars <= 0 {
		l.windowChars = defaultWindowChars
	}

	l.flat, l.flatIdx = flatten(t.Text)
	l.stripped, l.strippedIdx = stripQuoteChars(l.flat)
	return l
}

// Locate finds a quote in the transcript. Tiers, in priority order:
// exact normalized match; quote-mark-stripped match mapped back and refined
// by an anchor search; progressively shorter prefix snippets. Reports
// (nil, false) when nothing matches.
func (l *Locator) Locate(quote string) (*model.Located, bool) {
	q := canon.Canonicalize(quote)
	if q == "" {
		return nil, false
	}

	// Tier 1: exact substring of the normalized transcript.
	if i := strings.Index(l.flat, q); i >= 0 {
		return l.spanAt(i, len(q), 1), true
	}

	// Tier 2: strip quote characters from both sides and map back.
	qs, _ := stripQuoteChars(q)
	if qs != "" {
		if loc, ok := l.locateStripped(qs, q, len(q), 2); ok {
			return loc, true
		}
	}

	// Tier 3: progressively shorter prefix snippets.
	for _, n := range prefixLengths {
		if len(qs) <= n {
			continue
		}
		prefix := truncateAtRune(qs, n)
		if loc, ok := l.locateStripped(prefix, q, len(q), 3); ok {
			return loc, true
		}
	}

	return nil, false
}

// locateStripped searches the quote-stripped transcript for needle, maps
// the match back to flat coordinates, then refines within a small window
// around the estimate using a short key-phrase anchor.
func (l *Locator) locateStripped(needle, fullQuote string, spanLen, tier int) (*model.Located, bool) {
	j := strings.Index(l.stripped, needle)
	if j < 0 {
		return nil, false
	}

	est := l.strippedIdx[j]

	// Refine: look for the anchor (first ~15 chars of the normalized
	// quote) near the estimated position. The estimate can drift by the
	// number of quote characters removed before the match.
	anchor := truncateAtRune(fullQuote, l.anchorChars)
	if anchor != "" {
		lo := est - l.windowChars
		if lo < 0 {
			lo = 0
		}
		hi := est + l.windowChars + len(anchor)
		if hi > len(l.flat) {
			hi = len(l.flat)
		}
		if k := strings.Index(l.flat[lo:hi], anchor); k >= 0 {
			est = lo + k
		}
	}

	return l.spanAt(est, spanLen, tier), true
}

// spanAt builds a Located from a flat offset and span length, capping the
// span and translating offsets back into the canonical coordinate system.
func (l *Locator) spanAt(flatStart, spanLen, tier int) *model.Located {
	if spanLen > l.maxSpan {
		spanLen = l.maxSpan
	}
	flatEnd := flatStart + spanLen
	if flatEnd > len(l.flat) {
		flatEnd = len(l.flat)
	}

	start := l.flatIdx[flatStart]
	end := l.flatIdx[flatEnd]
	text := l.transcript.Text[start:end]

	return &model.Located{
		Quote:      text,
		StartChar:  start,
		EndChar:    end,
		TokenCount: estimateTokens(text),
		Preview:    preview(text, 80),
		Tier:       tier,
	}
}

// flatten collapses whitespace runs of canonical text to single spaces and
// records, for every flat byte offset, the originating canonical offset.
// The returned index has one extra sentinel entry mapping len(flat) to
// len(text) so exclusive span ends translate directly.
func flatten(text string) (string, []int) {
	var b strings.Builder
	idx := make([]int, 0, len(text)+1)

	inSpace := false
	for i, r := range text {
		if unicode.IsSpace(r) {
			if !inSpace && b.Len() > 0 {
				b.WriteByte(' ')
				idx = append(idx, i)
			}
			inSpace = true
			continue
		}
		inSpace = false
		start := b.Len()
		b.WriteRune(r)
		for n := b.Len() - start; n > 0; n-- {
			idx = append(idx, i)
		}
	}

	flat := strings.TrimRight(b.String(), " ")
	idx = idx[:len(flat)]
	idx = append(idx, len(text))
	return flat, idx
}

// stripQuoteChars removes straight quote characters (canonicalization has
// already flattened curly variants onto these) and records the mapping back
// to the input, with a trailing sentinel entry.
func stripQuoteChars(s string) (string, []int) {
	var b strings.Builder
	idx := make([]int, 0, len(s)+1)

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\'' {
			continue
		}
		b.WriteByte(c)
		idx = append(idx, i)
	}

	idx = append(idx, len(s))
	return b.String(), idx
}

// truncateAtRune cuts s to at most n bytes without splitting a rune.
func truncateAtRune(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// estimateTokens is the rough chars/4 heuristic.
func estimateTokens(s string) int {
	return len(s) / 4
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return truncateAtRune(s, n) + "..."
}
