package draft

import (
	"strconv"
	"strings"
)

// section tracks where in a chapter the parser currently is.
type section int

const (
	sectionProse section = iota
	sectionExcerpts
	sectionClaims
)

// Parse splits a draft markdown document into chapters, prose regions and
// the two reserved sub-sections.
func Parse(markdown string) *Document {
	doc := &Document{}
	lines := strings.Split(markdown, "\n")

	var cur *Chapter
	state := sectionProse
	var para []string

	flushPara := func() {
		if len(para) == 0 {
			return
		}
		text := strings.TrimSpace(strings.Join(para, " "))
		para = para[:0]
		if text == "" {
			return
		}
		if cur == nil {
			doc.Preamble = append(doc.Preamble, text)
		} else {
			cur.Prose = append(cur.Prose, text)
		}
	}

	for _, raw := range lines {
		line := strings.TrimRight(raw, " \t")
		trimmed := strings.TrimSpace(line)

		if m := chapterRe.FindStringSubmatch(trimmed); m != nil {
			flushPara()
			if cur != nil {
				doc.Chapters = append(doc.Chapters, *cur)
			}
			idx, _ := strconv.Atoi(m[1])
			cur = &Chapter{Index: idx, Title: strings.TrimSpace(m[2])}
			state = sectionProse
			continue
		}

		if cur != nil && excerptsRe.MatchString(trimmed) {
			flushPara()
			state = sectionExcerpts
			cur.HasExcerptSection = true
			continue
		}
		if cur != nil && claimsRe.MatchString(trimmed) {
			flushPara()
			state = sectionClaims
			cur.HasClaimSection = true
			continue
		}
		// Any other level-3 heading returns to prose.
		if h3Re.MatchString(trimmed) {
			flushPara()
			state = sectionProse
			if cur != nil {
				cur.Prose = append(cur.Prose, trimmed)
			}
			continue
		}

		if cur == nil && strings.HasPrefix(trimmed, "# ") && doc.Title == "" {
			doc.Title = strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))
			continue
		}

		switch state {
		case sectionExcerpts:
			cur.ExcerptLines = append(cur.ExcerptLines, line)
			if e, ok := parseExcerpt(trimmed); ok {
				cur.Excerpts = append(cur.Excerpts, e)
			}
		case sectionClaims:
			cur.ClaimLines = append(cur.ClaimLines, line)
			if c, ok := parseClaim(trimmed); ok {
				cur.Claims = append(cur.Claims, c)
			}
		default:
			if trimmed == "" {
				flushPara()
			} else {
				para = append(para, trimmed)
			}
		}
	}

	flushPara()
	if cur != nil {
		doc.Chapters = append(doc.Chapters, *cur)
	}

	return doc
}

// parseExcerpt parses one Key Excerpts entry, e.g.
//
//	> "We should take this seriously." — GUEST
//	- "Short quote."
func parseExcerpt(line string) (Excerpt, bool) {
	if line == "" || IsPlaceholder(line) {
		return Excerpt{}, false
	}
	if !strings.HasPrefix(line, ">") && !strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "*") {
		return Excerpt{}, false
	}

	m := quotedRe.FindStringSubmatch(line)
	if m == nil {
		return Excerpt{}, false
	}

	e := Excerpt{Quote: m[1], Raw: line}
	if sm := speakerRe.FindStringSubmatch(line); sm != nil {
		e.Speaker = strings.TrimSpace(sm[1])
	}
	return e, true
}

// parseClaim parses one Core Claims bullet, e.g.
//
//	- **Claim about memes**: "Static societies suppress criticism."
func parseClaim(line string) (Claim, bool) {
	if line == "" || IsPlaceholder(line) {
		return Claim{}, false
	}

	m := claimRe.FindStringSubmatch(line)
	if m == nil {
		return Claim{}, false
	}

	c := Claim{Title: strings.TrimSpace(m[1]), Raw: line}
	if qm := quotedRe.FindStringSubmatch(m[2]); qm != nil {
		c.Evidence = qm[1]
	}
	return c, true
}

// SubstantiveClaims counts claims that are not placeholder fill.
func (c Chapter) SubstantiveClaims() int {
	return len(c.Claims)
}

// ProseText joins all prose paragraphs of a chapter.
func (c Chapter) ProseText() string {
	return strings.Join(c.Prose, "\n\n")
}

// ProseWordCount counts words across all prose regions of the document.
func (d *Document) ProseWordCount() int {
	n := 0
	for _, ch := range d.Chapters {
		n += len(strings.Fields(ch.ProseText()))
	}
	return n
}
