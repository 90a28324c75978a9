// Package whitelist compiles the set of blessed quotes and named entities
// for a document and scrubs generated prose of anything outside it. Person
// names must never appear in narrative prose; organization and product
// names are safe to keep.
package whitelist

import (
	"regexp"
	"strings"

	"github.com/veriscript/veriscript/internal/canon"
	"github.com/veriscript/veriscript/internal/model"
)

// EntityKind classifies allowlisted entities.
type EntityKind string

const (
	KindOrg     EntityKind = "ORG"
	KindProduct EntityKind = "PRODUCT"
)

// Whitelist holds the blessed quotes, the person-name blacklist and the
// entity allowlist for one document.
type Whitelist struct {
	quotes map[string]bool // canonicalized quote strings

	personFull map[string]bool // lowercased "first last"
	personLast map[string]bool // lowercased last names

	orgs     map[string]bool
	products map[string]bool
}

// commonFirstNames drives the capitalized-pair person heuristic. A pair
// "Xxx Yyy" is only a person candidate when Xxx is a plausible first name,
// otherwise headline phrases like "Quantum Computing" would be blacklisted.
var commonFirstNames = map[string]bool{
	"david": true, "dana": true, "tom": true, "john": true, "sarah": true,
	"michael": true, "anna": true, "paul": true, "mary": true, "james": true,
	"robert": true, "emily": true, "peter": true, "lisa": true, "mark": true,
	"laura": true, "brian": true, "kevin": true, "rachel": true, "steve": true,
	"susan": true, "richard": true, "karen": true, "daniel": true, "nancy": true,
	"george": true, "helen": true, "frank": true, "alice": true, "martin": true,
	"naval": true, "sam": true, "ben": true, "chris": true, "alex": true,
}

// orgSuffixes mark organization names.
var orgSuffixes = []string{
	"Corp", "Corporation", "Inc", "Incorporated", "Technologies", "Labs",
	"Systems", "Institute", "University", "Foundation", "Company", "Ventures",
	"Group", "Partners",
}

// knownAcronymTerms are domain terms that classify as ORG rather than
// PRODUCT when seen as ALL-CAPS acronyms.
var knownAcronymTerms = map[string]bool{
	"API": true, "SDK": true, "CRM": true, "ERP": true, "SQL": true,
	"HTTP": true, "URL": true, "PDF": true, "XML": true, "JSON": true,
	"CEO": true, "CTO": true, "CFO": true, "USA": true, "BBC": true,
	"NPR": true, "MIT": true, "NASA": true,
}

var (
	personPairRe = regexp.MustCompile(`\b([A-Z][a-z]+)\s+([A-Z][a-z]+(?:-[A-Z][a-z]+)?)\b`)
	acronymRe    = regexp.MustCompile(`\b[A-Z]{2,6}\b`)
	camelCaseRe  = regexp.MustCompile(`\b[A-Z][a-z]+(?:[A-Z][A-Za-z]*)+\b`)
	orgPhraseRe  = regexp.MustCompile(`\b((?:[A-Z][A-Za-z]*\s+){0,3}[A-Z][A-Za-z]*)\s+(Corp|Corporation|Inc|Incorporated|Technologies|Labs|Systems|Institute|University|Foundation|Company|Ventures|Group|Partners)\b`)
)

// Build compiles the whitelist from a transcript, the known speakers, and
// the evidence map's support quotes.
func Build(transcript string, knownSpeakers []string, em *model.EvidenceMap) *Whitelist {
	wl := &Whitelist{
		quotes:     make(map[string]bool),
		personFull: make(map[string]bool),
		personLast: make(map[string]bool),
		orgs:       make(map[string]bool),
		products:   make(map[string]bool),
	}

	wl.buildPersonBlacklist(transcript, knownSpeakers)
	wl.buildEntityAllowlist(transcript)

	if em != nil {
		for _, ch := range em.Chapters {
			for _, entry := range ch.Claims {
				for _, sq := range entry.Support {
					wl.AddQuote(sq.Quote)
				}
			}
		}
	}

	return wl
}

// buildPersonBlacklist extracts person candidates: capitalized two-word
// sequences with a common first name, plus exact known-speaker matches.
func (wl *Whitelist) buildPersonBlacklist(transcript string, knownSpeakers []string) {
	for _, speaker := range knownSpeakers {
		wl.addPerson(speaker)
	}

	known := make(map[string]bool, len(knownSpeakers))
	for _, s := range knownSpeakers {
		known[strings.ToLower(strings.TrimSpace(s))] = true
	}

	for _, m := range personPairRe.FindAllStringSubmatch(transcript, -1) {
		first, last := m[1], m[2]
		full := strings.ToLower(first + " " + last)
		if commonFirstNames[strings.ToLower(first)] || known[full] {
			wl.addPerson(first + " " + last)
		}
	}
}

func (wl *Whitelist) addPerson(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	lower := strings.ToLower(name)
	wl.personFull[lower] = true

	parts := strings.Fields(lower)
	if len(parts) >= 2 {
		wl.personLast[parts[len(parts)-1]] = true
	}
}

// buildEntityAllowlist extracts organization and product candidates,
// excluding anything already blacklisted as a person.
func (wl *Whitelist) buildEntityAllowlist(transcript string) {
	// Known suffixes: the full phrase is an organization.
	for _, m := range orgPhraseRe.FindAllStringSubmatch(transcript, -1) {
		phrase := strings.TrimSpace(m[1] + " " + m[2])
		if !wl.isPersonPhrase(phrase) {
			wl.orgs[phrase] = true
		}
	}

	// ALL-CAPS acronyms: PRODUCT unless a known domain term, which is ORG.
	for _, acr := range acronymRe.FindAllString(transcript, -1) {
		if wl.isPersonPhrase(acr) {
			continue
		}
		if knownAcronymTerms[acr] {
			wl.orgs[acr] = true
		} else {
			wl.products[acr] = true
		}
	}

	// CamelCase tokens: PRODUCT.
	for _, tok := range camelCaseRe.FindAllString(transcript, -1) {
		if !wl.isPersonPhrase(tok) {
			wl.products[tok] = true
		}
	}
}

func (wl *Whitelist) isPersonPhrase(s string) bool {
	lower := strings.ToLower(strings.TrimSpace(s))
	if wl.personFull[lower] {
		return true
	}
	for _, w := range strings.Fields(lower) {
		if wl.personLast[w] {
			return true
		}
	}
	return false
}

// AddQuote registers a blessed quote in canonical form.
func (wl *Whitelist) AddQuote(quote string) {
	q := canon.Canonicalize(quote)
	if q != "" {
		wl.quotes[q] = true
	}
}

// HasQuote reports whether a quote (canonicalized) is blessed.
func (wl *Whitelist) HasQuote(quote string) bool {
	return wl.quotes[canon.Canonicalize(quote)]
}

// Quotes returns the blessed quotes in canonical form.
func (wl *Whitelist) Quotes() []string {
	out := make([]string, 0, len(wl.quotes))
	for q := range wl.quotes {
		out = append(out, q)
	}
	return out
}

// BlacklistedPerson returns the first blacklisted person name found in the
// sentence, if any. Full names are checked before bare last names.
func (wl *Whitelist) BlacklistedPerson(sentence string) (string, bool) {
	lower := strings.ToLower(sentence)

	for full := range wl.personFull {
		if containsWord(lower, full) {
			return full, true
		}
	}
	for last := range wl.personLast {
		if containsWord(lower, last) {
			return last, true
		}
	}
	return "", false
}

// HasAllowlistedEntity reports whether the sentence names an allowlisted
// organization or product.
func (wl *Whitelist) HasAllowlistedEntity(sentence string) bool {
	for org := range wl.orgs {
		if containsWord(strings.ToLower(sentence), strings.ToLower(org)) {
			return true
		}
	}
	for prod := range wl.products {
		if strings.Contains(sentence, prod) {
			return true
		}
	}
	return false
}

// PersonCount returns the person blacklist size (full names).
func (wl *Whitelist) PersonCount() int { return len(wl.personFull) }

// OrgCount returns the number of allowlisted organizations.
func (wl *Whitelist) OrgCount() int { return len(wl.orgs) }

// ProductCount returns the number of allowlisted products.
func (wl *Whitelist) ProductCount() int { return len(wl.products) }

// containsWord matches needle in haystack on word boundaries. Both sides
// are expected lowercased.
func containsWord(haystack, needle string) bool {
	idx := 0
	for {
		i := strings.Index(haystack[idx:], needle)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(needle)

		beforeOK := start == 0 || !isWordByte(haystack[start-1])
		afterOK := end == len(haystack) || !isWordByte(haystack[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}
