// Package query turns raw, often misspelled or Hinglish, search input into
// a structured query the retrieval and ranking layers can act on.
package query

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/TheLout31/bazaarsearch/internal/domain"
)

// Bare numbers at or below this are never treated as a price, so model
// numbers ("iphone 16") survive. Known false-positive source the other way:
// a bare "512" storage size still reads as a price.
const minBarePrice = 100

// Multiplier band applied when a price is mentioned without a ceiling
// qualifier: the number is an approximate target, not a bound.
const priceBand = 0.3

var (
	reShorthandPrice = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*k\b`)
	reBareNumber     = regexp.MustCompile(`\b(\d+)\b`)
	rePriceQualifier = regexp.MustCompile(`\b(?:under|below|less than|upto|up to|within)\b`)

	reRAM       = regexp.MustCompile(`\b(\d+)\s*gb\s+ram\b|\bram\s+(\d+)\s*gb\b`)
	reStorageTB = regexp.MustCompile(`\b(\d+)\s*tb\b`)
	reStorageGB = regexp.MustCompile(`\b(\d+)\s*gb\b`)

	reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
)

var intentPatterns = map[string]*regexp.Regexp{
	"cheap":       regexp.MustCompile(`\b(?:cheap|cheapest|budget|affordable|inexpensive|low price)\b`),
	"latest":      regexp.MustCompile(`\b(?:latest|newest|new|recent)\b`),
	"best":        regexp.MustCompile(`\b(?:best|top|good|great)\b`),
	"premium":     regexp.MustCompile(`\b(?:premium|flagship|luxury|high end|expensive)\b`),
	"moreStorage": regexp.MustCompile(`\b(?:more|extra|bigger|big|large)\s+(?:storage|memory|space)\b`),
	"strong":      regexp.MustCompile(`\b(?:strong|durable|rugged|tough|sturdy|long lasting)\b`),
}

// Interpreter parses raw queries against a fixed table set. Safe for
// concurrent use; holds no per-request state.
type Interpreter struct {
	tables     Tables
	misspellRe []misspellRule
}

type misspellRule struct {
	re *regexp.Regexp
	to string
}

// NewInterpreter compiles the table set into an interpreter.
func NewInterpreter(tables Tables) *Interpreter {
	in := &Interpreter{tables: tables}
	in.misspellRe = make([]misspellRule, 0, len(tables.Misspellings))
	for _, sub := range tables.Misspellings {
		// Word-boundary anchored so substrings inside unrelated words
		// are left alone.
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(sub.From) + `\b`)
		in.misspellRe = append(in.misspellRe, misspellRule{re: re, to: sub.To})
	}
	return in
}

// Parse never fails: an empty query yields default flags and no tokens.
// Unknown colloquialisms pass through unmodified.
func (in *Interpreter) Parse(raw string) domain.ParsedQuery {
	text := strings.ToLower(strings.TrimSpace(raw))

	for _, sub := range in.tables.Colloquial {
		text = strings.ReplaceAll(text, sub.From, sub.To)
	}
	for _, rule := range in.misspellRe {
		text = rule.re.ReplaceAllString(text, rule.to)
	}

	pq := domain.ParsedQuery{Normalized: text}
	pq.Intent = detectIntent(text)
	pq.Brand = firstKeyword(text, in.tables.Brands)
	pq.Color = firstKeyword(text, in.tables.Colors)
	pq.StorageGB, pq.RAMGB = extractCapacities(text)
	pq.MinPrice, pq.MaxPrice, pq.PriceExplicit = extractPrice(text)
	pq.Tokens = in.tokenize(text)
	return pq
}

func detectIntent(text string) domain.Intent {
	return domain.Intent{
		Cheap:       intentPatterns["cheap"].MatchString(text),
		Latest:      intentPatterns["latest"].MatchString(text),
		Best:        intentPatterns["best"].MatchString(text),
		Premium:     intentPatterns["premium"].MatchString(text),
		MoreStorage: intentPatterns["moreStorage"].MatchString(text),
		Strong:      intentPatterns["strong"].MatchString(text),
	}
}

// firstKeyword picks the first list entry present in the text. Declared
// list order wins over specificity; retrieval and ranking depend on this
// exact precedence.
func firstKeyword(text string, list []string) string {
	for _, kw := range list {
		if containsWord(text, kw) {
			return kw
		}
	}
	return ""
}

func containsWord(text, word string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		if (start == 0 || !isAlnum(text[start-1])) &&
			(end == len(text) || !isAlnum(text[end])) {
			return true
		}
		idx = start + 1
	}
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c >= 'A' && c <= 'Z'
}

// extractCapacities pulls storage and RAM floors in GB. RAM is matched
// first; a storage match overlapping the RAM span is discarded so
// "8gb ram 128gb" reads as RAM 8, storage 128.
func extractCapacities(text string) (storageGB, ramGB int) {
	ramSpan := reRAM.FindStringSubmatchIndex(text)
	if ramSpan != nil {
		for g := 1; g <= 2; g++ {
			if ramSpan[2*g] >= 0 {
				ramGB, _ = strconv.Atoi(text[ramSpan[2*g]:ramSpan[2*g+1]])
			}
		}
	}

	if m := reStorageTB.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n * 1024, ramGB
	}

	for _, span := range reStorageGB.FindAllStringSubmatchIndex(text, -1) {
		if ramSpan != nil && span[0] < ramSpan[1] && span[1] > ramSpan[0] {
			continue
		}
		storageGB, _ = strconv.Atoi(text[span[2]:span[3]])
		break
	}
	return storageGB, ramGB
}

// extractPrice resolves the two competing price patterns. The "<N>k"
// shorthand wins when both could match. A ceiling qualifier turns the
// value into an upper bound; otherwise the value expands into a ±30% band.
func extractPrice(text string) (minPrice, maxPrice float64, explicit bool) {
	hasQualifier := rePriceQualifier.MatchString(text)

	value := 0.0
	if m := reShorthandPrice.FindStringSubmatch(text); m != nil {
		n, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			value = n * 1000
		}
	}
	if value == 0 {
		for _, m := range reBareNumber.FindAllStringSubmatch(text, -1) {
			n, err := strconv.ParseFloat(m[1], 64)
			if err != nil || n <= minBarePrice {
				continue
			}
			value = n
			break
		}
	}
	if value == 0 {
		return 0, 0, false
	}

	if hasQualifier {
		return 0, value, true
	}
	return math.Round(value * (1 - priceBand)), math.Round(value * (1 + priceBand)), true
}

// tokenize splits on whitespace, strips non-alphanumerics per token, and
// drops stopwords and single-character leftovers, preserving order.
func (in *Interpreter) tokenize(text string) []string {
	var tokens []string
	for _, field := range strings.Fields(text) {
		tok := reNonAlnum.ReplaceAllString(field, "")
		if len(tok) <= 1 {
			continue
		}
		if _, stop := in.tables.Stopwords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}
