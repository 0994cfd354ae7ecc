// Package fuzzy provides an in-memory approximate string-matching index
// over product text fields. Building is a pure function of its inputs, so
// an index may be rebuilt per request at catalog scale or cached against a
// stable catalog snapshot when scale demands it.
package fuzzy

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/TheLout31/bazaarsearch/internal/domain"
)

// DefaultThreshold is the match looseness cut-off: hits with a higher
// dissimilarity are dropped. Raising it admits more typo tolerance at the
// cost of precision.
const DefaultThreshold = 0.45

// Relative field weights. The best-matching field wins, discounted by its
// weight relative to the heaviest one.
var fieldWeights = []struct {
	name   string
	weight float64
}{
	{"title", 0.35},
	{"brand", 0.25},
	{"tags", 0.15},
	{"model", 0.15},
	{"description", 0.10},
}

// Hit is a single fuzzy match: dissimilarity 0 is exact, 1 is unrelated.
type Hit struct {
	Product       domain.Product
	Dissimilarity float64
}

// Option configures an Index.
type Option func(*Index)

// WithThreshold overrides the match looseness threshold.
func WithThreshold(t float64) Option {
	return func(ix *Index) { ix.threshold = t }
}

// Index matches a query string against weighted product text fields.
type Index struct {
	entries   []entry
	threshold float64
}

type entry struct {
	product domain.Product
	fields  []fieldDoc
}

type fieldDoc struct {
	tokens []string
	weight float64
}

// New builds an index over the given products.
func New(items []domain.Product, opts ...Option) *Index {
	ix := &Index{threshold: DefaultThreshold}
	for _, o := range opts {
		o(ix)
	}

	ix.entries = make([]entry, 0, len(items))
	for _, p := range items {
		e := entry{product: p}
		for _, fw := range fieldWeights {
			tokens := tokenizeField(fieldText(&p, fw.name))
			if len(tokens) == 0 {
				continue
			}
			e.fields = append(e.fields, fieldDoc{tokens: tokens, weight: fw.weight})
		}
		ix.entries = append(ix.entries, e)
	}
	return ix
}

// Search scores every indexed product against the query and returns hits
// within the looseness threshold, ordered by ascending dissimilarity.
// Ties keep build order.
func (ix *Index) Search(query string) []Hit {
	qTokens := tokenizeField(query)
	if len(qTokens) == 0 {
		return nil
	}

	maxWeight := fieldWeights[0].weight

	hits := make([]Hit, 0, len(ix.entries))
	for _, e := range ix.entries {
		best := 0.0
		for _, fd := range e.fields {
			sim := fieldSimilarity(qTokens, fd.tokens)
			// Discount lesser fields so a tag-only match never beats
			// the same match on the title.
			weighted := sim * (0.5 + 0.5*fd.weight/maxWeight)
			if weighted > best {
				best = weighted
			}
		}
		d := 1 - best
		if d <= ix.threshold {
			hits = append(hits, Hit{Product: e.product, Dissimilarity: d})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Dissimilarity < hits[j].Dissimilarity
	})
	return hits
}

// fieldSimilarity is the mean over query tokens of the best per-token
// similarity against the field tokens, in [0,1].
func fieldSimilarity(qTokens, fTokens []string) float64 {
	total := 0.0
	for _, qt := range qTokens {
		total += bestTokenSimilarity(qt, fTokens)
	}
	return total / float64(len(qTokens))
}

// bestTokenSimilarity scores one query token against field tokens. Exact
// beats prefix beats substring; ordered-subsequence matches (dropped
// letters) and edit distance (swapped letters) cover the typo space
// between them.
func bestTokenSimilarity(qt string, fTokens []string) float64 {
	best := 0.0
	for _, ft := range fTokens {
		switch {
		case qt == ft:
			return 1
		case strings.HasPrefix(ft, qt):
			best = maxf(best, 0.75+0.15*ratio(qt, ft))
		case strings.Contains(ft, qt):
			best = maxf(best, 0.6+0.2*ratio(qt, ft))
		}
		if sim := editSimilarity(qt, ft); sim >= 0.5 {
			best = maxf(best, sim*0.95)
		}
	}

	// Ordered-subsequence pass catches dropped-letter typos that the
	// edit-distance floor already rejected ("galxy" in "galaxy").
	if best < 0.85 {
		if matches := fuzzy.Find(qt, fTokens); len(matches) > 0 {
			best = maxf(best, 0.4+0.45*ratio(qt, matches[0].Str))
		}
	}
	return best
}

// editSimilarity is 1 - levenshtein(a,b)/max(len(a),len(b)).
func editSimilarity(a, b string) float64 {
	la, lb := len(a), len(b)
	if la == 0 || lb == 0 {
		return 0
	}
	dist := levenshtein(a, b)
	longest := la
	if lb > longest {
		longest = lb
	}
	return 1 - float64(dist)/float64(longest)
}

// levenshtein computes edit distance with a single-row DP.
func levenshtein(a, b string) int {
	prev := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = minInt(curr[j-1]+1, minInt(prev[j]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func fieldText(p *domain.Product, name string) string {
	switch name {
	case "title":
		return p.Title
	case "brand":
		return p.Brand
	case "tags":
		return strings.Join(p.Tags, " ")
	case "model":
		return p.Model
	case "description":
		return p.Description
	}
	return ""
}

func tokenizeField(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, ".,;:!?()[]\"'")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func ratio(short, long string) float64 {
	if len(long) == 0 {
		return 0
	}
	r := float64(len(short)) / float64(len(long))
	if r > 1 {
		return 1
	}
	return r
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
