package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/TheLout31/bazaarsearch/internal/domain"
	"github.com/TheLout31/bazaarsearch/internal/fuzzy"
	"github.com/TheLout31/bazaarsearch/internal/repository/catalog"
)

// retrieval is a candidate set plus per-candidate fuzzy dissimilarity and
// a flag recording whether the top-rated tier had to be used.
type retrieval struct {
	candidates  []domain.Product
	fuzzyScores map[string]float64
	lastResort  bool
}

// retrieve assembles a deduplicated candidate set, capped at twice the
// maximum page size. On a searchable backend it merges three tiers in
// order: native text search, a token-match sweep over active products,
// and, only when both came up empty, the top-rated items under the same
// filters. On a plain backend it filters first and runs the fuzzy index
// over the filtered set, padding up to the candidate floor.
func (s *Service) retrieve(
	ctx context.Context, pq domain.ParsedQuery, f catalog.Filter,
) (retrieval, error) {
	if s.catalog.SupportsTextSearch(ctx) {
		return s.retrieveSearchable(ctx, pq, f)
	}
	return s.retrievePlain(ctx, pq, f)
}

func (s *Service) retrieveSearchable(
	ctx context.Context, pq domain.ParsedQuery, f catalog.Filter,
) (retrieval, error) {
	limit := s.candidateCap()
	text := queryText(pq)

	matched, err := s.catalog.TextSearch(ctx, text, f, limit)
	if err != nil {
		return retrieval{}, fmt.Errorf("text tier: %w", err)
	}

	// The token sweep always runs, even when the text tier matched. It
	// recovers items the engine's tokenization misses after Hinglish and
	// typo substitution.
	active, err := s.catalog.FindActive(ctx, f)
	if err != nil {
		return retrieval{}, fmt.Errorf("token tier: %w", err)
	}
	for i := range active {
		if tokenMatch(&active[i], pq.Tokens) {
			matched = append(matched, active[i])
		}
	}

	candidates := dedupe(matched, limit)
	res := retrieval{candidates: candidates}

	if len(candidates) == 0 {
		// Cancellation must win over the last-resort tier.
		if err := ctx.Err(); err != nil {
			return retrieval{}, err
		}
		top, err := s.catalog.TopRated(ctx, f, limit)
		if err != nil {
			return retrieval{}, fmt.Errorf("last-resort tier: %w", err)
		}
		res.candidates = dedupe(top, limit)
		res.lastResort = true
	}

	res.fuzzyScores = fuzzyScore(res.candidates, text, s.opts.FuzzyThreshold)
	return res, nil
}

func (s *Service) retrievePlain(
	ctx context.Context, pq domain.ParsedQuery, f catalog.Filter,
) (retrieval, error) {
	limit := s.candidateCap()
	text := queryText(pq)

	filtered, err := s.catalog.FindActive(ctx, f)
	if err != nil {
		return retrieval{}, fmt.Errorf("filter tier: %w", err)
	}

	ix := fuzzy.New(filtered, fuzzy.WithThreshold(s.opts.FuzzyThreshold))
	hits := ix.Search(text)

	candidates := make([]domain.Product, 0, len(hits))
	scores := make(map[string]float64, len(hits))
	for _, h := range hits {
		if len(candidates) == limit {
			break
		}
		candidates = append(candidates, h.Product)
		scores[h.Product.ID] = h.Dissimilarity
	}

	// Pad with unmatched filtered items so ranking always has material
	// to differentiate.
	if len(candidates) < s.opts.CandidateFloor {
		seen := make(map[string]struct{}, len(candidates))
		for i := range candidates {
			seen[candidates[i].ID] = struct{}{}
		}
		for i := range filtered {
			if len(candidates) >= limit {
				break
			}
			if _, ok := seen[filtered[i].ID]; ok {
				continue
			}
			candidates = append(candidates, filtered[i])
		}
	}

	return retrieval{candidates: candidates, fuzzyScores: scores}, nil
}

func (s *Service) candidateCap() int {
	return 2 * s.opts.MaxPageSize
}

// queryText is the free-text form fed to the text engine and the fuzzy
// index: the stopword-filtered tokens, or the normalized query when
// nothing survived tokenization.
func queryText(pq domain.ParsedQuery) string {
	if len(pq.Tokens) > 0 {
		return strings.Join(pq.Tokens, " ")
	}
	return pq.Normalized
}

// tokenMatch reports whether any query token appears, case-insensitively,
// in the product's title, brand, or tags.
func tokenMatch(p *domain.Product, tokens []string) bool {
	if len(tokens) == 0 {
		return false
	}
	hay := strings.ToLower(p.Title + " " + p.Brand + " " + strings.Join(p.Tags, " "))
	for _, t := range tokens {
		if strings.Contains(hay, t) {
			return true
		}
	}
	return false
}

func dedupe(products []domain.Product, limit int) []domain.Product {
	if len(products) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(products))
	out := make([]domain.Product, 0, minInt(len(products), limit))
	for i := range products {
		if len(out) == limit {
			break
		}
		id := products[i].ID
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, products[i])
	}
	return out
}

// fuzzyScore runs the fuzzy index over an already-selected candidate set
// to produce the dissimilarity map the ranker's text term consumes.
func fuzzyScore(candidates []domain.Product, text string, threshold float64) map[string]float64 {
	if len(candidates) == 0 || text == "" {
		return nil
	}
	hits := fuzzy.New(candidates, fuzzy.WithThreshold(threshold)).Search(text)
	scores := make(map[string]float64, len(hits))
	for _, h := range hits {
		scores[h.Product.ID] = h.Dissimilarity
	}
	return scores
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
