package search

import (
	"context"
	"testing"

	"github.com/TheLout31/bazaarsearch/internal/domain"
	"github.com/TheLout31/bazaarsearch/internal/query"
	"github.com/TheLout31/bazaarsearch/internal/ranking"
	"github.com/TheLout31/bazaarsearch/internal/repository/catalog"
)

// mockCatalog implements the Catalog contract for tests.
type mockCatalog struct {
	supportsTextSearchFn func(ctx context.Context) bool
	textSearchFn         func(ctx context.Context, q string, f catalog.Filter, limit int) ([]domain.Product, error)
	findActiveFn         func(ctx context.Context, f catalog.Filter) ([]domain.Product, error)
	topRatedFn           func(ctx context.Context, f catalog.Filter, limit int) ([]domain.Product, error)
}

func (m *mockCatalog) SupportsTextSearch(ctx context.Context) bool {
	if m.supportsTextSearchFn != nil {
		return m.supportsTextSearchFn(ctx)
	}
	return false
}

func (m *mockCatalog) TextSearch(
	ctx context.Context, q string, f catalog.Filter, limit int,
) ([]domain.Product, error) {
	if m.textSearchFn != nil {
		return m.textSearchFn(ctx, q, f, limit)
	}
	return nil, nil
}

func (m *mockCatalog) FindActive(ctx context.Context, f catalog.Filter) ([]domain.Product, error) {
	if m.findActiveFn != nil {
		return m.findActiveFn(ctx, f)
	}
	return nil, nil
}

func (m *mockCatalog) TopRated(
	ctx context.Context, f catalog.Filter, limit int,
) ([]domain.Product, error) {
	if m.topRatedFn != nil {
		return m.topRatedFn(ctx, f, limit)
	}
	return nil, nil
}

// orderRanker scores nothing and preserves input order, exposing what
// retrieval produced.
type orderRanker struct {
	gotCandidates []domain.Product
	gotScores     map[string]float64
}

func (r *orderRanker) Rank(
	candidates []domain.Product, _ domain.ParsedQuery, fuzzyScores map[string]float64,
) []domain.ScoredProduct {
	r.gotCandidates = candidates
	r.gotScores = fuzzyScores
	scored := make([]domain.ScoredProduct, len(candidates))
	for i, p := range candidates {
		scored[i] = domain.ScoredProduct{Product: p}
	}
	return scored
}

// newTestService wires a service with the real interpreter, the given
// ranker, and a mock catalog.
func newTestService(t *testing.T, ranker Ranker) (*Service, *mockCatalog) {
	t.Helper()
	mc := &mockCatalog{}
	if ranker == nil {
		ranker = ranking.New().WithYear(2025)
	}
	svc := New(mc, query.NewInterpreter(query.DefaultTables()), ranker, Options{})
	return svc, mc
}

func product(id, title, brand string) domain.Product {
	return domain.Product{
		ID:       id,
		Title:    title,
		Brand:    brand,
		Category: "smartphones",
		Price:    29999,
		Stock:    10,
		Rating:   4.2,
		IsActive: true,
	}
}

// products builds n unrelated filler items whose text shares nothing
// with the phone queries used in the tests.
func products(n int, prefix string) []domain.Product {
	out := make([]domain.Product, n)
	for i := range out {
		id := prefix + string(rune('a'+i%26)) + string(rune('a'+i/26))
		out[i] = product(id, "Steel Water Bottle 750ml", "Hydra")
		out[i].Category = "kitchen"
	}
	return out
}
