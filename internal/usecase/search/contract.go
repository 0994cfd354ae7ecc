package search

import (
	"context"

	"github.com/TheLout31/bazaarsearch/internal/domain"
	"github.com/TheLout31/bazaarsearch/internal/repository/catalog"
)

// Catalog defines the storage contract for candidate retrieval.
type Catalog interface {
	SupportsTextSearch(ctx context.Context) bool
	TextSearch(ctx context.Context, query string, f catalog.Filter, limit int) ([]domain.Product, error)
	FindActive(ctx context.Context, f catalog.Filter) ([]domain.Product, error)
	TopRated(ctx context.Context, f catalog.Filter, limit int) ([]domain.Product, error)
}

// Parser turns a raw query string into a structured query. It never fails;
// rejecting blank queries is the service's job.
type Parser interface {
	Parse(raw string) domain.ParsedQuery
}

// Ranker orders candidates by composite relevance.
type Ranker interface {
	Rank(
		candidates []domain.Product, pq domain.ParsedQuery, fuzzyScores map[string]float64,
	) []domain.ScoredProduct
}
