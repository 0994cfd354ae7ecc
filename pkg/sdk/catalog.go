package bazaarsearch

import (
	"context"
	"fmt"
	"time"

	"github.com/TheLout31/bazaarsearch/internal/domain"
)

// CatalogService manages products in the catalog store.
type CatalogService struct {
	repo catalogRepo
	obs  *observer
}

// catalogRepo is the internal interface for catalog writes,
// substitutable in tests.
type catalogRepo interface {
	Upsert(ctx context.Context, p *domain.Product) error
	UpsertMulti(ctx context.Context, products []domain.Product) error
	Seed(ctx context.Context, path string) (int, error)
}

// Upsert writes a single product.
func (s *CatalogService) Upsert(ctx context.Context, p Product) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("catalog_upsert", start, err) }()

	dp := productToDomain(&p)
	if err = s.repo.Upsert(ctx, &dp); err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}
	return nil
}

// UpsertBatch writes a batch of products in one pipelined call.
func (s *CatalogService) UpsertBatch(ctx context.Context, products []Product) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("catalog_upsert_batch", start, err) }()

	batch := make([]domain.Product, 0, len(products))
	for i := range products {
		batch = append(batch, productToDomain(&products[i]))
	}
	if err = s.repo.UpsertMulti(ctx, batch); err != nil {
		return fmt.Errorf("upsert batch: %w", err)
	}
	return nil
}

// Seed loads a JSON catalog file and upserts its products.
// Returns the number of products written.
func (s *CatalogService) Seed(ctx context.Context, path string) (n int, err error) {
	start := time.Now()
	defer func() { s.obs.observe("catalog_seed", start, err) }()

	n, err = s.repo.Seed(ctx, path)
	if err != nil {
		return n, fmt.Errorf("seed catalog: %w", err)
	}
	return n, nil
}
