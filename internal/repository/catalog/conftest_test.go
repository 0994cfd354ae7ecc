package catalog

import (
	"context"
	"testing"

	"github.com/TheLout31/bazaarsearch/internal/db"
	"github.com/TheLout31/bazaarsearch/internal/domain"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hSetFn               func(ctx context.Context, key string, fields map[string]string) error
	hSetMultiFn          func(ctx context.Context, items []db.HashSetItem) error
	hGetAllMultiFn       func(ctx context.Context, keys []string) ([]map[string]string, error)
	scanFn               func(ctx context.Context, pattern string) ([]string, error)
	createIndexFn        func(ctx context.Context, def *db.IndexDefinition) error
	indexExistsFn        func(ctx context.Context, name string) (bool, error)
	supportsTextSearchFn func(ctx context.Context) bool
	searchTextFn         func(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hSetFn != nil {
		return m.hSetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if m.hSetMultiFn != nil {
		return m.hSetMultiFn(ctx, items)
	}
	return nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hGetAllMultiFn != nil {
		return m.hGetAllMultiFn(ctx, keys)
	}
	return nil, nil
}

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	return nil, nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) SupportsTextSearch(ctx context.Context) bool {
	if m.supportsTextSearchFn != nil {
		return m.supportsTextSearchFn(ctx)
	}
	return false
}

func (m *mockStore) SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	if m.searchTextFn != nil {
		return m.searchTextFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}

func testProduct(id string) domain.Product {
	return domain.Product{
		ID:              id,
		Title:           "Apple iPhone 16 128GB",
		Description:     "Flagship smartphone",
		Brand:           "Apple",
		Category:        "smartphones",
		Model:           "iPhone 16",
		Price:           69999,
		MRP:             79999,
		DiscountPercent: 12.5,
		Currency:        "INR",
		Stock:           42,
		Fulfillment:     domain.FulfillmentExpress,
		Rating:          4.6,
		ReviewCount:     1820,
		ReturnRate:      3.1,
		ComplaintRate:   0.8,
		UnitsSold:       9400,
		SalesVelocity:   31.5,
		ViewCount:       88000,
		Attrs:           map[string]string{"storage": "128GB", "ram": "8GB"},
		Tags:            []string{"5g", "flagship"},
		Color:           "black",
		LaunchYear:      2024,
		IsActive:        true,
	}
}
