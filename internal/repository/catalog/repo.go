package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/TheLout31/bazaarsearch/internal/db"
	"github.com/TheLout31/bazaarsearch/internal/domain"
)

const (
	defaultKeyPrefix = "bzs"

	// findAllTopK bounds the filter-only index query used to enumerate
	// active products on a searchable backend.
	findAllTopK = 10000
)

// store is the subset of db.Store the repository needs.
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SupportsTextSearch(ctx context.Context) bool
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
}

// Filter narrows catalog queries. Zero values leave a dimension
// unconstrained.
type Filter struct {
	Category string
	Brand    string
	MinPrice float64
	MaxPrice float64
}

// Repo stores products as hashes and, when the backend supports it,
// maintains a full-text index over the searchable fields.
type Repo struct {
	store     store
	keyPrefix string
}

func New(s store) *Repo {
	return &Repo{store: s, keyPrefix: defaultKeyPrefix}
}

// WithKeyPrefix overrides the default "bzs" key namespace.
func (r *Repo) WithKeyPrefix(prefix string) *Repo {
	if prefix != "" {
		r.keyPrefix = prefix
	}
	return r
}

func (r *Repo) key(id string) string {
	return r.keyPrefix + ":product:" + id
}

func (r *Repo) indexName() string {
	return r.keyPrefix + ":product:idx"
}

// SupportsTextSearch reports whether the backing store can serve
// TextSearch and TopRated natively.
func (r *Repo) SupportsTextSearch(ctx context.Context) bool {
	return r.store.SupportsTextSearch(ctx)
}

// EnsureIndex creates the product text index if the backend supports
// one and it does not already exist.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	if !r.store.SupportsTextSearch(ctx) {
		return nil
	}

	exists, err := r.store.IndexExists(ctx, r.indexName())
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	if exists {
		return nil
	}

	def := &db.IndexDefinition{
		Name:   r.indexName(),
		Prefix: r.keyPrefix + ":product:",
		TextFields: []db.TextField{
			{Name: fieldTitle, Weight: 5},
			{Name: fieldBrand, Weight: 3},
			{Name: fieldModel, Weight: 2},
			{Name: fieldDescription, Weight: 1},
		},
		TagFields:     []string{fieldCategory, fieldTags, fieldActive},
		NumericFields: []string{fieldPrice, fieldRating, fieldUnitsSold},
	}
	if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// Upsert writes one product hash.
func (r *Repo) Upsert(ctx context.Context, p *domain.Product) error {
	if err := r.store.HSet(ctx, r.key(p.ID), productToFields(p)); err != nil {
		return fmt.Errorf("upsert product %s: %w", p.ID, err)
	}
	return nil
}

// UpsertMulti writes a batch of product hashes in one round trip.
func (r *Repo) UpsertMulti(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}
	items := make([]db.HashSetItem, 0, len(products))
	for i := range products {
		items = append(items, db.HashSetItem{
			Key:    r.key(products[i].ID),
			Fields: productToFields(&products[i]),
		})
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("upsert %d products: %w", len(products), err)
	}
	return nil
}

// FindActive returns every active product matching the filter.
func (r *Repo) FindActive(ctx context.Context, f Filter) ([]domain.Product, error) {
	if r.store.SupportsTextSearch(ctx) {
		res, err := r.store.SearchText(ctx, &db.TextQuery{
			IndexName: r.indexName(),
			Query:     buildFilterQuery(f, ""),
			TopK:      findAllTopK,
		})
		if err != nil {
			return nil, fmt.Errorf("find active: %w", err)
		}
		return entriesToProducts(res.Entries), nil
	}
	return r.scanActive(ctx, f)
}

// TextSearch runs a relevance-ordered full-text query over the index.
// Backends without text search return db.ErrTextSearchUnsupported.
func (r *Repo) TextSearch(ctx context.Context, query string, f Filter, limit int) ([]domain.Product, error) {
	if !r.store.SupportsTextSearch(ctx) {
		return nil, db.ErrTextSearchUnsupported
	}
	res, err := r.store.SearchText(ctx, &db.TextQuery{
		IndexName: r.indexName(),
		Query:     buildFilterQuery(f, query),
		TopK:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("text search: %w", err)
	}
	return entriesToProducts(res.Entries), nil
}

// TopRated returns active products ordered by rating descending. On a
// non-searchable backend it sorts client side, breaking rating ties by
// units sold.
func (r *Repo) TopRated(ctx context.Context, f Filter, limit int) ([]domain.Product, error) {
	if r.store.SupportsTextSearch(ctx) {
		res, err := r.store.SearchText(ctx, &db.TextQuery{
			IndexName: r.indexName(),
			Query:     buildFilterQuery(f, ""),
			TopK:      limit,
			SortBy:    fieldRating,
			SortDesc:  true,
		})
		if err != nil {
			return nil, fmt.Errorf("top rated: %w", err)
		}
		return entriesToProducts(res.Entries), nil
	}

	products, err := r.scanActive(ctx, f)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(products, func(i, j int) bool {
		if products[i].Rating != products[j].Rating {
			return products[i].Rating > products[j].Rating
		}
		return products[i].UnitsSold > products[j].UnitsSold
	})
	if limit > 0 && len(products) > limit {
		products = products[:limit]
	}
	return products, nil
}

func (r *Repo) scanActive(ctx context.Context, f Filter) ([]domain.Product, error) {
	keys, err := r.store.Scan(ctx, r.keyPrefix+":product:*")
	if err != nil {
		return nil, fmt.Errorf("scan products: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}
	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	var products []domain.Product
	for _, fields := range hashes {
		if len(fields) == 0 {
			continue
		}
		p := productFromFields(fields)
		if matchesFilter(&p, f) {
			products = append(products, p)
		}
	}
	return products, nil
}

func matchesFilter(p *domain.Product, f Filter) bool {
	if !p.IsActive {
		return false
	}
	if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
		return false
	}
	if f.Brand != "" {
		// Product-line terms ("iphone", "redmi") live in titles, not the
		// brand field, so match either.
		brand := strings.ToLower(f.Brand)
		if !strings.Contains(strings.ToLower(p.Brand), brand) &&
			!strings.Contains(strings.ToLower(p.Title), brand) {
			return false
		}
	}
	if f.MinPrice > 0 && p.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && p.Price > f.MaxPrice {
		return false
	}
	return true
}

// buildFilterQuery assembles a RediSearch query string from the filter
// plus an optional free-text part. With no text part the result is a
// pure filter query over active products.
func buildFilterQuery(f Filter, text string) string {
	parts := []string{"@" + fieldActive + ":{1}"}
	if f.Category != "" {
		parts = append(parts, "@"+fieldCategory+":{"+db.EscapeQuery(f.Category)+"}")
	}
	if f.Brand != "" {
		b := db.EscapeQuery(f.Brand)
		parts = append(parts, "(@"+fieldBrand+":("+b+") | @"+fieldTitle+":("+b+"))")
	}
	if f.MinPrice > 0 || f.MaxPrice > 0 {
		min := "-inf"
		if f.MinPrice > 0 {
			min = formatFloat(f.MinPrice)
		}
		max := "+inf"
		if f.MaxPrice > 0 {
			max = formatFloat(f.MaxPrice)
		}
		parts = append(parts, "@"+fieldPrice+":["+min+" "+max+"]")
	}
	if text != "" {
		parts = append(parts, "("+db.EscapeQuery(text)+")")
	}
	return strings.Join(parts, " ")
}

func entriesToProducts(entries []db.SearchEntry) []domain.Product {
	if len(entries) == 0 {
		return nil
	}
	products := make([]domain.Product, 0, len(entries))
	for _, e := range entries {
		if len(e.Fields) == 0 {
			continue
		}
		products = append(products, productFromFields(e.Fields))
	}
	return products
}
