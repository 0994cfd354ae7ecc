package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/TheLout31/bazaarsearch/internal/db"
	"github.com/TheLout31/bazaarsearch/internal/domain"
)

func TestProductCodecRoundTrip(t *testing.T) {
	want := testProduct("p1")

	got := productFromFields(productToFields(&want))

	if got.ID != want.ID || got.Title != want.Title || got.Brand != want.Brand {
		t.Fatalf("identity fields mismatch: got %+v", got)
	}
	if got.Price != want.Price || got.Stock != want.Stock || got.Rating != want.Rating {
		t.Errorf("numeric fields mismatch: price=%v stock=%d rating=%v", got.Price, got.Stock, got.Rating)
	}
	if got.ReturnRate != want.ReturnRate || got.ComplaintRate != want.ComplaintRate {
		t.Errorf("trust fields mismatch: rr=%v cr=%v", got.ReturnRate, got.ComplaintRate)
	}
	if !got.IsActive {
		t.Error("expected active flag to survive round trip")
	}
	if len(got.Tags) != 2 || got.Tags[0] != "5g" || got.Tags[1] != "flagship" {
		t.Errorf("tags mismatch: %v", got.Tags)
	}
	if got.Attrs["storage"] != "128GB" || got.Attrs["ram"] != "8GB" {
		t.Errorf("attributes mismatch: %v", got.Attrs)
	}
	if got.LaunchYear != 2024 {
		t.Errorf("launch year = %d, want 2024", got.LaunchYear)
	}
}

func TestProductFromFieldsLenientNumerics(t *testing.T) {
	p := productFromFields(map[string]string{
		fieldID:     "p2",
		fieldPrice:  "not-a-number",
		fieldStock:  "",
		fieldActive: "1",
	})
	if p.Price != 0 || p.Stock != 0 {
		t.Errorf("bad numerics should decode to zero, got price=%v stock=%d", p.Price, p.Stock)
	}
	if !p.IsActive {
		t.Error("active flag lost")
	}
}

func TestEnsureIndex(t *testing.T) {
	t.Run("creates index when missing", func(t *testing.T) {
		repo, ms := newTestRepo(t)
		ms.supportsTextSearchFn = func(context.Context) bool { return true }

		var created *db.IndexDefinition
		ms.createIndexFn = func(_ context.Context, def *db.IndexDefinition) error {
			created = def
			return nil
		}

		if err := repo.EnsureIndex(context.Background()); err != nil {
			t.Fatalf("EnsureIndex: %v", err)
		}
		if created == nil {
			t.Fatal("expected CreateIndex to be called")
		}
		if created.Name != "bzs:product:idx" {
			t.Errorf("index name = %q", created.Name)
		}
		if created.Prefix != "bzs:product:" {
			t.Errorf("index prefix = %q", created.Prefix)
		}
		if len(created.TextFields) == 0 || created.TextFields[0].Name != fieldTitle {
			t.Errorf("title should be the first text field, got %+v", created.TextFields)
		}
	})

	t.Run("skips existing index", func(t *testing.T) {
		repo, ms := newTestRepo(t)
		ms.supportsTextSearchFn = func(context.Context) bool { return true }
		ms.indexExistsFn = func(context.Context, string) (bool, error) { return true, nil }
		ms.createIndexFn = func(context.Context, *db.IndexDefinition) error {
			t.Fatal("CreateIndex should not be called")
			return nil
		}

		if err := repo.EnsureIndex(context.Background()); err != nil {
			t.Fatalf("EnsureIndex: %v", err)
		}
	})

	t.Run("tolerates concurrent creation", func(t *testing.T) {
		repo, ms := newTestRepo(t)
		ms.supportsTextSearchFn = func(context.Context) bool { return true }
		ms.createIndexFn = func(context.Context, *db.IndexDefinition) error {
			return db.ErrIndexExists
		}

		if err := repo.EnsureIndex(context.Background()); err != nil {
			t.Fatalf("EnsureIndex: %v", err)
		}
	})

	t.Run("no-op without text search", func(t *testing.T) {
		repo, ms := newTestRepo(t)
		ms.indexExistsFn = func(context.Context, string) (bool, error) {
			t.Fatal("IndexExists should not be called")
			return false, nil
		}
		if err := repo.EnsureIndex(context.Background()); err != nil {
			t.Fatalf("EnsureIndex: %v", err)
		}
	})
}

func TestTextSearchQueryBuilding(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.supportsTextSearchFn = func(context.Context) bool { return true }

	var got *db.TextQuery
	ms.searchTextFn = func(_ context.Context, q *db.TextQuery) (*db.SearchResult, error) {
		got = q
		return &db.SearchResult{}, nil
	}

	f := Filter{Category: "smartphones", Brand: "apple", MinPrice: 10000, MaxPrice: 70000}
	if _, err := repo.TextSearch(context.Background(), "iphone 16", f, 40); err != nil {
		t.Fatalf("TextSearch: %v", err)
	}
	if got == nil {
		t.Fatal("expected SearchText to be called")
	}
	if got.IndexName != "bzs:product:idx" {
		t.Errorf("index name = %q", got.IndexName)
	}
	if got.TopK != 40 {
		t.Errorf("TopK = %d, want 40", got.TopK)
	}
	for _, part := range []string{
		"@active:{1}",
		"@category:{smartphones}",
		"(@brand:(apple) | @title:(apple))",
		"@price:[10000 70000]",
		"(iphone 16)",
	} {
		if !strings.Contains(got.Query, part) {
			t.Errorf("query %q missing part %q", got.Query, part)
		}
	}
}

func TestTextSearchEscapesUserInput(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.supportsTextSearchFn = func(context.Context) bool { return true }

	var got *db.TextQuery
	ms.searchTextFn = func(_ context.Context, q *db.TextQuery) (*db.SearchResult, error) {
		got = q
		return &db.SearchResult{}, nil
	}

	if _, err := repo.TextSearch(context.Background(), "phone @price:[0 0]", Filter{}, 10); err != nil {
		t.Fatalf("TextSearch: %v", err)
	}
	if strings.Contains(got.Query, "(phone @price") {
		t.Errorf("user text was not escaped: %q", got.Query)
	}
	if !strings.Contains(got.Query, `\@price`) {
		t.Errorf("expected escaped @ in %q", got.Query)
	}
}

func TestTextSearchUnsupportedBackend(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.TextSearch(context.Background(), "iphone", Filter{}, 10)
	if !errors.Is(err, db.ErrTextSearchUnsupported) {
		t.Fatalf("err = %v, want ErrTextSearchUnsupported", err)
	}
}

func TestFindActiveScanPath(t *testing.T) {
	repo, ms := newTestRepo(t)

	active := testProduct("p1")
	inactive := testProduct("p2")
	inactive.IsActive = false
	other := testProduct("p3")
	other.Brand = "Samsung"
	other.Category = "smartphones"
	pricey := testProduct("p4")
	pricey.Price = 150000

	all := []domain.Product{active, inactive, other, pricey}

	ms.scanFn = func(_ context.Context, pattern string) ([]string, error) {
		if pattern != "bzs:product:*" {
			t.Errorf("scan pattern = %q", pattern)
		}
		keys := make([]string, len(all))
		for i := range all {
			keys[i] = "bzs:product:" + all[i].ID
		}
		return keys, nil
	}
	ms.hGetAllMultiFn = func(_ context.Context, keys []string) ([]map[string]string, error) {
		hashes := make([]map[string]string, len(all))
		for i := range all {
			hashes[i] = productToFields(&all[i])
		}
		return hashes, nil
	}

	got, err := repo.FindActive(context.Background(), Filter{Brand: "apple", MaxPrice: 100000})
	if err != nil {
		t.Fatalf("FindActive: %v", err)
	}
	if len(got) != 1 || got[0].ID != "p1" {
		ids := make([]string, len(got))
		for i := range got {
			ids[i] = got[i].ID
		}
		t.Fatalf("got ids %v, want [p1]", ids)
	}
}

func TestMatchesFilterBrandInTitle(t *testing.T) {
	// Product-line terms match through the title when the brand field
	// carries the manufacturer.
	p := testProduct("p1")
	if !matchesFilter(&p, Filter{Brand: "iphone"}) {
		t.Error("iphone should match through the title")
	}
	if matchesFilter(&p, Filter{Brand: "samsung"}) {
		t.Error("samsung should not match an Apple product")
	}
}

func TestTopRatedScanPathOrdering(t *testing.T) {
	repo, ms := newTestRepo(t)

	low := testProduct("low")
	low.Rating = 3.9
	high := testProduct("high")
	high.Rating = 4.8
	tieA := testProduct("tie-a")
	tieA.Rating = 4.5
	tieA.UnitsSold = 100
	tieB := testProduct("tie-b")
	tieB.Rating = 4.5
	tieB.UnitsSold = 5000

	all := []domain.Product{low, high, tieA, tieB}
	ms.scanFn = func(context.Context, string) ([]string, error) {
		keys := make([]string, len(all))
		for i := range all {
			keys[i] = "bzs:product:" + all[i].ID
		}
		return keys, nil
	}
	ms.hGetAllMultiFn = func(context.Context, []string) ([]map[string]string, error) {
		hashes := make([]map[string]string, len(all))
		for i := range all {
			hashes[i] = productToFields(&all[i])
		}
		return hashes, nil
	}

	got, err := repo.TopRated(context.Background(), Filter{}, 3)
	if err != nil {
		t.Fatalf("TopRated: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	wantOrder := []string{"high", "tie-b", "tie-a"}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Errorf("position %d = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestTopRatedSearchableSortsByRating(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.supportsTextSearchFn = func(context.Context) bool { return true }

	var got *db.TextQuery
	ms.searchTextFn = func(_ context.Context, q *db.TextQuery) (*db.SearchResult, error) {
		got = q
		return &db.SearchResult{}, nil
	}

	if _, err := repo.TopRated(context.Background(), Filter{}, 20); err != nil {
		t.Fatalf("TopRated: %v", err)
	}
	if got.SortBy != fieldRating || !got.SortDesc {
		t.Errorf("sort = %q desc=%v, want rating descending", got.SortBy, got.SortDesc)
	}
}

func TestUpsertMultiKeys(t *testing.T) {
	repo, ms := newTestRepo(t)
	repo.WithKeyPrefix("shop")

	var items []db.HashSetItem
	ms.hSetMultiFn = func(_ context.Context, got []db.HashSetItem) error {
		items = got
		return nil
	}

	products := []domain.Product{testProduct("a"), testProduct("b")}
	if err := repo.UpsertMulti(context.Background(), products); err != nil {
		t.Fatalf("UpsertMulti: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if items[0].Key != "shop:product:a" || items[1].Key != "shop:product:b" {
		t.Errorf("keys = %q, %q", items[0].Key, items[1].Key)
	}
}
