package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	chiRouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/TheLout31/bazaarsearch/internal/domain"
	"github.com/TheLout31/bazaarsearch/internal/query"
	"github.com/TheLout31/bazaarsearch/internal/ranking"
	"github.com/TheLout31/bazaarsearch/internal/repository/catalog"
	healthuc "github.com/TheLout31/bazaarsearch/internal/usecase/health"
	searchuc "github.com/TheLout31/bazaarsearch/internal/usecase/search"
)

// fakeCatalog is a plain, non-searchable backend stub.
type fakeCatalog struct {
	products []domain.Product
	err      error
}

func (f *fakeCatalog) SupportsTextSearch(context.Context) bool { return false }

func (f *fakeCatalog) TextSearch(
	context.Context, string, catalog.Filter, int,
) ([]domain.Product, error) {
	return nil, nil
}

func (f *fakeCatalog) FindActive(context.Context, catalog.Filter) ([]domain.Product, error) {
	return f.products, f.err
}

func (f *fakeCatalog) TopRated(
	context.Context, catalog.Filter, int,
) ([]domain.Product, error) {
	return nil, nil
}

func (f *fakeCatalog) Ping(context.Context) error { return f.err }

func newTestRouter(t *testing.T, fc *fakeCatalog) http.Handler {
	t.Helper()
	svc := searchuc.New(
		fc,
		query.NewInterpreter(query.DefaultTables()),
		ranking.New().WithYear(2025),
		searchuc.Options{},
	)
	server := NewServer(svc, healthuc.New(fc, nil), zap.NewNop())
	r := chiRouter.NewRouter()
	server.Routes(r)
	return r
}

func iphone() domain.Product {
	return domain.Product{
		ID:          "ip16",
		Title:       "Apple iPhone 16 128GB",
		Brand:       "Apple",
		Category:    "smartphones",
		Price:       69999,
		MRP:         79999,
		Currency:    "INR",
		Stock:       12,
		Rating:      4.6,
		ReviewCount: 1500,
		IsActive:    true,
	}
}

func TestSearchMissingQuery_400(t *testing.T) {
	r := newTestRouter(t, &fakeCatalog{})

	for _, target := range []string{"/api/v1/search", "/api/v1/search?q=%20"} {
		req := httptest.NewRequest("GET", target, http.NoBody)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: got %d, want %d", target, rr.Code, http.StatusBadRequest)
		}
		var errResp errorResponse
		if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
			t.Fatalf("decode error response: %v", err)
		}
		if errResp.Code != codeEmptyQuery {
			t.Errorf("error code: got %s, want %s", errResp.Code, codeEmptyQuery)
		}
	}
}

func TestSearchReturnsPage(t *testing.T) {
	r := newTestRouter(t, &fakeCatalog{products: []domain.Product{iphone()}})

	req := httptest.NewRequest("GET", "/api/v1/search?q=ifone+16", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want 200: %s", rr.Code, rr.Body.String())
	}

	var resp searchResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Query != "ifone 16" {
		t.Errorf("query echo = %q", resp.Query)
	}
	if resp.TotalCandidates != 1 || resp.Page != 1 || resp.Limit != 20 || resp.TotalPages != 1 {
		t.Errorf("metadata = %+v", resp)
	}
	if len(resp.Data) != 1 || resp.Data[0].ID != "ip16" {
		t.Fatalf("data = %+v", resp.Data)
	}
	if resp.Data[0].Scores != nil {
		t.Error("scores must be omitted without debug")
	}
}

func TestSearchDebugIncludesScores(t *testing.T) {
	r := newTestRouter(t, &fakeCatalog{products: []domain.Product{iphone()}})

	req := httptest.NewRequest("GET", "/api/v1/search?q=iphone&debug=true", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", rr.Code)
	}

	var resp searchResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].Scores == nil {
		t.Fatal("expected a score breakdown with debug=true")
	}
	if resp.Data[0].Scores.Final <= 0 {
		t.Errorf("final score = %v, want > 0", resp.Data[0].Scores.Final)
	}
}

func TestSearchZeroCandidates_EmptyData(t *testing.T) {
	r := newTestRouter(t, &fakeCatalog{})

	req := httptest.NewRequest("GET", "/api/v1/search?q=nonexistent+gadget", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", rr.Code)
	}

	var resp searchResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TotalCandidates != 0 || resp.TotalPages != 0 || len(resp.Data) != 0 {
		t.Fatalf("want empty page with zero counts, got %+v", resp)
	}
}

func TestSearchCatalogDown_503(t *testing.T) {
	r := newTestRouter(t, &fakeCatalog{err: errors.New("connection refused")})

	req := httptest.NewRequest("GET", "/api/v1/search?q=iphone", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
	var errResp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != codeCatalogUnavailable {
		t.Errorf("error code: got %s, want %s", errResp.Code, codeCatalogUnavailable)
	}
}

func TestHealthEndpoint(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		r := newTestRouter(t, &fakeCatalog{})

		req := httptest.NewRequest("GET", "/health", http.NoBody)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("got %d, want 200", rr.Code)
		}
		var resp healthResponse
		if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Status != "ok" || resp.Checks["database"] != healthuc.CheckOK {
			t.Errorf("health = %+v", resp)
		}
	})

	t.Run("database down", func(t *testing.T) {
		r := newTestRouter(t, &fakeCatalog{err: errors.New("refused")})

		req := httptest.NewRequest("GET", "/health", http.NoBody)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		if rr.Code != http.StatusServiceUnavailable {
			t.Fatalf("got %d, want 503", rr.Code)
		}
	})
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t, &fakeCatalog{})

	req := httptest.NewRequest("GET", "/metrics", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", rr.Code)
	}
	if rr.Body.Len() == 0 {
		t.Error("expected a non-empty metrics exposition")
	}
}
