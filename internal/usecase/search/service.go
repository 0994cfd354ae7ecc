package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/TheLout31/bazaarsearch/internal/domain"
	"github.com/TheLout31/bazaarsearch/internal/fuzzy"
	"github.com/TheLout31/bazaarsearch/internal/metrics"
	"github.com/TheLout31/bazaarsearch/internal/repository/catalog"
)

// Options tunes retrieval and pagination. Zero values fall back to the
// documented defaults.
type Options struct {
	DefaultPageSize int     // 20
	MaxPageSize     int     // 100
	CandidateFloor  int     // 20, plain-backend padding target
	FuzzyThreshold  float64 // fuzzy.DefaultThreshold
}

func (o Options) withDefaults() Options {
	if o.DefaultPageSize <= 0 {
		o.DefaultPageSize = 20
	}
	if o.MaxPageSize <= 0 {
		o.MaxPageSize = 100
	}
	if o.CandidateFloor <= 0 {
		o.CandidateFloor = 20
	}
	if o.FuzzyThreshold <= 0 {
		o.FuzzyThreshold = fuzzy.DefaultThreshold
	}
	return o
}

// Request is one search invocation. Page and Limit outside their valid
// ranges are clamped, not rejected.
type Request struct {
	Query    string
	Page     int
	Limit    int
	Category string
	Debug    bool
}

// Page is a ranked result page plus its echo metadata.
type Page struct {
	Query           string
	TotalCandidates int
	Page            int
	Limit           int
	TotalPages      int
	Debug           bool
	Items           []domain.ScoredProduct
}

// Service runs the full query-to-page pipeline: parse, retrieve, rank,
// paginate. Each call is stateless; requests may run in parallel.
type Service struct {
	catalog Catalog
	parser  Parser
	ranker  Ranker
	opts    Options
}

// New creates a search service.
func New(cat Catalog, parser Parser, ranker Ranker, opts Options) *Service {
	return &Service{catalog: cat, parser: parser, ranker: ranker, opts: opts.withDefaults()}
}

// Search executes one search request.
func (s *Service) Search(ctx context.Context, req *Request) (*Page, error) {
	raw := strings.TrimSpace(req.Query)
	if raw == "" {
		metrics.SearchesTotal.WithLabelValues("error").Inc()
		return nil, domain.ErrEmptyQuery
	}

	page, limit := s.normalizePagination(req.Page, req.Limit)
	parsed := s.parser.Parse(raw)
	f := filterFromQuery(parsed, req.Category)

	res, err := s.retrieve(ctx, parsed, f)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("error").Inc()
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, err)
	}

	metrics.SearchCandidates.Observe(float64(len(res.candidates)))
	if res.lastResort {
		metrics.SearchLastResortTotal.Inc()
	}

	scored := s.ranker.Rank(res.candidates, parsed, res.fuzzyScores)

	total := len(scored)
	if total == 0 {
		metrics.SearchesTotal.WithLabelValues("empty").Inc()
	} else {
		metrics.SearchesTotal.WithLabelValues("ok").Inc()
	}

	return &Page{
		Query:           req.Query,
		TotalCandidates: total,
		Page:            page,
		Limit:           limit,
		TotalPages:      (total + limit - 1) / limit,
		Debug:           req.Debug,
		Items:           pageSlice(scored, page, limit),
	}, nil
}

func (s *Service) normalizePagination(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = s.opts.DefaultPageSize
	}
	if limit > s.opts.MaxPageSize {
		limit = s.opts.MaxPageSize
	}
	return page, limit
}

// filterFromQuery turns the parsed query's hard constraints into a
// catalog filter. A caller-supplied category overrides nothing from
// parsing since the interpreter never extracts categories.
func filterFromQuery(pq domain.ParsedQuery, category string) catalog.Filter {
	return catalog.Filter{
		Category: category,
		Brand:    pq.Brand,
		MinPrice: pq.MinPrice,
		MaxPrice: pq.MaxPrice,
	}
}

func pageSlice(scored []domain.ScoredProduct, page, limit int) []domain.ScoredProduct {
	start := (page - 1) * limit
	if start >= len(scored) {
		return nil
	}
	end := start + limit
	if end > len(scored) {
		end = len(scored)
	}
	return scored[start:end]
}
