package bazaarsearch

import (
	"context"
	"fmt"
	"time"

	"github.com/TheLout31/bazaarsearch/internal/db"
	dbMemory "github.com/TheLout31/bazaarsearch/internal/db/memory"
	dbRedis "github.com/TheLout31/bazaarsearch/internal/db/redis"
	"github.com/TheLout31/bazaarsearch/internal/query"
	"github.com/TheLout31/bazaarsearch/internal/ranking"
	"github.com/TheLout31/bazaarsearch/internal/repository/catalog"
	healthuc "github.com/TheLout31/bazaarsearch/internal/usecase/health"
	searchuc "github.com/TheLout31/bazaarsearch/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// searchUseCase is the internal interface for running searches,
// substitutable in tests.
type searchUseCase interface {
	Search(ctx context.Context, req *searchuc.Request) (*searchuc.Page, error)
}

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the bazaarsearch SDK entry point. It embeds the full search
// pipeline over a Redis or in-process catalog store, no HTTP server needed.
type Client struct {
	store     db.Store
	repo      *catalog.Repo
	searchSvc searchUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and connects to the catalog store.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{driver: "memory"}
	for _, o := range opts {
		o.apply(cfg)
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("bazaarsearch: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}

	return wireClient(ctx, store, cfg, obs)
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("bazaarsearch: create redis store: %w", err)
		}
		return s, nil
	case "memory":
		return dbMemory.NewStore(), nil
	default:
		return nil, fmt.Errorf("bazaarsearch: unknown driver %q", cfg.driver)
	}
}

func wireClient(ctx context.Context, store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	repo := catalog.New(store)
	if cfg.keyPrefix != "" {
		repo = repo.WithKeyPrefix(cfg.keyPrefix)
	}
	if err := repo.EnsureIndex(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("bazaarsearch: ensure catalog index: %w", err)
	}

	ranker := ranking.New()
	if cfg.rankingYear > 0 {
		ranker = ranker.WithYear(cfg.rankingYear)
	}

	searchSvc := searchuc.New(
		repo,
		query.NewInterpreter(query.DefaultTables()),
		ranker,
		searchuc.Options{
			DefaultPageSize: cfg.defaultPageSize,
			MaxPageSize:     cfg.maxPageSize,
			CandidateFloor:  cfg.candidateFloor,
			FuzzyThreshold:  cfg.fuzzyThreshold,
		},
	)

	return &Client{
		store:     store,
		repo:      repo,
		searchSvc: searchSvc,
		healthSvc: healthuc.New(store, repo),
		obs:       obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search runs the full pipeline for a raw user query: interpretation,
// candidate retrieval, ranking and pagination.
func (c *Client) Search(ctx context.Context, rawQuery string, opts SearchOptions) (_ SearchPage, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	page, err := c.searchSvc.Search(ctx, &searchuc.Request{
		Query:    rawQuery,
		Page:     opts.Page,
		Limit:    opts.Limit,
		Category: opts.Category,
		Debug:    opts.Debug,
	})
	if err != nil {
		return SearchPage{}, fmt.Errorf("search: %w", err)
	}

	hits := make([]SearchHit, 0, len(page.Items))
	for i := range page.Items {
		hits = append(hits, hitFromScored(&page.Items[i], opts.Debug))
	}
	return SearchPage{
		Query:           page.Query,
		TotalCandidates: page.TotalCandidates,
		Page:            page.Page,
		Limit:           page.Limit,
		TotalPages:      page.TotalPages,
		Hits:            hits,
	}, nil
}

// Catalog returns the catalog management service.
func (c *Client) Catalog() *CatalogService {
	return &CatalogService{repo: c.repo, obs: c.obs}
}
