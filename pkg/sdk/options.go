package bazaarsearch

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "redis" or "memory"
	addrs    []string
	password string

	keyPrefix string

	defaultPageSize int
	maxPageSize     int
	candidateFloor  int
	fuzzyThreshold  float64
	rankingYear     int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithRedis configures the client to connect to a Redis instance with the
// RediSearch module. This is the only driver with native text search.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithMemory configures an in-process catalog store. Useful for tests and
// demos; text search falls back to the fuzzy matching path.
func WithMemory() Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "memory"
	})
}

// WithKeyPrefix sets the key namespace for catalog hashes and the text
// index. Default: "bzs".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithPageSizes sets the default and maximum result page sizes.
// Defaults: 20 and 100.
func WithPageSizes(def, max int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultPageSize = def
		c.maxPageSize = max
	})
}

// WithCandidateFloor sets the minimum candidate pool the retriever pads
// toward on non-searchable backends. Default: 20.
func WithCandidateFloor(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.candidateFloor = n
	})
}

// WithFuzzyThreshold sets the dissimilarity cutoff for fuzzy matching,
// in (0, 1]. Default: 0.45.
func WithFuzzyThreshold(t float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.fuzzyThreshold = t
	})
}

// WithRankingYear pins the recency reference year. Default: current year.
// Pin it in tests for deterministic scores.
func WithRankingYear(year int) Option {
	return optionFunc(func(c *clientConfig) {
		c.rankingYear = year
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
