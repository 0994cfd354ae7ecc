// Package db defines the storage facade the catalog repository talks to.
// Two drivers implement it: redis (RediSearch-backed, natively searchable)
// and memory (plain process-memory list, no text index).
package db

import (
	"context"
	"strings"
	"time"
)

// Store is the database facade combining all sub-interfaces. Consumers
// should depend on the narrow sub-interfaces they actually use.
type Store interface {
	Pinger
	HashStore
	IndexManager
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashSetItem holds a single key+fields pair for pipelined HSET.
type HashSetItem struct {
	Key    string
	Fields map[string]string
}

// HashStore provides hash-based key-value operations.
type HashStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// TextField is a weighted full-text field in an index schema.
type TextField struct {
	Name   string
	Weight float64
}

// IndexDefinition describes an FT index over hash keys with a prefix.
type IndexDefinition struct {
	Name          string
	Prefix        string
	TextFields    []TextField
	TagFields     []string
	NumericFields []string
}

// IndexManager provides FT index lifecycle operations.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SupportsTextSearch(ctx context.Context) bool
}

// TextQuery is the input for a full-text search. Query is a complete
// FT.SEARCH query string, pre-filters included; EscapeQuery covers the
// user-supplied part.
type TextQuery struct {
	IndexName string
	Query     string
	TopK      int
	SortBy    string // optional numeric field; overrides relevance order
	SortDesc  bool
}

// Searcher provides search operations over FT indexes.
type Searcher interface {
	SearchText(ctx context.Context, q *TextQuery) (*SearchResult, error)
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}

// EscapeQuery escapes RediSearch query syntax in user-supplied text.
func EscapeQuery(s string) string {
	return queryEscaper.Replace(s)
}

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`:`, `\:`,
	`;`, `\;`,
	`$`, `\$`,
)
