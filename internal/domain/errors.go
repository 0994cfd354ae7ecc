package domain

import "errors"

var (
	// ErrEmptyQuery signals a missing or blank search query.
	ErrEmptyQuery = errors.New("query is required")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrCatalogUnavailable signals that the catalog store failed or timed out.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrTextSearchNotSupported signals that the backend lacks a native text index.
	ErrTextSearchNotSupported = errors.New("text search not supported by backend")
)
