package bazaarsearch

import "github.com/TheLout31/bazaarsearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrEmptyQuery             = domain.ErrEmptyQuery
	ErrNotFound               = domain.ErrNotFound
	ErrCatalogUnavailable     = domain.ErrCatalogUnavailable
	ErrTextSearchNotSupported = domain.ErrTextSearchNotSupported
)
