package domain

// Intent carries the shopping signals extracted from query phrasing.
// Flags are independent; any subset may be set.
type Intent struct {
	Cheap       bool
	Latest      bool
	Best        bool
	Premium     bool
	MoreStorage bool
	Strong      bool
}

// ParsedQuery is the structured form of a raw search query. Built once per
// request by the interpreter and immutable afterwards.
type ParsedQuery struct {
	// Normalized is the lowercased query after colloquial-phrase and
	// misspelling substitution.
	Normalized string
	// Tokens is the stopword-filtered token list, original order preserved.
	Tokens []string

	Intent Intent

	Brand string
	Color string

	StorageGB int
	RAMGB     int

	// MinPrice/MaxPrice are only meaningful when PriceExplicit is true.
	// Zero MinPrice with PriceExplicit means an open lower bound.
	MinPrice      float64
	MaxPrice      float64
	PriceExplicit bool
}
