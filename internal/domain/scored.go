package domain

// Breakdown is the per-factor score decomposition of a ranked product.
// Every component lies in [0,1]; Final is the weighted blend after the
// out-of-stock penalty.
type Breakdown struct {
	Text       float64 `json:"text"`
	Quality    float64 `json:"quality"`
	Popularity float64 `json:"popularity"`
	Stock      float64 `json:"stock"`
	Commercial float64 `json:"commercial"`
	Intent     float64 `json:"intent"`
	Final      float64 `json:"final"`
}

// ScoredProduct pairs a product with its score breakdown. Built by the
// ranker, consumed by the presentation layer, never persisted.
type ScoredProduct struct {
	Product
	Scores Breakdown
}
