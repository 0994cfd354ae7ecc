// Package ranking computes the composite relevance score that orders search
// results. All arithmetic clamps and defaults; a malformed candidate record
// degrades its own score instead of failing the batch.
package ranking

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/TheLout31/bazaarsearch/internal/domain"
)

// Blend weights of the six sub-scores. They sum to 1.0.
const (
	weightText       = 0.30
	weightQuality    = 0.22
	weightPopularity = 0.18
	weightStock      = 0.08
	weightCommercial = 0.10
	weightIntent     = 0.12
)

// Bayesian shrinkage prior: items are pulled toward a 3.5 rating with the
// strength of 50 reviews, so a single 5-star review cannot outrank a
// well-reviewed 4.5-star item.
const (
	priorRating  = 3.5
	priorReviews = 50.0
)

// Log-compression ceilings for the popularity blend.
const (
	popUnitsCeiling    = 50000.0
	popVelocityCeiling = 2000.0
	popViewsCeiling    = 100000.0
)

// Out-of-stock items keep their composite score halved on top of the zero
// stock sub-score; the two penalties compound.
const outOfStockPenalty = 0.5

const freshnessBaseYear = 2018

// Ranker scores and orders candidates. Safe for concurrent use.
type Ranker struct {
	currentYear int
}

// New creates a ranker pinned to the current wall-clock year.
func New() *Ranker {
	return &Ranker{currentYear: time.Now().Year()}
}

// WithYear pins the freshness reference year; tests use this to stay
// deterministic.
func (r *Ranker) WithYear(year int) *Ranker {
	r.currentYear = year
	return r
}

// Rank computes the six sub-scores per candidate, blends them, and sorts
// descending by final score. The sort is stable: equal scores keep input
// order. A candidate missing from fuzzyScores counts as dissimilarity 1.
func (r *Ranker) Rank(
	candidates []domain.Product, pq domain.ParsedQuery, fuzzyScores map[string]float64,
) []domain.ScoredProduct {
	scored := make([]domain.ScoredProduct, len(candidates))
	for i, p := range candidates {
		dissim, ok := fuzzyScores[p.ID]
		if !ok {
			dissim = 1
		}

		b := domain.Breakdown{
			Text:       textScore(&p, pq, dissim),
			Quality:    qualityScore(&p),
			Popularity: popularityScore(&p),
			Stock:      stockScore(&p),
			Commercial: commercialScore(&p),
			Intent:     r.intentScore(&p, pq),
		}

		final := weightText*b.Text +
			weightQuality*b.Quality +
			weightPopularity*b.Popularity +
			weightStock*b.Stock +
			weightCommercial*b.Commercial +
			weightIntent*b.Intent
		if p.Stock <= 0 {
			final *= outOfStockPenalty
		}
		b.Final = final

		scored[i] = domain.ScoredProduct{Product: p, Scores: b}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Scores.Final > scored[j].Scores.Final
	})
	return scored
}

// textScore blends fuzzy similarity, token coverage across all text fields,
// and a leading-token title bonus.
func textScore(p *domain.Product, pq domain.ParsedQuery, dissim float64) float64 {
	score := 0.6 * (1 - clamp01(dissim))

	if len(pq.Tokens) > 0 {
		haystack := strings.ToLower(strings.Join([]string{
			p.Title, p.Brand, p.Description, strings.Join(p.Tags, " "), p.Model,
		}, " "))
		covered := 0
		for _, tok := range pq.Tokens {
			if strings.Contains(haystack, tok) {
				covered++
			}
		}
		score += 0.35 * float64(covered) / float64(len(pq.Tokens))

		if strings.HasPrefix(strings.ToLower(p.Title), pq.Tokens[0]) {
			score += 0.15
		}
	}
	return clamp01(score)
}

// qualityScore combines the shrunk rating with return and complaint rates.
func qualityScore(p *domain.Product) float64 {
	rating := p.Rating
	if rating < 0 {
		rating = domain.DefaultRating
	}
	reviews := float64(p.ReviewCount)
	if reviews < 0 {
		reviews = 0
	}
	adjusted := (priorReviews*priorRating + rating*reviews) / (priorReviews + reviews)

	returnRate := p.ReturnRate
	if returnRate <= 0 {
		returnRate = domain.DefaultReturnRate
	}
	complaintRate := p.ComplaintRate
	if complaintRate <= 0 {
		complaintRate = domain.DefaultComplaintRate
	}

	score := 0.6*(adjusted/5) +
		0.25*(1-returnRate/100) +
		0.15*(1-complaintRate/100)
	return clamp01(score)
}

// popularityScore is a log-compressed blend so a handful of viral items
// cannot saturate the score.
func popularityScore(p *domain.Product) float64 {
	return clamp01(0.5*logRatio(float64(p.UnitsSold), popUnitsCeiling) +
		0.35*logRatio(p.SalesVelocity, popVelocityCeiling) +
		0.15*logRatio(float64(p.ViewCount), popViewsCeiling))
}

func logRatio(v, ceiling float64) float64 {
	if v <= 0 {
		return 0
	}
	return clamp01(math.Log1p(v) / math.Log1p(ceiling))
}

// stockScore tiers availability and rewards express fulfillment.
func stockScore(p *domain.Product) float64 {
	if p.Stock <= 0 {
		return 0
	}
	var score float64
	switch {
	case p.Stock >= 50:
		score = 1.0
	case p.Stock >= 10:
		score = 0.75
	default:
		score = 0.5
	}
	if p.Fulfillment == domain.FulfillmentExpress {
		score += 0.15
	}
	return clamp01(score)
}

// commercialScore rewards deeper discounts with diminishing returns.
func commercialScore(p *domain.Product) float64 {
	if p.DiscountPercent <= 0 {
		return 0
	}
	return clamp01(math.Log1p(p.DiscountPercent) / math.Log1p(70))
}

// intentScore accumulates independent additive bonuses conditioned on the
// parsed intent, then clamps. The price-violation penalty can drive the raw
// sum negative; the clamp floors it at zero so an out-of-range item loses
// the in-range reward but never scores below other bonuses it earned.
func (r *Ranker) intentScore(p *domain.Product, pq domain.ParsedQuery) float64 {
	score := 0.0

	if pq.Intent.Cheap {
		discountPart := math.Min(1, p.DiscountPercent/50)
		pricePart := 0.0
		switch {
		case p.Price < 20000:
			pricePart = 0.3
		case p.Price < 40000:
			pricePart = 0.15
		}
		score += 0.5*discountPart + 0.5*pricePart
	}

	if pq.Intent.Latest {
		span := float64(r.currentYear - freshnessBaseYear)
		if span > 0 {
			score += clamp01(float64(p.LaunchYear-freshnessBaseYear)/span) * 0.8
		}
		if gen := modelGeneration(p.Title); gen >= 15 {
			score += 0.1
			if gen >= 16 {
				score += 0.1
			}
		}
	}

	if pq.Intent.Best {
		score += clamp01((p.Rating-3)/2) * 0.9
	}

	if pq.Intent.Premium {
		switch {
		case p.Price > 80000:
			score += 0.6
		case p.Price > 50000:
			score += 0.3
		case p.Price > 30000:
			score += 0.1
		}
	}

	if pq.Intent.MoreStorage && pq.StorageGB > 0 {
		if storage, ok := p.AttrInt("storage"); ok && storage >= pq.StorageGB {
			score += 0.5
		}
	}

	if pq.Color != "" && matchesColor(p, pq.Color) {
		score += 0.6
	}

	if pq.RAMGB > 0 {
		if ram, ok := p.AttrInt("ram"); ok && ram >= pq.RAMGB {
			score += 0.3
		}
	}

	if pq.PriceExplicit {
		inRange := (pq.MinPrice <= 0 || p.Price >= pq.MinPrice) &&
			(pq.MaxPrice <= 0 || p.Price <= pq.MaxPrice)
		if inRange {
			score += 0.4
		} else {
			score -= 0.8
		}
	}

	return clamp01(score)
}

// modelGeneration pulls the largest bare numeric token under 100 from the
// title; storage sizes and prices in titles read as larger numbers and are
// skipped.
func modelGeneration(title string) int {
	best := 0
	for _, tok := range strings.Fields(title) {
		n, err := strconv.Atoi(tok)
		if err == nil && n < 100 && n > best {
			best = n
		}
	}
	return best
}

func matchesColor(p *domain.Product, color string) bool {
	if strings.Contains(strings.ToLower(p.Title), color) {
		return true
	}
	if strings.EqualFold(p.Color, color) {
		return true
	}
	return strings.Contains(strings.ToLower(p.Attr("color")), color)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
