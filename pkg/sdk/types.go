package bazaarsearch

import "github.com/TheLout31/bazaarsearch/internal/domain"

// Product is a catalog item as seen through the SDK.
type Product struct {
	ID          string
	Title       string
	Description string
	Brand       string
	Category    string
	Model       string

	Price           float64
	MRP             float64
	DiscountPercent float64
	Currency        string

	Stock       int
	Fulfillment string

	Rating        float64
	ReviewCount   int
	ReturnRate    float64
	ComplaintRate float64

	UnitsSold     int
	SalesVelocity float64
	ViewCount     int

	Attributes map[string]string
	Tags       []string
	Color      string
	LaunchYear int
	Inactive   bool // zero value means active
}

// ScoreBreakdown is the per-signal ranking breakdown for a search hit.
// Populated only when SearchOptions.Debug is set.
type ScoreBreakdown struct {
	Text       float64
	Quality    float64
	Popularity float64
	Stock      float64
	Commercial float64
	Intent     float64
	Final      float64
}

// SearchHit is a single ranked search result.
type SearchHit struct {
	Product
	Scores *ScoreBreakdown
}

// SearchPage is one page of ranked results plus echo metadata.
type SearchPage struct {
	Query           string
	TotalCandidates int
	Page            int
	Limit           int
	TotalPages      int
	Hits            []SearchHit
}

// SearchOptions configures a search call. The zero value asks for the
// first page at the default page size.
type SearchOptions struct {
	Page     int
	Limit    int
	Category string
	Debug    bool
}

func productToDomain(p *Product) domain.Product {
	return domain.Product{
		ID:              p.ID,
		Title:           p.Title,
		Description:     p.Description,
		Brand:           p.Brand,
		Category:        p.Category,
		Model:           p.Model,
		Price:           p.Price,
		MRP:             p.MRP,
		DiscountPercent: p.DiscountPercent,
		Currency:        p.Currency,
		Stock:           p.Stock,
		Fulfillment:     p.Fulfillment,
		Rating:          p.Rating,
		ReviewCount:     p.ReviewCount,
		ReturnRate:      p.ReturnRate,
		ComplaintRate:   p.ComplaintRate,
		UnitsSold:       p.UnitsSold,
		SalesVelocity:   p.SalesVelocity,
		ViewCount:       p.ViewCount,
		Attrs:           p.Attributes,
		Tags:            p.Tags,
		Color:           p.Color,
		LaunchYear:      p.LaunchYear,
		IsActive:        !p.Inactive,
	}
}

func productFromDomain(p *domain.Product) Product {
	return Product{
		ID:              p.ID,
		Title:           p.Title,
		Description:     p.Description,
		Brand:           p.Brand,
		Category:        p.Category,
		Model:           p.Model,
		Price:           p.Price,
		MRP:             p.MRP,
		DiscountPercent: p.DiscountPercent,
		Currency:        p.Currency,
		Stock:           p.Stock,
		Fulfillment:     p.Fulfillment,
		Rating:          p.Rating,
		ReviewCount:     p.ReviewCount,
		ReturnRate:      p.ReturnRate,
		ComplaintRate:   p.ComplaintRate,
		UnitsSold:       p.UnitsSold,
		SalesVelocity:   p.SalesVelocity,
		ViewCount:       p.ViewCount,
		Attributes:      p.Attrs,
		Tags:            p.Tags,
		Color:           p.Color,
		LaunchYear:      p.LaunchYear,
		Inactive:        !p.IsActive,
	}
}

func hitFromScored(sp *domain.ScoredProduct, debug bool) SearchHit {
	hit := SearchHit{Product: productFromDomain(&sp.Product)}
	if debug {
		hit.Scores = &ScoreBreakdown{
			Text:       sp.Scores.Text,
			Quality:    sp.Scores.Quality,
			Popularity: sp.Scores.Popularity,
			Stock:      sp.Scores.Stock,
			Commercial: sp.Scores.Commercial,
			Intent:     sp.Scores.Intent,
			Final:      sp.Scores.Final,
		}
	}
	return hit
}
