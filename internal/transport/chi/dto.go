package chi

import (
	"github.com/TheLout31/bazaarsearch/internal/domain"
	healthuc "github.com/TheLout31/bazaarsearch/internal/usecase/health"
	searchuc "github.com/TheLout31/bazaarsearch/internal/usecase/search"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type healthResponse struct {
	Status string                          `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

type searchResponse struct {
	Query           string        `json:"query"`
	TotalCandidates int           `json:"totalCandidates"`
	Page            int           `json:"page"`
	Limit           int           `json:"limit"`
	TotalPages      int           `json:"totalPages"`
	Data            []productView `json:"data"`
}

type productView struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	Description     string            `json:"description,omitempty"`
	Brand           string            `json:"brand,omitempty"`
	Category        string            `json:"category,omitempty"`
	MRP             float64           `json:"mrp"`
	Price           float64           `json:"price"`
	DiscountPercent float64           `json:"discountPercent"`
	Currency        string            `json:"currency,omitempty"`
	Rating          float64           `json:"rating"`
	ReviewCount     int               `json:"reviewCount"`
	Stock           int               `json:"stock"`
	Attributes      map[string]string `json:"attributes,omitempty"`
	Color           string            `json:"color,omitempty"`
	FulfillmentType string            `json:"fulfillmentType,omitempty"`

	Scores *domain.Breakdown `json:"scores,omitempty"`
}

func searchResponseFromPage(page *searchuc.Page) searchResponse {
	data := make([]productView, len(page.Items))
	for i := range page.Items {
		data[i] = productViewFromScored(&page.Items[i], page.Debug)
	}
	return searchResponse{
		Query:           page.Query,
		TotalCandidates: page.TotalCandidates,
		Page:            page.Page,
		Limit:           page.Limit,
		TotalPages:      page.TotalPages,
		Data:            data,
	}
}

func productViewFromScored(sp *domain.ScoredProduct, debug bool) productView {
	view := productView{
		ID:              sp.ID,
		Title:           sp.Title,
		Description:     sp.Description,
		Brand:           sp.Brand,
		Category:        sp.Category,
		MRP:             sp.MRP,
		Price:           sp.Price,
		DiscountPercent: sp.DiscountPercent,
		Currency:        sp.Currency,
		Rating:          sp.Rating,
		ReviewCount:     sp.ReviewCount,
		Stock:           sp.Stock,
		Attributes:      sp.Attrs,
		Color:           sp.Color,
		FulfillmentType: sp.Fulfillment,
	}
	if debug {
		scores := sp.Scores
		view.Scores = &scores
	}
	return view
}
