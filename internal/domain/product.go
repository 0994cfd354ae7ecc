package domain

import "strconv"

// Fulfillment channels for a product.
const (
	FulfillmentExpress  = "express"
	FulfillmentStandard = "standard"
	FulfillmentSeller   = "seller_fulfilled"
)

// Defaults applied wherever a numeric catalog field is missing.
// A malformed record degrades its own score, it never aborts a batch.
const (
	DefaultRating        = 0.0
	DefaultReturnRate    = 5.0
	DefaultComplaintRate = 2.0
)

// Product is a catalog item. The catalog owns it; the search core only reads.
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
	ReturnRate    float64 // percentage 0-100, lower is better
	ComplaintRate float64 // percentage 0-100, lower is better

	UnitsSold     int
	SalesVelocity float64
	ViewCount     int

	// Attrs is the canonical free-form attribute map (ram, storage, color...).
	// Values are scalars stored as strings; absent keys are never an error.
	Attrs map[string]string

	Tags       []string
	Color      string
	LaunchYear int
	IsActive   bool
}

// Attr returns the raw attribute value, or "" when absent.
func (p *Product) Attr(key string) string {
	if p.Attrs == nil {
		return ""
	}
	return p.Attrs[key]
}

// AttrInt parses an attribute as an integer. Values like "128GB" parse
// from their leading digits. Returns false when the attribute is absent
// or carries no number.
func (p *Product) AttrInt(key string) (int, bool) {
	raw := p.Attr(key)
	if raw == "" {
		return 0, false
	}
	end := 0
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(raw[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
