package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/TheLout31/bazaarsearch/internal/domain"
)

// seedBatchSize bounds one pipelined write during seeding.
const seedBatchSize = 500

// seedProduct is the JSON shape of one catalog entry in a seed file.
type seedProduct struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	Brand           string            `json:"brand"`
	Category        string            `json:"category"`
	Model           string            `json:"model"`
	Price           float64           `json:"price"`
	MRP             float64           `json:"mrp"`
	DiscountPercent float64           `json:"discountPercent"`
	Currency        string            `json:"currency"`
	Stock           int               `json:"stock"`
	Fulfillment     string            `json:"fulfillmentType"`
	Rating          float64           `json:"rating"`
	ReviewCount     int               `json:"reviewCount"`
	ReturnRate      float64           `json:"returnRate"`
	ComplaintRate   float64           `json:"complaintRate"`
	UnitsSold       int               `json:"unitsSold"`
	SalesVelocity   float64           `json:"salesVelocity"`
	ViewCount       int               `json:"viewCount"`
	Attributes      map[string]string `json:"attributes"`
	Tags            []string          `json:"tags"`
	Color           string            `json:"color"`
	LaunchYear      int               `json:"launchYear"`
	IsActive        *bool             `json:"isActive"` // absent = active
}

// Seed loads a JSON catalog file and upserts its products, ensuring the
// text index exists first. Entries without an ID get a generated one.
// Returns the number of products written.
func (r *Repo) Seed(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}

	var entries []seedProduct
	if err := json.Unmarshal(data, &entries); err != nil {
		return 0, fmt.Errorf("parse seed file: %w", err)
	}

	if err := r.EnsureIndex(ctx); err != nil {
		return 0, err
	}

	products := make([]domain.Product, 0, len(entries))
	for i := range entries {
		products = append(products, productFromSeed(&entries[i]))
	}

	for offset := 0; offset < len(products); offset += seedBatchSize {
		end := offset + seedBatchSize
		if end > len(products) {
			end = len(products)
		}
		if err := r.UpsertMulti(ctx, products[offset:end]); err != nil {
			return offset, fmt.Errorf("seed batch at %d: %w", offset, err)
		}
	}

	return len(products), nil
}

func productFromSeed(e *seedProduct) domain.Product {
	id := e.ID
	if id == "" {
		id = uuid.NewString()
	}
	active := true
	if e.IsActive != nil {
		active = *e.IsActive
	}
	return domain.Product{
		ID:              id,
		Title:           e.Title,
		Description:     e.Description,
		Brand:           e.Brand,
		Category:        e.Category,
		Model:           e.Model,
		Price:           e.Price,
		MRP:             e.MRP,
		DiscountPercent: e.DiscountPercent,
		Currency:        e.Currency,
		Stock:           e.Stock,
		Fulfillment:     e.Fulfillment,
		Rating:          e.Rating,
		ReviewCount:     e.ReviewCount,
		ReturnRate:      e.ReturnRate,
		ComplaintRate:   e.ComplaintRate,
		UnitsSold:       e.UnitsSold,
		SalesVelocity:   e.SalesVelocity,
		ViewCount:       e.ViewCount,
		Attrs:           e.Attributes,
		Tags:            e.Tags,
		Color:           e.Color,
		LaunchYear:      e.LaunchYear,
		IsActive:        active,
	}
}
