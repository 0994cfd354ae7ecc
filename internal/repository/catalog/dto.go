package catalog

import (
	"strconv"
	"strings"

	"github.com/TheLout31/bazaarsearch/internal/domain"
)

// Hash field names. Free-form attributes are stored flattened under an
// "attr:" prefix so arbitrary keys never collide with fixed fields.
const (
	fieldID            = "id"
	fieldTitle         = "title"
	fieldDescription   = "description"
	fieldBrand         = "brand"
	fieldCategory      = "category"
	fieldModel         = "model"
	fieldPrice         = "price"
	fieldMRP           = "mrp"
	fieldDiscount      = "discount_percent"
	fieldCurrency      = "currency"
	fieldStock         = "stock"
	fieldFulfillment   = "fulfillment"
	fieldRating        = "rating"
	fieldReviewCount   = "review_count"
	fieldReturnRate    = "return_rate"
	fieldComplaintRate = "complaint_rate"
	fieldUnitsSold     = "units_sold"
	fieldSalesVelocity = "sales_velocity"
	fieldViewCount     = "view_count"
	fieldTags          = "tags"
	fieldColor         = "color"
	fieldLaunchYear    = "launch_year"
	fieldActive        = "active"

	attrPrefix = "attr:"
)

func productToFields(p *domain.Product) map[string]string {
	fields := map[string]string{
		fieldID:            p.ID,
		fieldTitle:         p.Title,
		fieldDescription:   p.Description,
		fieldBrand:         p.Brand,
		fieldCategory:      p.Category,
		fieldModel:         p.Model,
		fieldPrice:         formatFloat(p.Price),
		fieldMRP:           formatFloat(p.MRP),
		fieldDiscount:      formatFloat(p.DiscountPercent),
		fieldCurrency:      p.Currency,
		fieldStock:         strconv.Itoa(p.Stock),
		fieldFulfillment:   p.Fulfillment,
		fieldRating:        formatFloat(p.Rating),
		fieldReviewCount:   strconv.Itoa(p.ReviewCount),
		fieldReturnRate:    formatFloat(p.ReturnRate),
		fieldComplaintRate: formatFloat(p.ComplaintRate),
		fieldUnitsSold:     strconv.Itoa(p.UnitsSold),
		fieldSalesVelocity: formatFloat(p.SalesVelocity),
		fieldViewCount:     strconv.Itoa(p.ViewCount),
		fieldTags:          strings.Join(p.Tags, ","),
		fieldColor:         p.Color,
		fieldLaunchYear:    strconv.Itoa(p.LaunchYear),
		fieldActive:        boolFlag(p.IsActive),
	}
	for k, v := range p.Attrs {
		fields[attrPrefix+k] = v
	}
	return fields
}

// productFromFields decodes a hash into a product. Unparseable numerics
// fall back to zero values; scoring applies its documented defaults.
func productFromFields(fields map[string]string) domain.Product {
	p := domain.Product{
		ID:          fields[fieldID],
		Title:       fields[fieldTitle],
		Description: fields[fieldDescription],
		Brand:       fields[fieldBrand],
		Category:    fields[fieldCategory],
		Model:       fields[fieldModel],
		Currency:    fields[fieldCurrency],
		Fulfillment: fields[fieldFulfillment],
		Color:       fields[fieldColor],
		IsActive:    fields[fieldActive] == "1",
	}

	p.Price = parseFloat(fields[fieldPrice])
	p.MRP = parseFloat(fields[fieldMRP])
	p.DiscountPercent = parseFloat(fields[fieldDiscount])
	p.Stock = parseInt(fields[fieldStock])
	p.Rating = parseFloat(fields[fieldRating])
	p.ReviewCount = parseInt(fields[fieldReviewCount])
	p.ReturnRate = parseFloat(fields[fieldReturnRate])
	p.ComplaintRate = parseFloat(fields[fieldComplaintRate])
	p.UnitsSold = parseInt(fields[fieldUnitsSold])
	p.SalesVelocity = parseFloat(fields[fieldSalesVelocity])
	p.ViewCount = parseInt(fields[fieldViewCount])
	p.LaunchYear = parseInt(fields[fieldLaunchYear])

	if raw := fields[fieldTags]; raw != "" {
		p.Tags = strings.Split(raw, ",")
	}

	for k, v := range fields {
		if !strings.HasPrefix(k, attrPrefix) {
			continue
		}
		if p.Attrs == nil {
			p.Attrs = make(map[string]string)
		}
		p.Attrs[strings.TrimPrefix(k, attrPrefix)] = v
	}

	return p
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func parseInt(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
