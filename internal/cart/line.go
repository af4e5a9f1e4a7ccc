package cart

import (
	"sort"
	"strings"

	"jewelstore/internal/domain"
)

// Line is one cart entry: a product+variant combination and its quantity.
// Display fields are snapshots taken at add time and never re-synced with
// the catalog; only Quantity mutates after creation.
type Line struct {
	ID              string            `json:"id"`
	ProductID       string            `json:"productId"`
	Title           string            `json:"title"`
	PriceCents      int64             `json:"priceCents"`
	Image           string            `json:"image,omitempty"`
	Quantity        int               `json:"quantity"`
	Category        string            `json:"category,omitempty"`
	ProductType     string            `json:"productType,omitempty"`
	SelectedOptions map[string]string `json:"selectedOptions,omitempty"`
}

// LineID derives the identity key for a product+options combination.
// Option keys are sorted so equivalent selections produce the same ID
// regardless of map ordering.
func LineID(productID string, opts map[string]string) string {
	if len(opts) == 0 {
		return productID
	}
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(productID)
	for _, k := range keys {
		b.WriteString("|")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(opts[k])
	}
	return b.String()
}

func newLine(p domain.Product, quantity int, opts map[string]string, unitPriceCents int64) Line {
	image := ""
	if len(p.Images) > 0 {
		image = p.Images[0]
	}
	var selected map[string]string
	if len(opts) > 0 {
		selected = make(map[string]string, len(opts))
		for k, v := range opts {
			selected[k] = v
		}
	}
	return Line{
		ID:              LineID(p.ID, opts),
		ProductID:       p.ID,
		Title:           p.Name,
		PriceCents:      unitPriceCents,
		Image:           image,
		Quantity:        quantity,
		Category:        p.CategoryName,
		ProductType:     p.ProductType,
		SelectedOptions: selected,
	}
}
