package domain

import "time"

type Product struct {
	ID             string    `json:"id"`
	Slug           string    `json:"slug"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	PriceCents     int64     `json:"priceCents"`
	SalePriceCents *int64    `json:"salePriceCents,omitempty"`
	Currency       string    `json:"currency"`
	Images         []string  `json:"images,omitempty"`
	CategoryID     *string   `json:"categoryId,omitempty"`
	CategoryName   string    `json:"categoryName,omitempty"`
	ProductTypeID  *string   `json:"productTypeId,omitempty"`
	ProductType    string    `json:"productType,omitempty"`
	InStock        bool      `json:"inStock"`
	CreatedAt      time.Time `json:"createdAt"`
}

// EffectivePriceCents is the unit price a shopper pays: the sale price when
// present and lower than the list price, otherwise the list price.
func (p Product) EffectivePriceCents() int64 {
	if p.SalePriceCents != nil && *p.SalePriceCents < p.PriceCents {
		return *p.SalePriceCents
	}
	return p.PriceCents
}
