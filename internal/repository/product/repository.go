package product

import (
	"context"

	"jewelstore/internal/domain"
)

// Filter narrows a catalog listing. Zero values mean "no constraint".
type Filter struct {
	CategorySlug    string
	ProductTypeSlug string
	MinPriceCents   *int64
	MaxPriceCents   *int64
	Search          string
	InStockOnly     bool
	Limit           int
	Offset          int
}

// FilterMeta feeds the storefront filter sidebar.
type FilterMeta struct {
	Categories []CategoryCount `json:"categories"`
	MinPrice   int64           `json:"minPriceCents"`
	MaxPrice   int64           `json:"maxPriceCents"`
	InStock    int             `json:"inStock"`
	OutOfStock int             `json:"outOfStock"`
}

type CategoryCount struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type Repository interface {
	List(ctx context.Context, f Filter) ([]domain.Product, int, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	FilterMeta(ctx context.Context) (*FilterMeta, error)
	AllImageURLs(ctx context.Context) ([]string, error)
}
