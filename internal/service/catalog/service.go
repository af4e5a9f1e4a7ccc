package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"jewelstore/internal/domain"
	productrepo "jewelstore/internal/repository/product"
	taxonomyrepo "jewelstore/internal/repository/taxonomy"
)

// Service exposes catalog browsing for the storefront and catalog mutations
// for the back office.
type Service struct {
	products productrepo.Repository
	taxonomy taxonomyrepo.Repository
}

func New(products productrepo.Repository, taxonomy taxonomyrepo.Repository) *Service {
	return &Service{products: products, taxonomy: taxonomy}
}

// Page is one slice of a filtered product listing.
type Page struct {
	Items  []domain.Product `json:"items"`
	Total  int              `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

func (s *Service) ListProducts(ctx context.Context, f productrepo.Filter) (*Page, error) {
	items, total, err := s.products.List(ctx, f)
	if err != nil {
		return nil, err
	}
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 24
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	if items == nil {
		items = []domain.Product{}
	}
	return &Page{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

// GetProduct resolves by ID when the argument parses as a uuid and by slug
// otherwise, so storefront links can use either. The slug fallback after an
// ID miss only happens on not-found; other errors surface as-is.
func (s *Service) GetProduct(ctx context.Context, idOrSlug string) (*domain.Product, error) {
	if _, err := uuid.Parse(idOrSlug); err != nil {
		return s.products.GetBySlug(ctx, idOrSlug)
	}
	p, err := s.products.GetByID(ctx, idOrSlug)
	if errors.Is(err, domain.ErrNotFound) {
		return s.products.GetBySlug(ctx, idOrSlug)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) FilterMeta(ctx context.Context) (*productrepo.FilterMeta, error) {
	return s.products.FilterMeta(ctx)
}

func (s *Service) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.taxonomy.ListCategories(ctx)
}

func (s *Service) ProductTypes(ctx context.Context) ([]domain.ProductType, error) {
	return s.taxonomy.ListProductTypes(ctx)
}

func (s *Service) UpsertProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return nil, domain.Invalid("name", "required")
	}
	if p.PriceCents < 0 {
		return nil, domain.Invalid("priceCents", "must not be negative")
	}
	if p.SalePriceCents != nil && *p.SalePriceCents < 0 {
		return nil, domain.Invalid("salePriceCents", "must not be negative")
	}
	if p.Slug = strings.TrimSpace(p.Slug); p.Slug == "" {
		p.Slug = Slugify(p.Name)
	}
	if p.Currency == "" {
		p.Currency = "USD"
	}
	return s.products.Upsert(ctx, p)
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	return s.products.Delete(ctx, id)
}

func (s *Service) UpsertCategory(ctx context.Context, c domain.Category) (*domain.Category, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return nil, domain.Invalid("name", "required")
	}
	if c.Slug = strings.TrimSpace(c.Slug); c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
	return s.taxonomy.UpsertCategory(ctx, c)
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	return s.taxonomy.DeleteCategory(ctx, id)
}

func (s *Service) UpsertProductType(ctx context.Context, t domain.ProductType) (*domain.ProductType, error) {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return nil, domain.Invalid("name", "required")
	}
	if t.Slug = strings.TrimSpace(t.Slug); t.Slug == "" {
		t.Slug = Slugify(t.Name)
	}
	return s.taxonomy.UpsertProductType(ctx, t)
}

func (s *Service) DeleteProductType(ctx context.Context, id string) error {
	return s.taxonomy.DeleteProductType(ctx, id)
}

// Slugify lowercases a display name and collapses non-alphanumeric runs to
// single hyphens.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
