package catalog

import (
	"context"
	"errors"
	"testing"

	"jewelstore/internal/domain"
	productrepo "jewelstore/internal/repository/product"
)

type stubProductRepo struct {
	productrepo.Repository
	items      []domain.Product
	total      int
	listErr    error
	lastFilter productrepo.Filter
	upserted   *domain.Product
	byID       *domain.Product
	byIDErr    error
	byIDCalls  int
	bySlug     *domain.Product
	bySlugErr  error
	slugCalls  int
}

func (s *stubProductRepo) List(_ context.Context, f productrepo.Filter) ([]domain.Product, int, error) {
	s.lastFilter = f
	return s.items, s.total, s.listErr
}

func (s *stubProductRepo) GetByID(_ context.Context, _ string) (*domain.Product, error) {
	s.byIDCalls++
	return s.byID, s.byIDErr
}

func (s *stubProductRepo) GetBySlug(_ context.Context, _ string) (*domain.Product, error) {
	s.slugCalls++
	return s.bySlug, s.bySlugErr
}

func (s *stubProductRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.upserted = &p
	return &p, nil
}

func TestListProductsDefaultsPaging(t *testing.T) {
	repo := &stubProductRepo{total: 3}
	svc := New(repo, nil)

	page, err := svc.ListProducts(context.Background(), productrepo.Filter{Limit: -1, Offset: -10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Limit != 24 || page.Offset != 0 || page.Total != 3 {
		t.Fatalf("unexpected page %+v", page)
	}
	if page.Items == nil {
		t.Fatalf("items must serialize as an empty array, not null")
	}
}

func TestGetProductFallsBackToSlug(t *testing.T) {
	want := &domain.Product{ID: "p1", Slug: "sapphire-ring"}
	repo := &stubProductRepo{byIDErr: domain.ErrNotFound, bySlug: want}
	svc := New(repo, nil)

	got, err := svc.GetProduct(context.Background(), "sapphire-ring")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != want {
		t.Fatalf("unexpected product %+v", got)
	}
	if repo.byIDCalls != 0 {
		t.Fatalf("non-uuid argument should skip the ID lookup, got %d calls", repo.byIDCalls)
	}
}

func TestGetProductByUUIDFallsBackOnNotFound(t *testing.T) {
	want := &domain.Product{ID: "p1", Slug: "sapphire-ring"}
	repo := &stubProductRepo{byIDErr: domain.ErrNotFound, bySlug: want}
	svc := New(repo, nil)

	got, err := svc.GetProduct(context.Background(), "7c9d1f1e-59f1-4a0a-9d3c-2f42b3f5a111")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != want || repo.byIDCalls != 1 || repo.slugCalls != 1 {
		t.Fatalf("unexpected lookup path: product %+v, id calls %d, slug calls %d", got, repo.byIDCalls, repo.slugCalls)
	}
}

func TestGetProductSurfacesTransientIDError(t *testing.T) {
	dbDown := errors.New("connection refused")
	repo := &stubProductRepo{byIDErr: dbDown}
	svc := New(repo, nil)

	_, err := svc.GetProduct(context.Background(), "7c9d1f1e-59f1-4a0a-9d3c-2f42b3f5a111")
	if !errors.Is(err, dbDown) {
		t.Fatalf("expected the ID lookup error, got %v", err)
	}
	if repo.slugCalls != 0 {
		t.Fatalf("transient error must not trigger the slug fallback, got %d calls", repo.slugCalls)
	}
}

func TestUpsertProductValidation(t *testing.T) {
	svc := New(&stubProductRepo{}, nil)

	if _, err := svc.UpsertProduct(context.Background(), domain.Product{Name: "  "}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for empty name, got %v", err)
	}
	if _, err := svc.UpsertProduct(context.Background(), domain.Product{Name: "Ring", PriceCents: -1}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for negative price, got %v", err)
	}
}

func TestUpsertProductDerivesSlugAndCurrency(t *testing.T) {
	repo := &stubProductRepo{}
	svc := New(repo, nil)

	got, err := svc.UpsertProduct(context.Background(), domain.Product{Name: "Art Déco Émerald Ring", PriceCents: 120000})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if got.Slug != "art-d-co-merald-ring" {
		t.Fatalf("unexpected slug %q", got.Slug)
	}
	if got.Currency != "USD" {
		t.Fatalf("expected default currency, got %q", got.Currency)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Gold Hoop Earrings":  "gold-hoop-earrings",
		"  Pearl -- Necklace": "pearl-necklace",
		"18K!":                "18k",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
