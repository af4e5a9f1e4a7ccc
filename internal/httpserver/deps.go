package httpserver

import (
	"context"

	"jewelstore/internal/cart"
	"jewelstore/internal/domain"
	"jewelstore/internal/media"
	productrepo "jewelstore/internal/repository/product"
	catalogsvc "jewelstore/internal/service/catalog"
)

// CatalogService is the storefront/back-office catalog surface.
type CatalogService interface {
	ListProducts(ctx context.Context, f productrepo.Filter) (*catalogsvc.Page, error)
	GetProduct(ctx context.Context, idOrSlug string) (*domain.Product, error)
	FilterMeta(ctx context.Context) (*productrepo.FilterMeta, error)
	Categories(ctx context.Context) ([]domain.Category, error)
	ProductTypes(ctx context.Context) ([]domain.ProductType, error)
	UpsertProduct(ctx context.Context, p domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	UpsertCategory(ctx context.Context, c domain.Category) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	UpsertProductType(ctx context.Context, t domain.ProductType) (*domain.ProductType, error)
	DeleteProductType(ctx context.Context, id string) error
}

// AuthService gates the back office.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
	Validate(ctx context.Context, token string) (string, error)
	Logout(ctx context.Context, token string)
	Register(ctx context.Context, email, password string) (*domain.AdminUser, error)
	SessionTTLSeconds() int
}

// MediaService is the image ingestion surface.
type MediaService interface {
	Upload(ctx context.Context, folder, filename string, data []byte) (*media.Object, error)
	ImportFromURL(ctx context.Context, folder, rawURL string, catalogURLs map[string]bool) (*media.ImportResult, error)
	List(ctx context.Context, folder string) ([]media.Object, error)
	Delete(ctx context.Context, objPath string) error
}

// CartSessions hands out per-session cart engines.
type CartSessions interface {
	Issue(ctx context.Context) (string, error)
	Get(ctx context.Context, token string) *cart.Engine
}

// CatalogImages feeds the media import de-dup check.
type CatalogImages interface {
	AllImageURLs(ctx context.Context) ([]string, error)
}

// Deps bundles everything the router needs.
type Deps struct {
	CatalogSvc    CatalogService
	AuthSvc       AuthService
	MediaSvc      MediaService
	Carts         CartSessions
	CatalogImages CatalogImages
}
