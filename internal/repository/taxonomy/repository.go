package taxonomy

import (
	"context"

	"jewelstore/internal/domain"
)

// Repository manages the two lookup taxonomies products hang off: categories
// and product types. Both are weak references; deleting an entry nulls the
// reference on affected products instead of cascading.
type Repository interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	UpsertCategory(ctx context.Context, c domain.Category) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	ListProductTypes(ctx context.Context) ([]domain.ProductType, error)
	UpsertProductType(ctx context.Context, t domain.ProductType) (*domain.ProductType, error)
	DeleteProductType(ctx context.Context, id string) error
}
