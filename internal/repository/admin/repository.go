package admin

import (
	"context"

	"jewelstore/internal/domain"
)

type Repository interface {
	GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error)
	Create(ctx context.Context, email, passwordHash string) (*domain.AdminUser, error)
}
