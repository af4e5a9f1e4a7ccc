package taxonomy

import (
	"context"

	"jewelstore/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) ListCategories(ctx context.Context) ([]domain.Category, error) {
	const q = `
SELECT id::text, slug, name, created_at
FROM categories
ORDER BY name ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Slug, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *postgresRepo) UpsertCategory(ctx context.Context, c domain.Category) (*domain.Category, error) {
	const q = `
INSERT INTO categories (slug, name)
VALUES ($1, $2)
ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
RETURNING id::text, created_at
`
	out := c
	if err := r.pool.QueryRow(ctx, q, c.Slug, c.Name).Scan(&out.ID, &out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) DeleteCategory(ctx context.Context, id string) error {
	return r.deleteWithDetach(ctx, id,
		`UPDATE products SET category_id = NULL WHERE category_id = $1`,
		`DELETE FROM categories WHERE id = $1`,
	)
}

func (r *postgresRepo) ListProductTypes(ctx context.Context) ([]domain.ProductType, error) {
	const q = `
SELECT id::text, slug, name, created_at
FROM product_types
ORDER BY name ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ProductType
	for rows.Next() {
		var t domain.ProductType
		if err := rows.Scan(&t.ID, &t.Slug, &t.Name, &t.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func (r *postgresRepo) UpsertProductType(ctx context.Context, t domain.ProductType) (*domain.ProductType, error) {
	const q = `
INSERT INTO product_types (slug, name)
VALUES ($1, $2)
ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
RETURNING id::text, created_at
`
	out := t
	if err := r.pool.QueryRow(ctx, q, t.Slug, t.Name).Scan(&out.ID, &out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) DeleteProductType(ctx context.Context, id string) error {
	return r.deleteWithDetach(ctx, id,
		`UPDATE products SET product_type_id = NULL WHERE product_type_id = $1`,
		`DELETE FROM product_types WHERE id = $1`,
	)
}

func (r *postgresRepo) deleteWithDetach(ctx context.Context, id, detachQuery, deleteQuery string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, detachQuery, id); err != nil {
		return err
	}
	cmd, err := tx.Exec(ctx, deleteQuery, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return tx.Commit(ctx)
}
