package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"jewelstore/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const productColumns = `
p.id::text, p.slug, p.name, COALESCE(p.description, ''), p.price_cents, p.sale_price_cents,
p.currency, p.images, p.category_id::text, COALESCE(c.name, ''), p.product_type_id::text, COALESCE(t.name, ''),
p.in_stock, p.created_at
`

const productJoins = `
FROM products p
LEFT JOIN categories c ON c.id = p.category_id
LEFT JOIN product_types t ON t.id = p.product_type_id
`

func (r *postgresRepo) List(ctx context.Context, f Filter) ([]domain.Product, int, error) {
	where, args := buildWhere(f)

	countQuery := "SELECT COUNT(*) " + productJoins + where
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.Printf("product repo: count error=%v", err)
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 24
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	query := "SELECT " + productColumns + productJoins + where +
		fmt.Sprintf(" ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, 0, err
	}
	r.logger.Printf("product repo: list count=%d total=%d", len(result), total)
	return result, total, nil
}

func buildWhere(f Filter) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	add := func(clause string, arg interface{}) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if f.CategorySlug != "" {
		add("c.slug = $%d", f.CategorySlug)
	}
	if f.ProductTypeSlug != "" {
		add("t.slug = $%d", f.ProductTypeSlug)
	}
	if f.MinPriceCents != nil {
		add("COALESCE(p.sale_price_cents, p.price_cents) >= $%d", *f.MinPriceCents)
	}
	if f.MaxPriceCents != nil {
		add("COALESCE(p.sale_price_cents, p.price_cents) <= $%d", *f.MaxPriceCents)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, s)
		n := len(args)
		clauses = append(clauses, fmt.Sprintf("(p.name ILIKE '%%' || $%d || '%%' OR p.description ILIKE '%%' || $%d || '%%')", n, n))
	}
	if f.InStockOnly {
		clauses = append(clauses, "p.in_stock")
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return r.getOne(ctx, "p.id = $1", id)
}

func (r *postgresRepo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return r.getOne(ctx, "p.slug = $1", slug)
}

func (r *postgresRepo) getOne(ctx context.Context, cond string, arg interface{}) (*domain.Product, error) {
	query := "SELECT " + productColumns + productJoins + " WHERE " + cond
	row := r.pool.QueryRow(ctx, query, arg)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get %v error=%v", arg, err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (id, slug, name, description, price_cents, sale_price_cents, currency, images, category_id, product_type_id, in_stock)
VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9::uuid, $10::uuid, $11)
ON CONFLICT (slug) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    sale_price_cents = EXCLUDED.sale_price_cents,
    currency = EXCLUDED.currency,
    images = EXCLUDED.images,
    category_id = EXCLUDED.category_id,
    product_type_id = EXCLUDED.product_type_id,
    in_stock = EXCLUDED.in_stock
RETURNING id::text, created_at
`
	out := p
	err := r.pool.QueryRow(ctx, q,
		p.ID,
		p.Slug,
		p.Name,
		p.Description,
		p.PriceCents,
		p.SalePriceCents,
		p.Currency,
		p.Images,
		p.CategoryID,
		p.ProductTypeID,
		p.InStock,
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		r.logger.Printf("product repo: upsert slug=%s error=%v", p.Slug, err)
		return nil, err
	}
	r.logger.Printf("product repo: upserted slug=%s id=%s", out.Slug, out.ID)
	return &out, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Printf("product repo: delete id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) FilterMeta(ctx context.Context) (*FilterMeta, error) {
	meta := &FilterMeta{}

	const priceQuery = `
SELECT
    COALESCE(MIN(COALESCE(sale_price_cents, price_cents)), 0),
    COALESCE(MAX(COALESCE(sale_price_cents, price_cents)), 0),
    COUNT(*) FILTER (WHERE in_stock),
    COUNT(*) FILTER (WHERE NOT in_stock)
FROM products
`
	if err := r.pool.QueryRow(ctx, priceQuery).Scan(&meta.MinPrice, &meta.MaxPrice, &meta.InStock, &meta.OutOfStock); err != nil {
		return nil, err
	}

	const catQuery = `
SELECT c.slug, c.name, COUNT(p.id)
FROM categories c
LEFT JOIN products p ON p.category_id = c.id
GROUP BY c.slug, c.name
ORDER BY c.name ASC
`
	rows, err := r.pool.Query(ctx, catQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var cc CategoryCount
		if err := rows.Scan(&cc.Slug, &cc.Name, &cc.Count); err != nil {
			return nil, err
		}
		meta.Categories = append(meta.Categories, cc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return meta, nil
}

// AllImageURLs returns the distinct image URLs referenced across the
// catalog, used by the importer to skip already-ingested images.
func (r *postgresRepo) AllImageURLs(ctx context.Context) ([]string, error) {
	const q = `
SELECT DISTINCT url
FROM products, unnest(images) AS url
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID,
		&p.Slug,
		&p.Name,
		&p.Description,
		&p.PriceCents,
		&p.SalePriceCents,
		&p.Currency,
		&p.Images,
		&p.CategoryID,
		&p.CategoryName,
		&p.ProductTypeID,
		&p.ProductType,
		&p.InStock,
		&p.CreatedAt,
	)
	return p, err
}
