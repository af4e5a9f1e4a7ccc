package seed

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type productSeed struct {
	Slug           string
	Name           string
	Description    string
	PriceCents     int64
	SalePriceCents *int64
	Category       string
	ProductType    string
	Images         []string
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	categories := map[string]string{
		"rings":     "Rings",
		"necklaces": "Necklaces",
		"earrings":  "Earrings",
		"bracelets": "Bracelets",
	}
	categoryIDs := make(map[string]string, len(categories))
	for slug, name := range categories {
		id, err := ensureLookup(ctx, pool, "categories", slug, name)
		if err != nil {
			return fmt.Errorf("ensure category %s: %w", slug, err)
		}
		categoryIDs[slug] = id
	}

	productTypes := map[string]string{
		"engagement": "Engagement",
		"wedding":    "Wedding",
		"everyday":   "Everyday",
		"statement":  "Statement",
	}
	typeIDs := make(map[string]string, len(productTypes))
	for slug, name := range productTypes {
		id, err := ensureLookup(ctx, pool, "product_types", slug, name)
		if err != nil {
			return fmt.Errorf("ensure product type %s: %w", slug, err)
		}
		typeIDs[slug] = id
	}

	sale := func(cents int64) *int64 { return &cents }
	products := []productSeed{
		{
			Slug:        "sapphire-solitaire-ring",
			Name:        "Sapphire Solitaire Ring",
			Description: "Ceylon sapphire set in 18k white gold",
			PriceCents:  245900,
			Category:    "rings",
			ProductType: "engagement",
			Images:      []string{"https://cdn.jewelstore.example/products/sapphire-solitaire-ring.jpg"},
		},
		{
			Slug:           "pearl-drop-earrings",
			Name:           "Pearl Drop Earrings",
			Description:    "Freshwater pearls on 14k gold hooks",
			PriceCents:     32900,
			SalePriceCents: sale(27900),
			Category:       "earrings",
			ProductType:    "everyday",
			Images:         []string{"https://cdn.jewelstore.example/products/pearl-drop-earrings.jpg"},
		},
		{
			Slug:        "emerald-tennis-bracelet",
			Name:        "Emerald Tennis Bracelet",
			Description: "Colombian emeralds, channel set",
			PriceCents:  389000,
			Category:    "bracelets",
			ProductType: "statement",
			Images:      []string{"https://cdn.jewelstore.example/products/emerald-tennis-bracelet.jpg"},
		},
		{
			Slug:        "gold-curb-chain",
			Name:        "Gold Curb Chain",
			Description: "Solid 14k yellow gold, 50cm",
			PriceCents:  74900,
			Category:    "necklaces",
			ProductType: "everyday",
			Images:      []string{"https://cdn.jewelstore.example/products/gold-curb-chain.jpg"},
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p, categoryIDs[p.Category], typeIDs[p.ProductType]); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Slug, err)
		}
	}

	if err := ensureAdmin(ctx, pool); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	return nil
}

func ensureLookup(ctx context.Context, pool *pgxpool.Pool, table, slug, name string) (string, error) {
	q := fmt.Sprintf(`
INSERT INTO %s (slug, name)
VALUES ($1, $2)
ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
RETURNING id::text
`, table)
	var id string
	if err := pool.QueryRow(ctx, q, slug, name).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed, categoryID, typeID string) error {
	const q = `
INSERT INTO products (slug, name, description, price_cents, sale_price_cents, currency, images, category_id, product_type_id, in_stock)
VALUES ($1, $2, $3, $4, $5, 'USD', $6, $7::uuid, $8::uuid, true)
ON CONFLICT (slug) DO UPDATE
SET name = EXCLUDED.name,
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    sale_price_cents = EXCLUDED.sale_price_cents,
    images = EXCLUDED.images,
    category_id = EXCLUDED.category_id,
    product_type_id = EXCLUDED.product_type_id
`
	_, err := pool.Exec(ctx, q, p.Slug, p.Name, p.Description, p.PriceCents, p.SalePriceCents, p.Images, categoryID, typeID)
	return err
}

// ensureAdmin creates the bootstrap back-office account when SEED_ADMIN_EMAIL
// and SEED_ADMIN_PASSWORD are set.
func ensureAdmin(ctx context.Context, pool *pgxpool.Pool) error {
	email := os.Getenv("SEED_ADMIN_EMAIL")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO admin_users (email, password_hash)
VALUES ($1, $2)
ON CONFLICT (email) DO NOTHING
`
	_, err = pool.Exec(ctx, q, email, string(hashed))
	return err
}
