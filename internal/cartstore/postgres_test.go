package cartstore

import (
	"context"
	"os"
	"testing"
	"time"

	"jewelstore/internal/cart"
	"jewelstore/internal/domain"
	"jewelstore/internal/migrate"

	"github.com/jackc/pgx/v5/pgxpool"
)

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func TestPostgres_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE carts`); err != nil {
		t.Fatalf("truncate carts: %v", err)
	}

	store := NewPostgres(pool, nil)
	lines := []cart.Line{
		{ID: "p1|size=6", ProductID: "p1", Title: "Sapphire Ring", PriceCents: 45900, Quantity: 2, SelectedOptions: map[string]string{"size": "6"}},
		{ID: "p2", ProductID: "p2", Title: "Pearl Studs", PriceCents: 12900, Quantity: 1},
	}

	if err := store.Save(ctx, "cart:abc", lines); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load(ctx, "cart:abc")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 || got[0].ID != "p1|size=6" || got[0].Quantity != 2 || got[1].Title != "Pearl Studs" {
		t.Fatalf("round-trip mismatch: %+v", got)
	}

	// Overwrite replaces the whole sequence.
	if err := store.Save(ctx, "cart:abc", nil); err != nil {
		t.Fatalf("save empty: %v", err)
	}
	got, err = store.Load(ctx, "cart:abc")
	if err != nil {
		t.Fatalf("load after clear: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty sequence, got %+v", got)
	}
}

func TestPostgres_LoadMissingKey(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	store := NewPostgres(pool, nil)
	if _, err := store.Load(ctx, "cart:never-saved"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgres_DeleteExpired(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE carts`); err != nil {
		t.Fatalf("truncate carts: %v", err)
	}

	store := NewPostgres(pool, nil)
	if err := store.Save(ctx, "cart:stale", nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := pool.Exec(ctx, `UPDATE carts SET updated_at = now() - interval '100 days' WHERE key = 'cart:stale'`); err != nil {
		t.Fatalf("backdate: %v", err)
	}

	deleted, err := store.DeleteExpired(ctx, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 deleted cart, got %d", deleted)
	}
}
