package cartstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"jewelstore/internal/cart"
	"jewelstore/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	opTimeout    = 2 * time.Second
	saveAttempts = 3
	retryBackoff = 100 * time.Millisecond
)

// PostgresStore persists whole cart line sequences as jsonb rows keyed by
// the session cart key. Saves retry with backoff; a save that still fails is
// reported to the engine, which then runs memory-only.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) *PostgresStore {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &PostgresStore{pool: pool, logger: logger}
}

func (s *PostgresStore) Load(ctx context.Context, key string) ([]cart.Line, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	const q = `
SELECT lines
FROM carts
WHERE key = $1
`
	var raw []byte
	if err := s.pool.QueryRow(ctx, q, key).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("load cart: %w", err)
	}

	var lines []cart.Line
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, fmt.Errorf("decode cart %s: %w", key, err)
	}
	return lines, nil
}

func (s *PostgresStore) Save(ctx context.Context, key string, lines []cart.Line) error {
	raw, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode cart %s: %w", key, err)
	}

	const q = `
INSERT INTO carts (key, lines, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET lines = EXCLUDED.lines, updated_at = now()
`
	var lastErr error
	for attempt := 1; attempt <= saveAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, opTimeout)
		_, err := s.pool.Exec(attemptCtx, q, key, raw)
		cancel()
		if err == nil {
			return nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		s.logger.Printf("cartstore: save %s attempt %d/%d failed: %v", key, attempt, saveAttempts, err)
		if attempt < saveAttempts {
			select {
			case <-time.After(retryBackoff * time.Duration(attempt)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("save cart %s: %w", key, lastErr)
}

// DeleteExpired drops carts untouched for longer than age. Called from a
// janitor loop, not from request paths.
func (s *PostgresStore) DeleteExpired(ctx context.Context, age time.Duration) (int64, error) {
	const q = `
DELETE FROM carts
WHERE updated_at < now() - $1::interval
`
	cmd, err := s.pool.Exec(ctx, q, age.String())
	if err != nil {
		return 0, fmt.Errorf("delete expired carts: %w", err)
	}
	return cmd.RowsAffected(), nil
}
