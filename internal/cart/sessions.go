package cart

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"log"
	"sync"
	"time"

	"jewelstore/internal/domain"
)

// Sessions hands out opaque cart session tokens and owns one Engine per
// active session. An engine is constructed and loaded lazily the first time
// a token is seen, so carts survive server restarts as long as the token
// round-trips through the client.
type Sessions struct {
	mu      sync.Mutex
	store   Store
	logger  *log.Logger
	ttl     time.Duration
	entries map[string]*sessionEntry
}

type sessionEntry struct {
	engine    *Engine
	expiresAt time.Time
}

func NewSessions(store Store, logger *log.Logger) *Sessions {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Sessions{
		store:   store,
		logger:  logger,
		ttl:     30 * 24 * time.Hour,
		entries: make(map[string]*sessionEntry),
	}
}

// Issue creates a fresh session token with an empty, loaded cart. The empty
// cart is written through immediately so the token stays revivable after a
// restart even if the shopper never adds a line.
func (s *Sessions) Issue(ctx context.Context) (string, error) {
	token, err := randomToken()
	if err != nil {
		return "", err
	}
	engine := NewEngine(s.store, cartKey(token), s.logger)
	engine.Load(ctx)
	if s.store != nil {
		if err := s.store.Save(ctx, cartKey(token), []Line{}); err != nil {
			s.logger.Printf("cart %s: initial save failed: %v", cartKey(token), err)
		}
	}

	s.mu.Lock()
	s.purgeExpiredLocked()
	s.entries[token] = &sessionEntry{engine: engine, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()
	return token, nil
}

// Get returns the engine for a token, reviving it from the store when the
// process has no live entry. A token that was never issued has no persisted
// cart and resolves to nil, so spraying made-up tokens cannot grow the
// registry. The session TTL slides on every access.
func (s *Sessions) Get(ctx context.Context, token string) *Engine {
	s.mu.Lock()
	entry, ok := s.entries[token]
	if ok && time.Now().Before(entry.expiresAt) {
		entry.expiresAt = time.Now().Add(s.ttl)
		engine := entry.engine
		s.mu.Unlock()
		return engine
	}
	s.mu.Unlock()

	engine := s.revive(ctx, token)
	if engine == nil {
		return nil
	}

	s.mu.Lock()
	s.purgeExpiredLocked()
	s.entries[token] = &sessionEntry{engine: engine, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()
	return engine
}

// revive rebuilds an engine from the persisted cart. Only a definitive
// not-found rejects the token; when the store itself errors the engine
// starts empty, matching Load's availability over strictness.
func (s *Sessions) revive(ctx context.Context, token string) *Engine {
	if s.store == nil {
		return nil
	}
	lines, err := s.store.Load(ctx, cartKey(token))
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		s.logger.Printf("cart %s: revive load failed, starting empty: %v", cartKey(token), err)
		lines = nil
	}

	engine := NewEngine(s.store, cartKey(token), s.logger)
	engine.mu.Lock()
	engine.lines = lines
	engine.loaded = true
	engine.mu.Unlock()
	return engine
}

func (s *Sessions) purgeExpiredLocked() {
	now := time.Now()
	for token, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, token)
		}
	}
}

func cartKey(token string) string {
	return "cart:" + token
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
