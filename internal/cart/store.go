package cart

import (
	"context"
	"encoding/json"
	"sync"

	"jewelstore/internal/domain"
)

// Store persists the full line sequence under a fixed key. Load returns
// domain.ErrNotFound when no cart was ever saved for the key. Every Save
// replaces the whole sequence; lines are never partially persisted.
type Store interface {
	Load(ctx context.Context, key string) ([]Line, error)
	Save(ctx context.Context, key string, lines []Line) error
}

// MemStore is an in-memory Store. It keeps serialized JSON so round-trips
// exercise the same encoding as durable implementations.
type MemStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string][]byte)}
}

func (s *MemStore) Load(_ context.Context, key string) ([]Line, error) {
	s.mu.Lock()
	raw, ok := s.data[key]
	s.mu.Unlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	var lines []Line
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *MemStore) Save(_ context.Context, key string, lines []Line) error {
	raw, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[key] = raw
	s.mu.Unlock()
	return nil
}

// SetRaw stores an arbitrary payload under key, bypassing encoding.
func (s *MemStore) SetRaw(key string, raw []byte) {
	s.mu.Lock()
	s.data[key] = raw
	s.mu.Unlock()
}
