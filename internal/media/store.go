package media

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"jewelstore/internal/domain"
)

// Object describes one stored image asset.
type Object struct {
	Bucket      string    `json:"bucket"`
	Path        string    `json:"path"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	SHA256      string    `json:"sha256,omitempty"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ObjectStore is the storage backend for image assets, organized as named
// buckets with folder prefixes.
type ObjectStore interface {
	Put(ctx context.Context, bucket, path string, data []byte, contentType string, metadata map[string]string) (*Object, error)
	List(ctx context.Context, bucket, folder string) ([]Object, error)
	Delete(ctx context.Context, bucket, path string) error
}

// MemStore is an in-memory ObjectStore for tests.
type MemStore struct {
	mu      sync.Mutex
	objects map[string]memObject // key: bucket + "/" + path
}

type memObject struct {
	obj  Object
	data []byte
	meta map[string]string
}

func NewMemStore() *MemStore {
	return &MemStore{objects: make(map[string]memObject)}
}

func (s *MemStore) Put(_ context.Context, bucket, path string, data []byte, contentType string, metadata map[string]string) (*Object, error) {
	obj := Object{
		Bucket:      bucket,
		Path:        path,
		ContentType: contentType,
		Size:        int64(len(data)),
		SHA256:      metadata["sha256"],
		URL:         "mem://" + bucket + "/" + path,
		CreatedAt:   time.Now().UTC(),
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	s.mu.Lock()
	s.objects[bucket+"/"+path] = memObject{obj: obj, data: cp, meta: metadata}
	s.mu.Unlock()
	return &obj, nil
}

func (s *MemStore) List(_ context.Context, bucket, folder string) ([]Object, error) {
	prefix := bucket + "/"
	if folder != "" {
		prefix += strings.TrimSuffix(folder, "/") + "/"
	}
	s.mu.Lock()
	var out []Object
	for key, mo := range s.objects {
		if strings.HasPrefix(key, prefix) {
			out = append(out, mo.obj)
		}
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func (s *MemStore) Delete(_ context.Context, bucket, path string) error {
	key := bucket + "/" + path
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return domain.ErrNotFound
	}
	delete(s.objects, key)
	return nil
}

// Data returns the stored bytes for assertions in tests.
func (s *MemStore) Data(bucket, path string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mo, ok := s.objects[bucket+"/"+path]
	if !ok {
		return nil, false
	}
	return mo.data, true
}
