package media

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jewelstore/internal/domain"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// GCSStore backs the media service with Google Cloud Storage buckets.
type GCSStore struct {
	client *storage.Client
}

func NewGCSStore(client *storage.Client) *GCSStore {
	return &GCSStore{client: client}
}

func (s *GCSStore) Put(ctx context.Context, bucket, path string, data []byte, contentType string, metadata map[string]string) (*Object, error) {
	if s.client == nil {
		return nil, errors.New("media: GCS client is nil")
	}
	path = strings.TrimLeft(path, "/")

	w := s.client.Bucket(bucket).Object(path).NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = metadata
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, fmt.Errorf("write object %s/%s: %w", bucket, path, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close object %s/%s: %w", bucket, path, err)
	}

	attrs := w.Attrs()
	return objectFromAttrs(bucket, attrs), nil
}

func (s *GCSStore) List(ctx context.Context, bucket, folder string) ([]Object, error) {
	if s.client == nil {
		return nil, errors.New("media: GCS client is nil")
	}
	var prefix string
	if f := strings.Trim(folder, "/"); f != "" {
		prefix = f + "/"
	}

	it := s.client.Bucket(bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	var out []Object
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list %s/%s: %w", bucket, prefix, err)
		}
		out = append(out, *objectFromAttrs(bucket, attrs))
	}
	return out, nil
}

func (s *GCSStore) Delete(ctx context.Context, bucket, path string) error {
	if s.client == nil {
		return errors.New("media: GCS client is nil")
	}
	err := s.client.Bucket(bucket).Object(strings.TrimLeft(path, "/")).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", bucket, path, err)
	}
	return nil
}

func objectFromAttrs(bucket string, attrs *storage.ObjectAttrs) *Object {
	return &Object{
		Bucket:      bucket,
		Path:        attrs.Name,
		ContentType: attrs.ContentType,
		Size:        attrs.Size,
		SHA256:      attrs.Metadata["sha256"],
		URL:         fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, attrs.Name),
		CreatedAt:   attrs.Created,
	}
}
