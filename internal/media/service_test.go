package media

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"jewelstore/internal/domain"
)

// pngBytes is a minimal payload carrying the PNG magic number.
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

func TestUploadSniffsAndStores(t *testing.T) {
	store := NewMemStore()
	svc := New(store, "media", nil)

	obj, err := svc.Upload(context.Background(), "products", "ring.png", pngBytes)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if obj.Path != "products/ring.png" {
		t.Fatalf("unexpected path %q", obj.Path)
	}
	if obj.ContentType != "image/png" {
		t.Fatalf("unexpected content type %q", obj.ContentType)
	}
	if obj.SHA256 == "" {
		t.Fatalf("expected content hash metadata")
	}
	if _, ok := store.Data("media", "products/ring.png"); !ok {
		t.Fatalf("object bytes not stored")
	}
}

func TestUploadRejectsNonImage(t *testing.T) {
	svc := New(NewMemStore(), "media", nil)
	if _, err := svc.Upload(context.Background(), "products", "notes.txt", []byte("just text, no image here")); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.Upload(context.Background(), "products", "empty.png", nil); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for empty payload, got %v", err)
	}
}

func TestUploadDeduplicatesByContentHash(t *testing.T) {
	store := NewMemStore()
	svc := New(store, "media", nil)
	ctx := context.Background()

	first, err := svc.Upload(ctx, "products", "ring.png", pngBytes)
	if err != nil {
		t.Fatalf("first upload: %v", err)
	}
	second, err := svc.Upload(ctx, "products", "ring-copy.png", pngBytes)
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}
	if second.Path != first.Path {
		t.Fatalf("expected dedup to return existing object, got %q vs %q", second.Path, first.Path)
	}

	objects, err := svc.List(ctx, "products")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(objects) != 1 {
		t.Fatalf("expected a single stored object, got %d", len(objects))
	}
}

func TestUploadGeneratesNameWhenMissing(t *testing.T) {
	svc := New(NewMemStore(), "media", nil)
	obj, err := svc.Upload(context.Background(), "products", "", pngBytes)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if obj.Path == "products/" || obj.Path == "" {
		t.Fatalf("expected generated object name, got %q", obj.Path)
	}
}

func TestImportFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(pngBytes)
	}))
	defer srv.Close()

	svc := New(NewMemStore(), "media", nil)
	res, err := svc.ImportFromURL(context.Background(), "imported", srv.URL+"/rings/solitaire.png", nil)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Skipped || res.Object == nil {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Object.Path != "imported/solitaire.png" {
		t.Fatalf("unexpected path %q", res.Object.Path)
	}
}

func TestImportSkipsCatalogURLs(t *testing.T) {
	svc := New(NewMemStore(), "media", nil)
	known := map[string]bool{"https://cdn.example.com/ring.jpg": true}

	res, err := svc.ImportFromURL(context.Background(), "imported", "https://cdn.example.com/ring.jpg", known)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !res.Skipped {
		t.Fatalf("expected catalog URL to be skipped, got %+v", res)
	}
}

func TestImportRejectsBadURL(t *testing.T) {
	svc := New(NewMemStore(), "media", nil)
	if _, err := svc.ImportFromURL(context.Background(), "imported", "ftp://example.com/a.png", nil); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestImportRejectsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	svc := New(NewMemStore(), "media", nil)
	if _, err := svc.ImportFromURL(context.Background(), "imported", srv.URL+"/gone.png", nil); err == nil {
		t.Fatalf("expected error for upstream 404")
	}
}

func TestDeleteMissingObjectIsNoop(t *testing.T) {
	svc := New(NewMemStore(), "media", nil)
	if err := svc.Delete(context.Background(), "products/never-there.png"); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
}

// wrappingStore returns a wrapped not-found, the way a backend adding its own
// context would.
type wrappingStore struct {
	*MemStore
}

func (s *wrappingStore) Delete(ctx context.Context, bucket, path string) error {
	if err := s.MemStore.Delete(ctx, bucket, path); err != nil {
		return fmt.Errorf("delete %s/%s: %w", bucket, path, err)
	}
	return nil
}

func TestDeleteTreatsWrappedNotFoundAsNoop(t *testing.T) {
	svc := New(&wrappingStore{MemStore: NewMemStore()}, "media", nil)
	if err := svc.Delete(context.Background(), "products/never-there.png"); err != nil {
		t.Fatalf("expected wrapped not-found to be a no-op, got %v", err)
	}
}
