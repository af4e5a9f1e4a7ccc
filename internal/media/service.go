package media

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"jewelstore/internal/domain"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// MaxUploadBytes caps a single image upload or remote import.
const MaxUploadBytes = 10 << 20

// Service is the image ingestion pipeline: sniff, de-duplicate, store.
type Service struct {
	store  ObjectStore
	bucket string
	logger *log.Logger
	client *http.Client
}

func New(store ObjectStore, bucket string, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		store:  store,
		bucket: bucket,
		logger: logger,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload sniffs the payload, rejects non-images, and writes the object under
// folder. An upload whose content hash already exists in the folder returns
// the existing object instead of storing a duplicate.
func (s *Service) Upload(ctx context.Context, folder, filename string, data []byte) (*Object, error) {
	if len(data) == 0 {
		return nil, domain.Invalid("file", "empty payload")
	}
	if int64(len(data)) > MaxUploadBytes {
		return nil, domain.Invalid("file", fmt.Sprintf("exceeds %d bytes", int64(MaxUploadBytes)))
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, domain.Invalid("file", "not an image: "+mt.String())
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	if existing, err := s.findByHash(ctx, folder, hash); err != nil {
		return nil, err
	} else if existing != nil {
		s.logger.Printf("media: dedup hit folder=%s hash=%s path=%s", folder, hash[:12], existing.Path)
		return existing, nil
	}

	name := sanitizeFilename(filename)
	if name == "" {
		name = uuid.NewString() + mt.Extension()
	}
	objPath := name
	if f := strings.Trim(folder, "/"); f != "" {
		objPath = f + "/" + name
	}

	obj, err := s.store.Put(ctx, s.bucket, objPath, data, mt.String(), map[string]string{"sha256": hash})
	if err != nil {
		return nil, fmt.Errorf("store %s: %w", objPath, err)
	}
	s.logger.Printf("media: stored %s (%s, %d bytes)", obj.Path, obj.ContentType, obj.Size)
	return obj, nil
}

// ImportResult reports what happened to one remote URL.
type ImportResult struct {
	URL     string  `json:"url"`
	Object  *Object `json:"object,omitempty"`
	Skipped bool    `json:"skipped"`
	Reason  string  `json:"reason,omitempty"`
}

// ImportFromURL fetches a remote image and runs it through the upload path.
// URLs already referenced by the catalog are skipped, as are URLs whose
// content already exists in the target folder.
func (s *Service) ImportFromURL(ctx context.Context, folder, rawURL string, catalogURLs map[string]bool) (*ImportResult, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, domain.Invalid("url", "must be an absolute http(s) URL")
	}
	if catalogURLs[rawURL] {
		return &ImportResult{URL: rawURL, Skipped: true, Reason: "already referenced by catalog"}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rawURL, err)
	}
	if int64(len(data)) > MaxUploadBytes {
		return nil, domain.Invalid("url", fmt.Sprintf("remote file exceeds %d bytes", int64(MaxUploadBytes)))
	}

	obj, err := s.Upload(ctx, folder, path.Base(parsed.Path), data)
	if err != nil {
		return nil, err
	}
	return &ImportResult{URL: rawURL, Object: obj}, nil
}

// List returns the objects under folder.
func (s *Service) List(ctx context.Context, folder string) ([]Object, error) {
	objects, err := s.store.List(ctx, s.bucket, folder)
	if err != nil {
		return nil, err
	}
	if objects == nil {
		objects = []Object{}
	}
	return objects, nil
}

// Delete removes one object. Deleting a missing object is a no-op.
func (s *Service) Delete(ctx context.Context, objPath string) error {
	err := s.store.Delete(ctx, s.bucket, strings.TrimLeft(objPath, "/"))
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}

func (s *Service) findByHash(ctx context.Context, folder, hash string) (*Object, error) {
	objects, err := s.store.List(ctx, s.bucket, folder)
	if err != nil {
		return nil, fmt.Errorf("dedup scan: %w", err)
	}
	for i := range objects {
		if objects[i].SHA256 == hash {
			return &objects[i], nil
		}
	}
	return nil, nil
}

// sanitizeFilename keeps the base name and strips characters that do not
// belong in an object path.
func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-.")
}
