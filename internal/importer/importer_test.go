package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"jewelstore/internal/media"
)

type stubMedia struct {
	calls   []string
	folders []string
	failOn  string
}

func (s *stubMedia) ImportFromURL(_ context.Context, folder, rawURL string, catalogURLs map[string]bool) (*media.ImportResult, error) {
	s.calls = append(s.calls, rawURL)
	s.folders = append(s.folders, folder)
	if rawURL == s.failOn {
		return nil, errors.New("fetch failed")
	}
	if catalogURLs[rawURL] {
		return &media.ImportResult{URL: rawURL, Skipped: true, Reason: "already referenced by catalog"}, nil
	}
	return &media.ImportResult{URL: rawURL, Object: &media.Object{Path: "imported/x.jpg"}}, nil
}

type stubCatalog struct {
	urls []string
	err  error
}

func (s *stubCatalog) AllImageURLs(_ context.Context) ([]string, error) {
	return s.urls, s.err
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := `url,folder
https://images.example.com/ring-1.jpg,rings
https://images.example.com/known.jpg,
https://images.example.com/broken.jpg,
,
https://images.example.com/ring-2.jpg,`

	mediaSvc := &stubMedia{failOn: "https://images.example.com/broken.jpg"}
	catalog := &stubCatalog{urls: []string{"https://images.example.com/known.jpg"}}
	imp := NewCSVImporter(strings.NewReader(csvData), mediaSvc, catalog, "imported", nil)

	summary, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Imported != 2 || summary.Skipped != 1 || summary.Failed != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if len(mediaSvc.calls) != 4 {
		t.Fatalf("expected 4 import calls, got %d", len(mediaSvc.calls))
	}
	if mediaSvc.folders[0] != "rings" {
		t.Fatalf("expected per-row folder, got %q", mediaSvc.folders[0])
	}
	if mediaSvc.folders[1] != "imported" {
		t.Fatalf("expected default folder, got %q", mediaSvc.folders[1])
	}
}

func TestCSVImporter_MissingURLHeader(t *testing.T) {
	imp := NewCSVImporter(strings.NewReader("folder\nrings\n"), &stubMedia{}, nil, "imported", nil)
	if _, err := imp.Run(context.Background()); err == nil {
		t.Fatalf("expected error for missing url header")
	}
}

func TestCSVImporter_CatalogLookupError(t *testing.T) {
	catalog := &stubCatalog{err: errors.New("db down")}
	imp := NewCSVImporter(strings.NewReader("url\nhttps://a.example.com/x.jpg\n"), &stubMedia{}, catalog, "imported", nil)
	if _, err := imp.Run(context.Background()); err == nil {
		t.Fatalf("expected error when catalog urls cannot be loaded")
	}
}
