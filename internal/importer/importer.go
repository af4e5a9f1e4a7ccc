package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"jewelstore/internal/media"
)

// MediaImporter is the slice of the media service the importer needs.
type MediaImporter interface {
	ImportFromURL(ctx context.Context, folder, rawURL string, catalogURLs map[string]bool) (*media.ImportResult, error)
}

// CatalogImages exposes the image URLs already referenced by products, so
// re-imports of catalog images are skipped.
type CatalogImages interface {
	AllImageURLs(ctx context.Context) ([]string, error)
}

// CSVImporter reads rows of remote image URLs and ingests them into media
// storage. Expected headers: url, folder (folder optional per row).
type CSVImporter struct {
	reader  *csv.Reader
	media   MediaImporter
	catalog CatalogImages
	folder  string
	logger  *log.Logger
}

func NewCSVImporter(r io.Reader, mediaSvc MediaImporter, catalog CatalogImages, defaultFolder string, logger *log.Logger) *CSVImporter {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:  csvr,
		media:   mediaSvc,
		catalog: catalog,
		folder:  defaultFolder,
		logger:  logger,
	}
}

// Summary reports the outcome of one import run.
type Summary struct {
	Imported int
	Skipped  int
	Failed   int
}

// Run ingests every row, continuing past per-row failures.
func (i *CSVImporter) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	headers, err := i.reader.Read()
	if err != nil {
		return summary, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["url"]; !ok {
		return summary, errors.New("missing required header: url")
	}

	var catalogURLs map[string]bool
	if i.catalog != nil {
		urls, err := i.catalog.AllImageURLs(ctx)
		if err != nil {
			return summary, fmt.Errorf("load catalog image urls: %w", err)
		}
		catalogURLs = make(map[string]bool, len(urls))
		for _, u := range urls {
			catalogURLs[u] = true
		}
	}

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return summary, fmt.Errorf("read row: %w", err)
		}

		rawURL := pick(record, index, "url")
		if rawURL == "" {
			continue
		}
		folder := pick(record, index, "folder")
		if folder == "" {
			folder = i.folder
		}

		res, err := i.media.ImportFromURL(ctx, folder, rawURL, catalogURLs)
		if err != nil {
			summary.Failed++
			i.logger.Printf("importer: %s failed: %v", rawURL, err)
			continue
		}
		if res.Skipped {
			summary.Skipped++
			i.logger.Printf("importer: %s skipped: %s", rawURL, res.Reason)
			continue
		}
		summary.Imported++
		i.logger.Printf("importer: %s -> %s", rawURL, res.Object.Path)
	}

	return summary, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(strings.ToLower(h))] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
