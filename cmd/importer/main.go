package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"cloud.google.com/go/storage"

	"jewelstore/internal/config"
	"jewelstore/internal/db"
	"jewelstore/internal/importer"
	"jewelstore/internal/media"
	productrepo "jewelstore/internal/repository/product"
)

func main() {
	var (
		filePath string
		folder   string
	)
	flag.StringVar(&filePath, "file", "", "Path to CSV of image URLs (headers: url[,folder])")
	flag.StringVar(&folder, "folder", "imported", "Default storage folder for rows without one")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[importer] ", log.LstdFlags|log.LUTC)
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	client, err := storage.NewClient(ctx)
	if err != nil {
		logger.Fatalf("gcs client: %v", err)
	}
	mediaSvc := media.New(media.NewGCSStore(client), cfg.MediaBucket, logger)

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatalf("open file: %v", err)
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, mediaSvc, productrepo.NewPostgres(pool, logger), folder, logger)

	start := time.Now()
	summary, err := imp.Run(ctx)
	if err != nil {
		logger.Fatalf("import failed: %v", err)
	}

	fmt.Printf("Imported %d, skipped %d, failed %d in %s\n",
		summary.Imported, summary.Skipped, summary.Failed, time.Since(start).Truncate(time.Millisecond))
}
