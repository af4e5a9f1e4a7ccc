package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/storage"

	"jewelstore/internal/cart"
	"jewelstore/internal/cartstore"
	"jewelstore/internal/config"
	"jewelstore/internal/db"
	"jewelstore/internal/httpserver"
	"jewelstore/internal/media"
	adminrepo "jewelstore/internal/repository/admin"
	productrepo "jewelstore/internal/repository/product"
	taxonomyrepo "jewelstore/internal/repository/taxonomy"
	authsvc "jewelstore/internal/service/auth"
	catalogsvc "jewelstore/internal/service/catalog"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	taxonomyRepo := taxonomyrepo.NewPostgres(dbpool)
	adminRepo := adminrepo.NewPostgres(dbpool)

	catalogService := catalogsvc.New(productRepo, taxonomyRepo)
	authService := authsvc.New(adminRepo)

	cartStore := cartstore.NewPostgres(dbpool, logger)
	cartSessions := cart.NewSessions(cartStore, logger)
	go cartJanitor(ctx, cartStore, logger)

	mediaService := media.New(newObjectStore(ctx, logger), cfg.MediaBucket, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CatalogSvc:    catalogService,
		AuthSvc:       authService,
		MediaSvc:      mediaService,
		Carts:         cartSessions,
		CatalogImages: productRepo,
	}, cfg.AllowedOrigins)
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}

// cartJanitor drops carts idle past the session TTL plus a grace window.
func cartJanitor(ctx context.Context, store *cartstore.PostgresStore, logger *log.Logger) {
	const maxAge = 45 * 24 * time.Hour
	ticker := time.NewTicker(6 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.DeleteExpired(ctx, maxAge)
			if err != nil {
				logger.Printf("cart janitor: %v", err)
				continue
			}
			if n > 0 {
				logger.Printf("cart janitor: dropped %d expired carts", n)
			}
		}
	}
}

// newObjectStore prefers GCS and falls back to process memory when no
// credentials are available, so local development works without a bucket.
func newObjectStore(ctx context.Context, logger *log.Logger) media.ObjectStore {
	client, err := storage.NewClient(ctx)
	if err != nil {
		logger.Printf("gcs unavailable, using in-memory media store: %v", err)
		return media.NewMemStore()
	}
	return media.NewGCSStore(client)
}
