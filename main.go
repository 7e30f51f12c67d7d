package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/banshee-data/sparse.report/internal/api"
	"github.com/banshee-data/sparse.report/internal/fetch"
	"github.com/banshee-data/sparse.report/internal/store"
	"github.com/banshee-data/sparse.report/internal/version"
)

var (
	listen      = flag.String("listen", ":8080", "Listen address")
	dbFile      = flag.String("db", "sparse.db", "Path to the model database")
	importPath  = flag.String("import", "", "Model directory or base URL to import at startup")
	sourceLabel = flag.String("source-label", "", "Override the source string recorded for a startup import")
)

func main() {
	flag.Parse()

	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	log.Printf("sparse.report %s (%s, built %s)", version.Version, version.GitSHA, version.BuildTime)

	db, err := store.Open(*dbFile)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *importPath != "" {
		label := *sourceLabel
		if label == "" {
			label = *importPath
		}
		if err := importAtStartup(ctx, db, *importPath, label); err != nil {
			log.Fatalf("Failed to import model from %s: %v", *importPath, err)
		}
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := api.NewServer(db).ServeMux()

		// mount the admin debugging routes (accessible only in dev mode or
		// over Tailscale)
		db.AttachAdminRoutes(mux)

		server := &http.Server{
			Addr:    *listen,
			Handler: api.LoggingMiddleware(mux),
		}

		go func() {
			log.Printf("listening on %s", *listen)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}
	}()

	wg.Wait()
}

// importAtStartup loads a sparse model from a directory or URL and stores
// it under the given source label, logging coarse fetch progress along
// the way.
func importAtStartup(ctx context.Context, db *store.DB, source, label string) error {
	lastDecile := -1
	loader := &fetch.Loader{
		Fetcher: fetch.NewFetcher(source),
		OnProgress: func(frac float64) {
			if decile := int(frac * 10); decile > lastDecile {
				lastDecile = decile
				log.Printf("fetching model: %d%%", decile*10)
			}
		},
	}

	model, err := loader.Load(ctx)
	if err != nil {
		return err
	}

	modelID, err := db.ImportModel(model, label)
	if err != nil {
		return err
	}
	log.Printf("imported model %s from %s (%d cameras, %d images, %d points)",
		modelID, source, len(model.Cameras), len(model.Images), len(model.Points))
	return nil
}
