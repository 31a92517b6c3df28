package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/outbreakwatch/newswire/app/api"
	"github.com/outbreakwatch/newswire/app/cache"
	"github.com/outbreakwatch/newswire/app/cfg"
	"github.com/outbreakwatch/newswire/app/database"
	"github.com/outbreakwatch/newswire/app/extract"
	"github.com/outbreakwatch/newswire/app/feed"
	"github.com/outbreakwatch/newswire/app/pipeline"
	"github.com/outbreakwatch/newswire/app/registry"
	"github.com/outbreakwatch/newswire/app/sink"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	appCfg, err := cfg.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	if appCfg.Verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	log.Printf("Starting Newswire crawl (version %s)...", appCfg.Version)

	reg, err := registry.Load(appCfg.FeedsFile)
	if err != nil {
		log.Fatal("Failed to load feed registry:", err)
	}
	sources := reg.Sources()
	log.Printf("Loaded %d sources across %d languages", len(sources), len(reg.Feeds))

	// Seen-URL cache; bypass mode does no cache I/O at all.
	var seen pipeline.SeenSet
	if !appCfg.SkipCache {
		if appCfg.ClearCache {
			if err := cache.Clear(appCfg.CacheFile); err != nil {
				log.Fatal("Failed to clear cache:", err)
			}
			log.Printf("Cache cleared")
		}

		urlCache := cache.New(appCfg.CacheFile)
		if err := urlCache.Load(); err != nil {
			log.Fatal("Failed to load cache:", err)
		}
		defer urlCache.Close()
		log.Printf("Loaded %d seen URLs from %s", urlCache.Len(), appCfg.CacheFile)

		seen = urlCache
	} else {
		log.Printf("Cache bypass enabled, crawling everything")
	}

	// Database connection; debug mode writes JSONL files instead.
	var recordRepo *database.RecordRepository
	if !appCfg.Debug || appCfg.Serve {
		log.Printf("Connecting to database at %s...", appCfg.DBPath)
		db, err := database.NewConnection(appCfg.DBPath)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		defer db.Close()

		version, dirty, err := database.RunMigrations(db)
		if err != nil {
			log.Fatal("Failed to run migrations:", err)
		}
		log.Printf("Database ready (schema version %d, dirty: %v)", version, dirty)

		recordRepo = database.NewRecordRepository(db)
	}

	httpClient := &http.Client{}
	run := pipeline.New(pipeline.Options{
		Sources:        sources,
		Keywords:       pipeline.NewKeywords(reg.Keywords),
		Fetcher:        feed.NewFetcher(httpClient, appCfg.UserAgent),
		Parser:         feed.NewParser(),
		Extractor:      extract.NewArticleExtractor(httpClient, appCfg.UserAgent),
		Seen:           seen,
		WorkerCount:    appCfg.WorkerCount,
		FetchTimeout:   time.Duration(appCfg.FetchTimeout) * time.Second,
		ExtractTimeout: time.Duration(appCfg.ExtractTimeout) * time.Second,
	})

	records, err := run.Run(context.Background())
	if err != nil {
		log.Fatal("Pipeline failed:", err)
	}

	if appCfg.Debug {
		if err := sink.WriteJSONL(records, appCfg.DataDir); err != nil {
			log.Fatal("Failed to write JSONL output:", err)
		}
	} else {
		table := "test"
		if appCfg.Production {
			table = "prod"
		}
		if err := sink.StoreDB(records, recordRepo, table); err != nil {
			log.Fatal("Failed to store records:", err)
		}
	}

	total := 0
	for _, recs := range records {
		total += len(recs)
	}
	if appCfg.Verbose {
		sink.Echo(records)
		fmt.Printf("Total records: %d\n", total)
	}
	log.Printf("Crawl complete: %d records", total)

	if appCfg.Serve {
		serve(appCfg, recordRepo)
	}
}

// serve runs the read API until interrupted.
func serve(appCfg *cfg.Cfg, recordRepo *database.RecordRepository) {
	table := "test"
	if appCfg.Production {
		table = "prod"
	}

	handler := api.NewHandler(recordRepo, table)
	server := api.NewServer(handler)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		log.Printf("Starting read API on port %s", appCfg.Port)
		log.Printf("  News:          http://localhost:%s/news/<language>", appCfg.Port)
		log.Printf("  Health check:  http://localhost:%s/health", appCfg.Port)
		log.Printf("  Statistics:    http://localhost:%s/stats", appCfg.Port)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
	case err := <-serverErrChan:
		log.Printf("Server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	} else {
		log.Println("HTTP server stopped")
	}
}
