package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"pagemill/internal/cleaner"
	"pagemill/internal/config"
	"pagemill/internal/crawler"
	"pagemill/internal/exporter"
	"pagemill/internal/http"
	"pagemill/internal/pipeline"
	"pagemill/internal/splitter"
	"pagemill/internal/storage"
)

func main() {
	dirFlag := flag.String("dir", "", "process markdown files under this directory and exit")
	flag.Parse()

	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel, "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	// Create repository instances
	pageRepo := storage.NewPageRepo(db)
	chunkRepo := storage.NewChunkRepo(db)
	queueRepo := storage.NewQueueRepo(db)

	// Optional content cleaner
	var clean *cleaner.Cleaner
	if cfg.CleaningRules != "" {
		rulesCfg, err := cleaner.LoadConfig(cfg.CleaningRules)
		if err != nil {
			log.Fatalf("Failed to load cleaning rules: %v", err)
		}
		clean, err = cleaner.New(rulesCfg, logger)
		if err != nil {
			log.Fatalf("Failed to compile cleaning rules: %v", err)
		}
		slog.Info("Cleaning rules loaded", "path", cfg.CleaningRules, "site", clean.Site())
	}

	split, err := splitter.New(cfg.SplitOptions())
	if err != nil {
		log.Fatalf("Failed to create splitter: %v", err)
	}

	// Optional chunk export
	var export *exporter.Writer
	if cfg.OutputDir != "" {
		export = exporter.New(cfg.OutputDir, cfg.SplitOptions())
		slog.Info("Chunk export enabled", "dir", cfg.OutputDir)
	}

	pipe := pipeline.New(pageRepo, chunkRepo, split, clean, export)

	// One-shot directory mode
	if *dirFlag != "" {
		stats, err := pipe.ProcessDir(context.Background(), *dirFlag)
		if err != nil {
			log.Fatalf("Processing failed: %v", err)
		}
		slog.Info("Done", "files", stats.Files, "chunks", stats.Chunks)
		return
	}

	crawl := crawler.New(queueRepo, pipe, crawler.Options{
		MaxHops:      cfg.MaxHops,
		SkipPatterns: cfg.SkipPatterns,
		UserAgent:    cfg.UserAgent,
		FetchTimeout: cfg.FetchTimeout,
	}, logger)

	// Create router with dependencies
	deps := &http.Deps{
		DB:           db,
		Pages:        pageRepo,
		Chunks:       chunkRepo,
		Seeder:       crawl,
		SplitOptions: cfg.SplitOptions(),
	}
	router := http.NewRouter(deps)

	// Drain the crawl queue in the background; picks up any URLs left
	// over from a previous run.
	go crawl.Run(context.Background())

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}

// logLevel maps the configured level name to a slog level.
func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
