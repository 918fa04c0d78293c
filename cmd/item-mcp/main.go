package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/item-ocr-mcp/internal/config"
	"github.com/ironsheep/item-ocr-mcp/internal/imaging"
	"github.com/ironsheep/item-ocr-mcp/internal/item"
	"github.com/ironsheep/item-ocr-mcp/internal/logger"
	"github.com/ironsheep/item-ocr-mcp/internal/metrics"
	"github.com/ironsheep/item-ocr-mcp/internal/ocr"
	"github.com/ironsheep/item-ocr-mcp/internal/pipeline"
	"github.com/ironsheep/item-ocr-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("item-ocr-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("item-ocr-mcp - MCP server for Diablo IV item tooltip recognition")
			fmt.Println()
			fmt.Println("Usage: item-ocr-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables (also read from .env):")
			fmt.Println("  ITEM_OCR_LOG_LEVEL=debug        debug, info, warn or error")
			fmt.Println("  ITEM_OCR_LOG_FORMAT=json        text or json")
			fmt.Println("  ITEM_OCR_LANGUAGE=kor+eng       Tesseract language hint")
			fmt.Println("  ITEM_OCR_TESSDATA_PREFIX=dir    Tesseract tessdata directory")
			fmt.Println("  ITEM_OCR_THRESHOLD=160          Binarization threshold (0-255)")
			fmt.Println("  ITEM_OCR_UPSCALE=1              Upscale factor before binarization (1-4)")
			fmt.Println("  ITEM_OCR_CACHE_SIZE=16          Decoded screenshots kept in memory")
			fmt.Println("  ITEM_OCR_METRICS_ADDR=:9090     Serve Prometheus metrics on this address")
			fmt.Println("  ITEM_OCR_VOCABULARY=file.toml   Item vocabulary (TOML or YAML)")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	if err := run(); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	log.Debug("Item OCR MCP server starting",
		"version", Version,
		"build_time", BuildTime,
		"commit", GitCommit)

	vocab, err := config.LoadVocabulary(cfg.VocabularyFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tess := ocr.NewTesseract(
		ocr.WithLanguage(cfg.Language),
		ocr.WithTessdataPrefix(cfg.TessdataPrefix),
		ocr.WithProgress(pipeline.LogProgress),
	)
	if info := tess.Info(); !info.Available {
		log.Warn("Recognition engine unavailable", "error", info.Error)
	}

	opts := []pipeline.Option{
		pipeline.WithThreshold(cfg.Binarization()),
		pipeline.WithScale(cfg.UpscaleFactor),
		pipeline.WithParser(item.NewParser(vocab)),
	}
	if cfg.MetricsAddr != "" {
		m := metrics.New()
		opts = append(opts, pipeline.WithMetrics(m))
		go func() {
			if err := m.Serve(ctx, cfg.MetricsAddr); err != nil {
				log.Error("Metrics server stopped", "error", err)
			}
		}()
	}

	srv := server.New(pipeline.New(tess, opts...),
		server.WithCache(imaging.NewImageCache(cfg.CacheSize)),
		server.WithEngineInfo(tess.Info),
		server.WithVersion(Version),
	)

	err = srv.Run(ctx)
	if errors.Is(err, context.Canceled) {
		log.Debug("Shutting down")
		return nil
	}
	return err
}
