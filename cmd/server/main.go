package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/quizforge/triviaboard/internal/catalog"
	"github.com/quizforge/triviaboard/internal/config"
	"github.com/quizforge/triviaboard/internal/database"
	"github.com/quizforge/triviaboard/internal/generate"
	"github.com/quizforge/triviaboard/internal/migrations"
	"github.com/quizforge/triviaboard/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- Question catalog (SQLite) ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("question catalog ready", "path", cfg.DBPath)

	// --- Board providers ---
	static := catalog.New(db)
	generative := generate.NewClient(generate.Config{
		Endpoint:  cfg.GenAPIURL,
		APIKey:    cfg.GenAPIKey,
		Model:     cfg.GenModel,
		MaxTokens: cfg.GenMaxTokens,
		Timeout:   cfg.GenTimeout,
	}, logger)

	// --- HTTP server ---
	srv := server.New(cfg.HTTPAddr, logger, db, static, generative, cfg.GenTimeout)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}
