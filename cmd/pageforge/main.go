// Command pageforge serves the landing-page content synthesis pipeline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kbukum/pageforge/config"
	"github.com/kbukum/pageforge/llm"
	"github.com/kbukum/pageforge/logger"
	"github.com/kbukum/pageforge/observability"
	"github.com/kbukum/pageforge/pipeline"
	"github.com/kbukum/pageforge/server"
	"github.com/kbukum/pageforge/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "pageforge:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(&cfg.Logger, "pageforge")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, err := observability.InitTracer(ctx, cfg.Tracing, log, "pageforge")
	if err != nil {
		return err
	}
	if tp != nil {
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				log.Warn("Tracer shutdown failed", map[string]interface{}{
					logger.FieldError: err.Error(),
				})
			}
		}()
	}

	runs, err := store.Open(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer runs.Close()

	model, err := buildModelClient(cfg.Model)
	if err != nil {
		return err
	}

	orc := pipeline.New(model, runs, log, pipeline.Config{
		StageTimeout:   cfg.Pipeline.StageTimeout,
		MaxAttempts:    cfg.Pipeline.MaxAttempts,
		InitialBackoff: cfg.Pipeline.InitialBackoff,
	})

	srv := server.New(cfg.Server, log)
	server.NewAPI(orc, runs, log).Register(srv.Engine())

	if err := srv.Start(ctx); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info("Received signal, shutting down", map[string]interface{}{
		"signal": sig.String(),
	})

	return srv.Stop(ctx)
}

func buildModelClient(cfg config.ModelConfig) (llm.Client, error) {
	switch cfg.Provider {
	case "mock":
		return llm.NewMockClient(), nil
	default:
		return llm.NewOpenAIClient(llm.Settings{
			Model:       cfg.Model,
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
		})
	}
}
