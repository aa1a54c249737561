package main

import (
	"errors"
	"log"
	"log/slog"
	"os"

	"github.com/sozercan/taskpad/internal/assistant"
	"github.com/sozercan/taskpad/internal/config"
	"github.com/sozercan/taskpad/internal/llm"
	"github.com/sozercan/taskpad/internal/metrics"
	"github.com/sozercan/taskpad/internal/server"
	"github.com/sozercan/taskpad/internal/session"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	slog.SetDefault(cfg.Log.Logger(os.Stderr))

	llmProvider, err := llm.New(&cfg.LLM)
	if err != nil {
		if errors.Is(err, llm.ErrMissingCredential) {
			slog.Error("configuration error", "error", err)
			os.Exit(2)
		}
		log.Fatalf("failed to create LLM provider: %v", err)
	}

	m := metrics.New()
	a := assistant.New(llmProvider, m)

	srv := server.New(*cfg, a, session.NewStore(cfg.Server.SessionIdleTimeout), m)
	slog.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
	if err := srv.Run(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
