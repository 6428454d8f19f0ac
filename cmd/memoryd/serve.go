package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/memoryd/internal/config"
	"github.com/fyrsmithlabs/memoryd/internal/engine"
	"github.com/fyrsmithlabs/memoryd/internal/llm"
	"github.com/fyrsmithlabs/memoryd/internal/logging"
	"github.com/fyrsmithlabs/memoryd/internal/services"
	"github.com/fyrsmithlabs/memoryd/internal/store"
	"github.com/fyrsmithlabs/memoryd/internal/translate"
	"github.com/fyrsmithlabs/memoryd/pkg/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the memoryd daemon",
	Long: `Start the HTTP server and block until interrupted.

Examples:
  # Start with defaults (ollama provider, memoryd.db in the working directory)
  memoryd serve

  # Start with a config file
  memoryd serve --config ./memoryd.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runServe(ctx)
	},
}

// runServe wires all collaborators and runs the server until the
// context is cancelled.
//
//  1. Load and validate configuration
//  2. Initialize the structured logger
//  3. Open the SQLite attribute store
//  4. Build the capability provider and optional translator
//  5. Construct the engine and service registry
//  6. Start the HTTP server, shut down gracefully on signal
func runServe(ctx context.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync() // best-effort on shutdown
	}()

	st, err := store.Open(cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	capability, err := llm.New(cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to build llm provider: %w", err)
	}

	translator, err := buildTranslator(cfg)
	if err != nil {
		return fmt.Errorf("failed to build translator: %w", err)
	}

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	eng := engine.NewEngine(st, capability, engine.Options{
		Logger:  logger,
		Metrics: engine.NewMetrics(promReg),
	})

	registry := services.NewRegistry(services.Options{
		Engine:     eng,
		Store:      st,
		Capability: capability,
		Translator: translator,
		Sessions:   engine.NewSessionManager(),
	})

	srv := server.NewServer(cfg, registry, server.Options{
		Logger:   logger,
		Gatherer: promReg,
	})

	logger.Info(ctx, "starting memoryd",
		zap.Int("port", cfg.Server.Port),
		zap.String("provider", cfg.LLM.Provider),
		zap.String("store_path", cfg.Store.Path),
		zap.Bool("translation", cfg.Translation.Enabled),
		zap.Duration("shutdown_timeout", cfg.Server.ShutdownTimeout))

	err = srv.Start(ctx)
	if err == http.ErrServerClosed {
		logger.Info(ctx, "shutdown complete")
		return nil
	}
	return err
}

// buildTranslator constructs the translation collaborator. Providers
// without a prompt-level primitive (the mock) and disabled translation
// both get the pass-through translator.
func buildTranslator(cfg *config.Config) (translate.Translator, error) {
	if !cfg.Translation.Enabled {
		return translate.Noop{}, nil
	}
	completer, err := llm.NewCompleter(cfg.LLM)
	if err != nil {
		return nil, err
	}
	if completer == nil {
		return translate.Noop{}, nil
	}
	return translate.NewLLMTranslator(completer), nil
}
