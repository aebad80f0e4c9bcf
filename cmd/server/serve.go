package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/guru03-coder/MediVerse/internal/api"
	"github.com/guru03-coder/MediVerse/internal/config"
	"github.com/guru03-coder/MediVerse/internal/intake"
	"github.com/guru03-coder/MediVerse/internal/logging"
	"github.com/guru03-coder/MediVerse/internal/metrics"
	"github.com/guru03-coder/MediVerse/internal/store"
	"github.com/guru03-coder/MediVerse/internal/triage"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the triage API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, "mediverse")

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	model := newModel(cfg, logger)
	minLatency, maxLatency := cfg.RuleLatency()
	assessor := newAssessor(model, triage.ClassifierConfig{
		MinLatency:   minLatency,
		MaxLatency:   maxLatency,
		ModelTimeout: cfg.AITimeout(),
	}, logger, m)
	insights := triage.NewInsightGenerator(model, cfg.AITimeout(), logger)

	st := store.New()

	var predictor intake.Predictor
	if cfg.RemoteAPIURL != "" {
		predictor = newRemote(cfg, logger)
		logger.Info().Str("url", cfg.RemoteAPIURL).Msg("intake predictions go to the remote service")
	}
	intakeSvc := intake.NewService(assessor, predictor, st, intake.Config{
		Admit: cfg.AdmitOnIntake,
	}, logger, m)

	h := api.NewHandler(st, assessor, insights, intakeSvc, m, logger)
	e := api.NewServer(h, api.ServerConfig{CORSOrigins: cfg.CORSOrigins}, logger, m)
	e.Debug = cfg.IsDev()
	e.Server.ReadTimeout = 30 * time.Second
	e.Server.WriteTimeout = 30 * time.Second
	e.Server.IdleTimeout = 120 * time.Second

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
