package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"salesdash/internal/config"
	"salesdash/internal/middleware"
	"salesdash/internal/observability"
	"salesdash/internal/server"
	"salesdash/internal/services"
	"salesdash/internal/ui/templates"

	"github.com/joho/godotenv"
)

const renderTimeout = 10 * time.Second

func handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	if err := templates.Dashboard().Render(ctx, w); err != nil {
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}

func main() {
	// Optional .env for local development; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"config", cfg,
	)

	dashboard := services.NewDashboard(logger)
	if cfg.Data.File != "" {
		// A broken seed file is reported, not fatal: the dashboard runs on
		// empty data until a working upload arrives.
		if err := dashboard.LoadPath(cfg.Data.File); err != nil {
			logger.Warn("could not load data file, starting empty",
				"file", cfg.Data.File, "error", err)
		}
	} else {
		dashboard.UseSample(cfg.Data.SampleDays, cfg.Data.SampleSeed)
	}

	templateHandlers := &server.TemplateHandlers{
		Dashboard: handleDashboard,
	}

	srv := server.NewServer(dashboard, logger, cfg.Data.MaxUploadBytes, templateHandlers)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      middlewareChain(srv),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("shutting down dashboard service")
		return nil
	})

	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
