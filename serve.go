package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Madhav-Gupta-28/storefront-go/apiclient"
	"github.com/Madhav-Gupta-28/storefront-go/catalog"
	"github.com/Madhav-Gupta-28/storefront-go/config"
	"github.com/Madhav-Gupta-28/storefront-go/database"
	"github.com/Madhav-Gupta-28/storefront-go/handlers"
	"github.com/Madhav-Gupta-28/storefront-go/metrics"
	"github.com/Madhav-Gupta-28/storefront-go/routes"
	"github.com/Madhav-Gupta-28/storefront-go/session"
	"github.com/Madhav-Gupta-28/storefront-go/utils"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the storefront HTTP service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			config.LoadEnv()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := database.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Warn("failed to close store", zap.Error(err))
		}
	}()
	logger.Info("session store ready", zap.String("driver", string(cfg.Store.Driver)))

	tokens, err := utils.NewTokens(cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		return err
	}

	m := metrics.New()
	api := apiclient.New(cfg.APIURL,
		apiclient.WithTimeout(cfg.UpstreamTimeout),
		apiclient.WithMetrics(m),
		apiclient.WithLogger(logger),
	)
	sessions := session.NewManager(session.Options{
		Store:       store,
		TTL:         cfg.SessionTTL,
		API:         api,
		Rules:       cfg.Rules,
		RazorpayKey: cfg.RazorpayKey,
		Logger:      logger,
		Metrics:     m,
	})
	h := handlers.New(sessions, catalog.New(api), tokens, utils.NewPasscode(cfg.AdminPasscode), logger)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	routes.SetupRoutes(e, h, m)

	go evictIdle(ctx, sessions, cfg.SessionIdle, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port), zap.String("upstream", cfg.APIURL))
		errCh <- e.Start(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// evictIdle drops idle sessions from memory; their state stays in the
// store and is reloaded on the next request. Each tick also sweeps state
// whose TTL has passed.
func evictIdle(ctx context.Context, sessions *session.Manager, idle time.Duration, logger *zap.Logger) {
	if idle <= 0 {
		return
	}
	ticker := time.NewTicker(idle / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Evict(idle); n > 0 {
				logger.Debug("evicted idle sessions", zap.Int("count", n))
			}
			n, err := sessions.Sweep(ctx)
			if err != nil {
				logger.Warn("failed to sweep expired sessions", zap.Error(err))
			} else if n > 0 {
				logger.Debug("swept expired session state", zap.Int("keys", n))
			}
		}
	}
}
