package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/growth-monitor/internal/domain/assessment"
	"github.com/yanqian/growth-monitor/internal/infra/config"
)

const shutdownTimeout = 10 * time.Second

// App encapsulates the HTTP server lifecycle.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	server *http.Server
	svc    assessment.Service
}

// NewApp is used by Wire to build the runnable app. It only exists once the
// reference store has loaded, so serving implies readiness.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, svc assessment.Service) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server, svc: svc}
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	info := a.svc.Reference(ctx)
	go func() {
		a.logger.Info("http server starting",
			"address", a.cfg.HTTP.Address,
			"reference_source", a.cfg.Reference.Source,
			"reference_tables", len(info.Tables),
			"reference_fingerprint", info.Fingerprint,
		)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutdown signal received")
		return a.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
