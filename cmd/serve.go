package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/desertthunder/musivault/internal/server"
	"github.com/desertthunder/musivault/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Serve exposes the vault over a local HTTP API.
//
// The sync endpoint is enabled only when an authenticated Spotify service
// is available; the read endpoints work offline.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	st, closeStore, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	var syncFn server.SyncFunc
	if r.spotify != nil {
		collector := tasks.NewCollector(r.spotify, st, r.logger, r.collectorOpts())
		syncFn = func(ctx context.Context) (*tasks.CollectionReport, error) {
			return collector.Collect(ctx, nil)
		}
	}

	router := server.NewBasicRouter()
	router.Use(server.Logging(r.logger))
	router.Handler(server.NewVaultHandler(st, r.logger, syncFn))

	host := cmd.String("host")
	if host == "" {
		host = r.config.Server.Host
	}
	port := cmd.Int("port")
	if port == 0 {
		port = r.config.Server.Port
	}

	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Info("serving vault API", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	r.writePlain("Vault API listening on http://%s\n", addr)
	if syncFn == nil {
		r.writePlain("Read-only mode: POST /api/sync disabled without authentication\n")
	}

	notifyCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-notifyCtx.Done():
	}

	r.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
