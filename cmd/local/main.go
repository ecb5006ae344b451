// Package main runs the task runner behind a local HTTP harness.
// Events posted to it run against the configured AWS account without a ResponseURL.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/runvoy/ecstasks/cmd/local/server"
	"github.com/runvoy/ecstasks/internal/config"
	"github.com/runvoy/ecstasks/internal/constants"
	"github.com/runvoy/ecstasks/internal/logger"
	awsApp "github.com/runvoy/ecstasks/internal/providers/aws/app"
)

func main() {
	cfg := config.MustLoadTaskRunner()
	log := logger.Initialize(constants.Development, cfg.GetLogLevel())

	initCtx, cancel := context.WithTimeout(context.Background(), cfg.InitTimeout)
	deps, err := awsApp.Initialize(initCtx, cfg, log)
	cancel()
	if err != nil {
		log.Error("failed to initialize dependencies", "error", err)
		os.Exit(1)
	}

	router := server.NewRouter(awsApp.NewOrchestrator(deps, cfg, log), log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("starting local harness (Ctrl+C to stop)", "port", cfg.Port)
		log.Info("health check", "url", fmt.Sprintf("http://localhost:%d/health", cfg.Port))
		if serveErr := srv.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			log.Error("failed to start server", "error", serveErr)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err = srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
