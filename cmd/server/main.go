package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"functions-sample-api/internal/config"
	"functions-sample-api/internal/logging"
	"functions-sample-api/internal/version"
	"functions-sample-api/pkg/server"
)

// @title Functions Sample API
// @version 1.0
// @description Minimal serverless function app exposing hello and status endpoints

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey FunctionKey
// @in header
// @name x-functions-key

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logging.Setup(cfg.Log.Level, cfg.Log.Format, os.Stdout); err != nil {
		logrus.Fatalf("Failed to configure logging: %v", err)
	}

	// Initialize dependencies
	container, err := server.NewContainer(cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize container: %v", err)
	}
	defer container.Close()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.NewRouter(container),
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	logrus.WithFields(logrus.Fields{
		"port":         cfg.Port,
		"environment":  cfg.Environment,
		"mode":         config.GetDeploymentMode(),
		"route_prefix": cfg.RoutePrefix,
		"routes":       container.Registry.Len(),
		"version":      version.Info(),
	}).Info("Server started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Fatalf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
