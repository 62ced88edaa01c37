/*
Package main is the entry point for the Voyago travel server.

It is responsible for loading configuration, initializing the global logging
system, connecting to the database, setting up the HTTP server, and gracefully
handling operating system interrupt signals (SIGINT, SIGTERM) to ensure a
smooth server shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voyago/internal/app/db"
	"voyago/internal/app/session"
	"voyago/internal/app/store"
	"voyago/internal/configs"
	"voyago/internal/handler"
	"voyago/internal/pkg/logx"
	"voyago/internal/pkg/views"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Dur("session_ttl", cfg.SessionTTL).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	renderer, err := views.NewRenderer()
	if err != nil {
		logx.Fatal(err, "Failed to parse view templates")
	}

	deps := &handler.AppDeps{
		Config:   cfg,
		Sessions: session.NewManager(cfg.SessionSecret, cfg.SessionTTL),
		Views:    renderer,
	}

	// A failed database connection does not stop the server: store-backed
	// handlers answer 500 until the process is restarted with a working DSN.
	pool, err := db.NewPool(cfg.DatabaseDSN)
	if err != nil {
		logx.Error(err, "Failed to connect to database; store-backed routes will report errors")
	} else {
		defer pool.Close()
		deps.Store = store.NewPgStore(pool)
		logx.Info("Connected to database and applied migrations")
	}

	router := handler.Router(deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("Voyago Server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	logx.Info("Server gracefully stopped.")
}
