// cmd/api/server.go
// This file contains the serve() method which starts the HTTP server and
// handles graceful shutdown when an OS signal is received.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// serve starts the HTTP server in the background and blocks until SIGINT or
// SIGTERM arrives. In-flight requests then get 20 seconds to complete before
// the server is forcefully stopped.
func (app *applicationDependencies) serve() error {
	// Configure the HTTP server. Its internal errors go through our logger.
	apiServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", app.config.port),
		Handler:      app.routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelError),
	}

	// shutdownErr receives any error returned by Shutdown().
	shutdownErr := make(chan error)

	// Background goroutine: wait for a shutdown signal then gracefully stop.
	go func() {
		// quit is a buffered channel so the signal package never blocks.
		quit := make(chan os.Signal, 1)

		// Notify quit on SIGINT (Ctrl+C) and SIGTERM (kill / Docker stop).
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		// Block until a signal arrives.
		s := <-quit
		app.logger.Info("shutting down server", "signal", s.String())

		// Active requests must complete within this window or they are abandoned.
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()

		// Shutdown stops accepting new connections and waits for active
		// requests to finish, respecting the context deadline.
		shutdownErr <- apiServer.Shutdown(ctx)
	}()

	app.logger.Info("starting server",
		"address", apiServer.Addr,
		"environment", app.config.environment,
		"storage", app.config.storage,
	)

	// ErrServerClosed is the normal result of Shutdown being called.
	err := apiServer.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	// Wait for the shutdown goroutine to finish and collect its error.
	err = <-shutdownErr
	if err != nil {
		return err
	}

	app.logger.Info("server stopped", "address", apiServer.Addr)
	return nil
}
