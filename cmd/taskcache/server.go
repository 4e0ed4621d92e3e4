package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 10 * time.Second

// startHTTPServer serves router on the configured port until ctx is
// cancelled or SIGINT/SIGTERM arrives, then shuts down gracefully.
func (app *application) startHTTPServer(ctx context.Context, router http.Handler) error {
	listener, err := app.listen()
	if err != nil {
		return err
	}
	return app.serve(ctx, listener, router)
}

// serveWhile binds the configured port, serves router in the background and
// runs fg in the foreground. The server stops once fg returns. fg never runs
// when the port cannot be bound.
func (app *application) serveWhile(ctx context.Context, router http.Handler, fg func(context.Context) error) error {
	listener, err := app.listen()
	if err != nil {
		return err
	}

	serverCtx, stopServer := context.WithCancel(ctx)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- app.serve(serverCtx, listener, router)
	}()

	fgErr := fg(ctx)
	stopServer()

	if err := <-serverErr; err != nil {
		return err
	}
	return fgErr
}

func (app *application) listen() (net.Listener, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", app.config.Server.Port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen on port %d: %w", app.config.Server.Port, err)
	}
	return listener, nil
}

func (app *application) serve(ctx context.Context, listener net.Listener, router http.Handler) error {
	server := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverCtx, cancelServer := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancelServer()

	serveErr := make(chan error, 1)
	go func() {
		app.logger.Info("starting server", "addr", listener.Addr().String())
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			app.logger.Error("server failed", "error", err)
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-serverCtx.Done():
		app.logger.Info("shutting down server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("server shutdown failed", "error", err)
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	app.logger.Info("server shutdown completed")
	return nil
}
