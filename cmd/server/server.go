package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/phrazzld/sprout/internal/api"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// router builds the HTTP handler from the application's services.
func (app *application) router() (http.Handler, error) {
	return api.NewRouter(api.RouterConfig{
		Garden:   app.gardenService,
		Journal:  app.journalService,
		Catalog:  app.catalog,
		Tips:     app.tipService,
		Logger:   app.logger,
		Registry: app.registry,
		Gatherer: app.registry,
	})
}

// Run serves HTTP until ctx is cancelled, then shuts the server down
// gracefully. Resource cleanup is left to the caller.
func (app *application) Run(ctx context.Context) error {
	handler, err := app.router()
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		app.logger.Info("starting server", "port", app.config.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		app.logger.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	app.logger.Info("server shutdown completed")
	return nil
}
