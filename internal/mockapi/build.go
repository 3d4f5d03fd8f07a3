package mockapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const shutdownTimeout = 5 * time.Second

// Build loads fixtures, picks the memory or Postgres store, seeds both the
// store and the account table and, when asked, starts the fixture watcher.
// The returned func releases the store.
func Build(ctx context.Context, cfg Config, logger *slog.Logger) (*Server, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	fixtures, err := LoadFixtures(cfg.Fixtures)
	if err != nil {
		return nil, nil, err
	}
	auth := NewAuth(cfg.BcryptCost)
	if err := auth.Seed(fixtures.Users); err != nil {
		return nil, nil, fmt.Errorf("seed users: %w", err)
	}

	var (
		store   Store
		reload  func(Fixtures)
		cleanup = func() {}
	)
	if cfg.DatabaseURL != "" {
		pg, err := NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := pg.Seed(ctx, fixtures.AllListings()); err != nil {
			pg.Close()
			return nil, nil, err
		}
		store, cleanup = pg, pg.Close
		reload = func(f Fixtures) {
			if err := pg.Seed(ctx, f.AllListings()); err != nil {
				logger.Warn("reseed postgres failed", "error", err)
			}
		}
		logger.Info("using postgres store", "listings", len(fixtures.Listings))
	} else {
		mem := NewMemoryStore(fixtures.AllListings())
		store = mem
		reload = func(f Fixtures) { mem.Replace(f.AllListings()) }
		logger.Info("using memory store", "listings", len(fixtures.Listings))
	}

	if cfg.Watch {
		err := WatchFixtures(ctx, cfg.Fixtures, logger, func(f Fixtures) {
			reload(f)
			if err := auth.Seed(f.Users); err != nil {
				logger.Warn("reseed users failed", "error", err)
			}
		})
		if err != nil {
			cleanup()
			return nil, nil, err
		}
	}
	return NewServer(store, auth, logger), cleanup, nil
}

// Serve runs handler on addr until ctx is cancelled, then shuts down
// gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
