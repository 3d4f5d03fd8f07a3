package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/five82/stayfinder/internal/api"
	"github.com/five82/stayfinder/internal/state"
)

const (
	defaultPollInterval = 30 * time.Second
	maxBackoff          = 5 * time.Minute
)

// Verifier checks the current session token.
type Verifier interface {
	Verify(ctx context.Context) (api.User, error)
}

// StartPoller launches a background goroutine that re-checks the session at
// interval, backing off while the API is unreachable. It returns immediately.
func StartPoller(ctx context.Context, store *state.Store, verifier Verifier, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		failures := 0
		for {
			if err := refresh(ctx, store, verifier); err != nil {
				failures++
				logger.Warn("session check failed", "error", err, "failures", failures)
			} else {
				failures = 0
			}

			timer := time.NewTimer(calculateBackoff(failures, interval))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}()
}

// refresh verifies the token once. A rejected token signs the user out and
// is not treated as a failure.
func refresh(ctx context.Context, store *state.Store, verifier Verifier) error {
	user, err := verifier.Verify(ctx)
	if err != nil {
		var se *api.ServerError
		if errors.As(err, &se) && se.Status == http.StatusUnauthorized {
			store.SetSession(nil, nil)
			return nil
		}
		store.SetSession(nil, err)
		return err
	}
	store.SetSession(&user, nil)
	return nil
}

// calculateBackoff doubles base for each consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	d := base
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}
