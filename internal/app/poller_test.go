package app

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/five82/stayfinder/internal/api"
	"github.com/five82/stayfinder/internal/state"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 30 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 30 * time.Second},
		{"negative failures", -1, 30 * time.Second},
		{"one failure", 1, time.Minute},
		{"two failures", 2, 2 * time.Minute},
		{"three failures", 3, 4 * time.Minute},
		{"four failures capped", 4, 5 * time.Minute}, // would be 8m
		{"many failures capped", 40, 5 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 20; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

type stubVerifier struct {
	user api.User
	err  error
}

func (s stubVerifier) Verify(context.Context) (api.User, error) {
	return s.user, s.err
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	store := &state.Store{}

	if err := refresh(ctx, store, stubVerifier{user: api.User{Name: "Asha"}}); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	snap := store.Snapshot()
	if snap.User == nil || snap.User.Name != "Asha" {
		t.Fatalf("User = %+v, want Asha", snap.User)
	}

	down := &api.NetworkError{Op: "verify", Err: errors.New("connection refused")}
	for i := 0; i < 2; i++ {
		if err := refresh(ctx, store, stubVerifier{err: down}); err == nil {
			t.Fatal("refresh with network error returned nil")
		}
	}
	snap = store.Snapshot()
	if !snap.IsOffline() {
		t.Fatalf("IsOffline = false after %d failures", snap.ConsecutiveFailures)
	}
	if snap.User == nil {
		t.Fatal("user dropped on network failure")
	}

	expired := &api.ServerError{Status: http.StatusUnauthorized, Message: "token expired"}
	if err := refresh(ctx, store, stubVerifier{err: expired}); err != nil {
		t.Fatalf("refresh with 401 = %v, want nil", err)
	}
	snap = store.Snapshot()
	if snap.User != nil {
		t.Fatalf("User = %+v after 401, want nil", snap.User)
	}
	if snap.IsOffline() {
		t.Fatal("still offline after the API answered")
	}
}
