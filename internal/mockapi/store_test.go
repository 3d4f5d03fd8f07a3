package mockapi

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/five82/stayfinder/internal/api"
)

func TestMemoryStore_ReplaceKeepsCreated(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore([]api.Listing{{ID: "a", Name: "Alpha"}, {Name: "No ID"}})

	created, err := s.Create(ctx, api.Listing{Name: "Created"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created.ID) != 24 {
		t.Fatalf("created id %q, want 24 hex chars", created.ID)
	}

	s.Replace([]api.Listing{{ID: "b", Name: "Beta"}})
	all, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 || all[0].Name != "Beta" || all[1].Name != "Created" {
		t.Fatalf("List after Replace = %+v", all)
	}

	if _, err := s.Get(ctx, "a"); !errors.Is(err, api.ErrNotFound) {
		t.Fatalf("Get(replaced) err = %v, want ErrNotFound", err)
	}
	if got, err := s.Get(ctx, created.ID); err != nil || got.Name != "Created" {
		t.Fatalf("Get(created) = %+v, %v", got, err)
	}
}

func TestMemoryStore_AssignsMissingIDs(t *testing.T) {
	s := NewMemoryStore([]api.Listing{{Name: "No ID"}})
	all, _ := s.List(context.Background())
	if all[0].ID == "" {
		t.Fatal("seeded listing without id was not given one")
	}
}

// Runs only against a scratch database named by STAYFINDER_TEST_DATABASE_URL.
func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("STAYFINDER_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("STAYFINDER_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	s, err := NewPostgresStore(ctx, dsn)
	if err != nil {
		t.Fatalf("NewPostgresStore: %v", err)
	}
	defer s.Close()
	if _, err := s.pool.Exec(ctx, `TRUNCATE hostels`); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	seed := []api.Listing{
		{ID: "p1", Name: "One", City: "Kota", Category: "pg", Price: 5000, Amenities: []string{"WiFi"}},
		{ID: "p2", Name: "Two", City: "Pune", Category: "hostel", Price: 9000},
	}
	if err := s.Seed(ctx, seed); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	// Reseeding updates in place.
	seed[0].Price = 5200
	if err := s.Seed(ctx, seed); err != nil {
		t.Fatalf("Seed again: %v", err)
	}

	all, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 || all[0].ID != "p1" || all[0].Price != 5200 {
		t.Fatalf("List = %+v", all)
	}
	if all[1].Amenities != nil {
		t.Fatalf("NULL amenities scanned as %v, want nil", all[1].Amenities)
	}

	created, err := s.Create(ctx, api.Listing{Name: "Three", City: "Bhopal", Category: "pg", Price: 4000})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := s.Get(ctx, created.ID)
	if err != nil || got.Name != "Three" {
		t.Fatalf("Get(created) = %+v, %v", got, err)
	}
	if _, err := s.Get(ctx, "nope"); !errors.Is(err, api.ErrNotFound) {
		t.Fatalf("Get(nope) err = %v, want ErrNotFound", err)
	}
}
