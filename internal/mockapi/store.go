package mockapi

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"

	"github.com/five82/stayfinder/internal/api"
)

// Store is the listing backend behind the mock API.
type Store interface {
	List(ctx context.Context) ([]api.Listing, error)
	Get(ctx context.Context, id string) (api.Listing, error)
	Create(ctx context.Context, l api.Listing) (api.Listing, error)
}

// newID returns a 24 character hex id shaped like the ones the real
// backend hands out.
func newID() string {
	var b [12]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}

// MemoryStore keeps listings in process. Seeded listings can be replaced
// wholesale on fixture reload; listings created through the API survive it.
type MemoryStore struct {
	mu      sync.RWMutex
	seeded  []api.Listing
	created []api.Listing
}

// NewMemoryStore returns a store holding seed.
func NewMemoryStore(seed []api.Listing) *MemoryStore {
	s := &MemoryStore{}
	s.Replace(seed)
	return s
}

// Replace swaps the seeded listings.
func (s *MemoryStore) Replace(seed []api.Listing) {
	cp := make([]api.Listing, 0, len(seed))
	for _, l := range seed {
		if l.ID == "" {
			l.ID = newID()
		}
		cp = append(cp, l)
	}
	s.mu.Lock()
	s.seeded = cp
	s.mu.Unlock()
}

// List returns seeded listings followed by created ones.
func (s *MemoryStore) List(context.Context) ([]api.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]api.Listing, 0, len(s.seeded)+len(s.created))
	out = append(out, s.seeded...)
	out = append(out, s.created...)
	return out, nil
}

// Get returns the listing with id or api.ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, id string) (api.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, set := range [][]api.Listing{s.seeded, s.created} {
		for _, l := range set {
			if l.ID == id {
				return l, nil
			}
		}
	}
	return api.Listing{}, api.ErrNotFound
}

// Create stores l under a fresh id.
func (s *MemoryStore) Create(_ context.Context, l api.Listing) (api.Listing, error) {
	l.ID = newID()
	s.mu.Lock()
	s.created = append(s.created, l)
	s.mu.Unlock()
	return l, nil
}
