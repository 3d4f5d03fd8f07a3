package state

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/five82/stayfinder/internal/api"
	"github.com/five82/stayfinder/internal/filter"
)

// ImageStatus records the outcome of an image probe.
type ImageStatus int

const (
	ImageUnknown ImageStatus = iota
	ImageOK
	ImageBroken
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Hostels        []api.Listing
	Filters        filter.Criteria
	Loading        bool
	CurrentHostel  *api.Listing
	LastUpdated    time.Time
	LastError      error
	Images         map[string]ImageStatus
	User           *api.User
	SessionChecked time.Time
	SessionError   error
	// ConsecutiveFailures counts session checks that failed in a row.
	ConsecutiveFailures int
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Visible returns the listings that pass the current filters.
func (s Snapshot) Visible() []api.Listing {
	return filter.Apply(s.Hostels, s.Filters)
}

// Store coordinates concurrent updates to the listing cache and filters.
// Setters never render; the UI pulls a Snapshot after each change.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	seq      uint64
}

// SetHostels replaces the listing set wholesale and clears any load error.
func (s *Store) SetHostels(list []api.Listing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setHostelsLocked(list)
}

func (s *Store) setHostelsLocked(list []api.Listing) {
	s.snapshot.Hostels = cloneListings(list)
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
}

// BeginRequest issues a new load sequence number. Only the result of the most
// recently issued request is accepted by ApplyHostels.
func (s *Store) BeginRequest() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.snapshot.Loading = true
	return s.seq
}

// ApplyHostels stores list if seq is still the latest request. It reports
// whether the result was applied. A stale result leaves state untouched.
func (s *Store) ApplyHostels(seq uint64, list []api.Listing) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return false
	}
	s.setHostelsLocked(list)
	s.snapshot.Loading = false
	return true
}

// FailRequest records err for the request seq if it is still the latest.
// Existing listings are kept.
func (s *Store) FailRequest(seq uint64, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return false
	}
	s.snapshot.LastError = err
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.Loading = false
	return true
}

// SetFilters replaces the non-query criteria. The free-text query is owned by
// SetSearchQuery and is preserved.
func (s *Store) SetFilters(c filter.Criteria) {
	s.mu.Lock()
	defer s.mu.Unlock()
	query := s.snapshot.Filters.Query
	s.snapshot.Filters = c.Clone()
	s.snapshot.Filters.Query = query
}

// SetSearchQuery stores the trimmed query.
func (s *Store) SetSearchQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Filters.Query = strings.TrimSpace(q)
}

// ClearFilters resets category to all and drops every other criterion,
// including the query.
func (s *Store) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Filters = filter.Criteria{Category: filter.CategoryAll}
}

// SetLoading sets the shared loading flag.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Loading = loading
}

// SetCurrentHostel records the listing shown on the detail page. nil clears it.
func (s *Store) SetCurrentHostel(h *api.Listing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h == nil {
		s.snapshot.CurrentHostel = nil
		return
	}
	dup := cloneListing(*h)
	s.snapshot.CurrentHostel = &dup
}

// FilterHostels returns the visible listing set for the current filters.
func (s *Store) FilterHostels() []api.Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter.Apply(s.snapshot.Hostels, s.snapshot.Filters)
}

// MarkImage records whether url loaded.
func (s *Store) MarkImage(url string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot.Images == nil {
		s.snapshot.Images = make(map[string]ImageStatus)
	}
	if ok {
		s.snapshot.Images[url] = ImageOK
	} else {
		s.snapshot.Images[url] = ImageBroken
	}
}

// SetSession records the outcome of a session check. When err is non-nil the
// previous user is kept and the failure counted.
func (s *Store) SetSession(user *api.User, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.SessionChecked = time.Now()
	if err != nil {
		s.snapshot.SessionError = err
		s.snapshot.ConsecutiveFailures++
		return
	}
	if user != nil {
		dup := *user
		s.snapshot.User = &dup
	} else {
		s.snapshot.User = nil
	}
	s.snapshot.SessionError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// ClearSession forgets the signed-in user without touching failure counts.
func (s *Store) ClearSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.User = nil
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Hostels = cloneListings(s.snapshot.Hostels)
	snap.Filters = s.snapshot.Filters.Clone()
	if s.snapshot.CurrentHostel != nil {
		dup := cloneListing(*s.snapshot.CurrentHostel)
		snap.CurrentHostel = &dup
	}
	if s.snapshot.User != nil {
		dup := *s.snapshot.User
		snap.User = &dup
	}
	if len(s.snapshot.Images) > 0 {
		snap.Images = make(map[string]ImageStatus, len(s.snapshot.Images))
		for k, v := range s.snapshot.Images {
			snap.Images[k] = v
		}
	}
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	if s.snapshot.SessionError != nil {
		snap.SessionError = fmt.Errorf("%w", s.snapshot.SessionError)
	}
	return snap
}

func cloneListings(items []api.Listing) []api.Listing {
	if len(items) == 0 {
		return nil
	}
	dup := make([]api.Listing, len(items))
	for i, l := range items {
		dup[i] = cloneListing(l)
	}
	return dup
}

func cloneListing(l api.Listing) api.Listing {
	if l.Amenities != nil {
		l.Amenities = append(make([]string, 0, len(l.Amenities)), l.Amenities...)
	}
	return l
}
