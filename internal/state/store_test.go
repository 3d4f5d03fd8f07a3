package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/stayfinder/internal/api"
	"github.com/five82/stayfinder/internal/filter"
)

func listings() []api.Listing {
	return []api.Listing{
		{ID: "1", Name: "Sunrise", City: "Kota", Category: "Boys", Price: 4000, Amenities: []string{"WiFi"}},
		{ID: "2", Name: "Lotus", City: "Jaipur", Category: "Girls", Price: 6000},
		{ID: "3", Name: "Metro", City: "Kota", Category: "Other", Price: 3000},
	}
}

func TestStore_SetHostelsAndSnapshotClone(t *testing.T) {
	var s Store

	before := time.Now()
	s.SetHostels(listings())

	snap := s.Snapshot()
	if len(snap.Hostels) != 3 || snap.Hostels[0].ID != "1" {
		t.Fatalf("snapshot hostels = %#v, want 3 items", snap.Hostels)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Hostels[0].Name = "changed"
	snap.Hostels[0].Amenities[0] = "changed"
	snap2 := s.Snapshot()
	if snap2.Hostels[0].Name != "Sunrise" || snap2.Hostels[0].Amenities[0] != "WiFi" {
		t.Fatalf("Snapshot should clone hostels; got %#v", snap2.Hostels[0])
	}
}

func TestStore_SetHostelsReplacesWholesale(t *testing.T) {
	var s Store
	s.SetHostels(listings())
	s.SetHostels([]api.Listing{{ID: "9"}})
	if got := s.Snapshot().Hostels; len(got) != 1 || got[0].ID != "9" {
		t.Fatalf("hostels = %#v, want only id 9", got)
	}
}

func TestStore_FilterHostels(t *testing.T) {
	var s Store
	s.SetHostels(listings())
	s.SetFilters(filter.Criteria{City: "Kota", MaxPrice: filter.PriceCeiling(3500)})

	got := s.FilterHostels()
	if len(got) != 1 || got[0].ID != "3" {
		t.Fatalf("FilterHostels = %#v, want id 3", got)
	}
	if vis := s.Snapshot().Visible(); len(vis) != 1 || vis[0].ID != "3" {
		t.Fatalf("Snapshot.Visible = %#v, want id 3", vis)
	}
}

func TestStore_SetFiltersKeepsQuery(t *testing.T) {
	var s Store
	s.SetSearchQuery("  kota  ")
	s.SetFilters(filter.Criteria{Query: "ignored", Category: "Boys"})

	f := s.Snapshot().Filters
	if f.Query != "kota" {
		t.Fatalf("Query = %q, want kota", f.Query)
	}
	if f.Category != "Boys" {
		t.Fatalf("Category = %q, want Boys", f.Category)
	}
}

func TestStore_SetFiltersCopiesCriteria(t *testing.T) {
	var s Store
	c := filter.Criteria{MaxPrice: filter.PriceCeiling(5000), Amenities: []string{"AC"}}
	s.SetFilters(c)
	*c.MaxPrice = 1
	c.Amenities[0] = "TV"

	f := s.Snapshot().Filters
	if *f.MaxPrice != 5000 || f.Amenities[0] != "AC" {
		t.Fatalf("stored filters changed through caller: %+v", f)
	}
}

func TestStore_ClearFilters(t *testing.T) {
	var s Store
	s.SetSearchQuery("kota")
	s.SetFilters(filter.Criteria{Category: "Girls", City: "Jaipur", MaxPrice: filter.PriceCeiling(1)})
	s.ClearFilters()

	f := s.Snapshot().Filters
	want := filter.Criteria{Category: filter.CategoryAll}
	if !reflect.DeepEqual(f, want) {
		t.Fatalf("filters after clear = %+v, want %+v", f, want)
	}
}

func TestStore_RequestSequenceRejectsStaleResults(t *testing.T) {
	var s Store

	first := s.BeginRequest()
	second := s.BeginRequest()
	if !s.Snapshot().Loading {
		t.Fatal("Loading = false after BeginRequest, want true")
	}

	if !s.ApplyHostels(second, []api.Listing{{ID: "new"}}) {
		t.Fatal("ApplyHostels(latest) = false, want true")
	}
	if s.ApplyHostels(first, []api.Listing{{ID: "old"}}) {
		t.Fatal("ApplyHostels(stale) = true, want false")
	}
	if s.FailRequest(first, errors.New("late failure")) {
		t.Fatal("FailRequest(stale) = true, want false")
	}

	snap := s.Snapshot()
	if len(snap.Hostels) != 1 || snap.Hostels[0].ID != "new" {
		t.Fatalf("hostels = %#v, want the latest result", snap.Hostels)
	}
	if snap.Loading {
		t.Fatal("Loading = true after latest result applied")
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}
}

func TestStore_FailRequestKeepsPreviousData(t *testing.T) {
	var s Store
	s.SetHostels(listings())

	seq := s.BeginRequest()
	origErr := errors.New("boom")
	if !s.FailRequest(seq, origErr) {
		t.Fatal("FailRequest(latest) = false, want true")
	}

	snap := s.Snapshot()
	if len(snap.Hostels) != 3 {
		t.Fatalf("hostels changed on error: %#v", snap.Hostels)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
	if snap.Loading {
		t.Fatal("Loading = true after failure")
	}
}

func TestStore_CurrentHostel(t *testing.T) {
	var s Store
	h := api.Listing{ID: "x", Amenities: []string{"AC"}}
	s.SetCurrentHostel(&h)
	h.Amenities[0] = "TV"

	snap := s.Snapshot()
	if snap.CurrentHostel == nil || snap.CurrentHostel.Amenities[0] != "AC" {
		t.Fatalf("CurrentHostel = %#v, want copy with AC", snap.CurrentHostel)
	}
	s.SetCurrentHostel(nil)
	if s.Snapshot().CurrentHostel != nil {
		t.Fatal("CurrentHostel not cleared")
	}
}

func TestStore_MarkImage(t *testing.T) {
	var s Store
	s.MarkImage("a", true)
	s.MarkImage("b", false)

	snap := s.Snapshot()
	if snap.Images["a"] != ImageOK || snap.Images["b"] != ImageBroken || snap.Images["c"] != ImageUnknown {
		t.Fatalf("Images = %#v", snap.Images)
	}
	snap.Images["a"] = ImageBroken
	if s.Snapshot().Images["a"] != ImageOK {
		t.Fatal("Snapshot should clone image map")
	}
}

func TestStore_SessionConsecutiveFailures(t *testing.T) {
	var s Store

	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("initial snapshot offline: %+v", snap)
	}

	s.SetSession(&api.User{Name: "Asha"}, nil)
	s.SetSession(nil, errors.New("network error"))
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 1 || snap.IsOffline() {
		t.Fatalf("after 1 failure: failures=%d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}
	if snap.User == nil || snap.User.Name != "Asha" {
		t.Fatalf("user dropped on failure: %#v", snap.User)
	}

	s.SetSession(nil, errors.New("network error"))
	if !s.Snapshot().IsOffline() {
		t.Fatal("IsOffline() = false, want true with 2 failures")
	}

	s.SetSession(&api.User{Name: "Asha"}, nil)
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsOffline() || snap.SessionError != nil {
		t.Fatalf("success did not reset: %+v", snap)
	}

	s.ClearSession()
	if s.Snapshot().User != nil {
		t.Fatal("ClearSession did not drop user")
	}
}
