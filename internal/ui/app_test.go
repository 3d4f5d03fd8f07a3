package ui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/stayfinder/internal/api"
	"github.com/five82/stayfinder/internal/filter"
	"github.com/five82/stayfinder/internal/prefs"
	"github.com/five82/stayfinder/internal/state"
)

// fakeService is an in-memory api.Service.
type fakeService struct {
	mu       sync.Mutex
	listings []api.Listing
	searches []string
	token    string

	searchErr error
	loginRes  api.AuthResult
	loginErr  error
	verify    api.User
	created   []api.NewListing
}

func (f *fakeService) SearchListings(_ context.Context, query, category string) (api.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches = append(f.searches, query+"|"+category)
	if f.searchErr != nil {
		return api.SearchResult{}, f.searchErr
	}
	items := filter.Apply(f.listings, filter.Criteria{Query: query, Category: category})
	return api.SearchResult{Items: items, Count: len(items)}, nil
}

func (f *fakeService) FetchListings(context.Context) ([]api.Listing, error) {
	return f.listings, nil
}

func (f *fakeService) FetchListing(_ context.Context, id string) (api.Listing, error) {
	for _, l := range f.listings {
		if l.ID == id {
			return l, nil
		}
	}
	return api.Listing{}, api.ErrNotFound
}

func (f *fakeService) CreateListing(_ context.Context, l api.NewListing) error {
	f.created = append(f.created, l)
	return nil
}

func (f *fakeService) Login(context.Context, api.Credentials) (api.AuthResult, error) {
	return f.loginRes, f.loginErr
}

func (f *fakeService) Register(context.Context, api.Registration) (api.AuthResult, error) {
	return api.AuthResult{Redirect: "/login"}, nil
}

func (f *fakeService) UpdateProfile(_ context.Context, p api.Profile) (api.AuthResult, error) {
	return api.AuthResult{User: &api.User{Name: p.Name, Phone: p.Phone, City: p.City}}, nil
}

func (f *fakeService) Verify(context.Context) (api.User, error) {
	return f.verify, nil
}

func (f *fakeService) ProbeImage(context.Context, string) error { return nil }

func (f *fakeService) SetToken(token string) { f.token = token }

func (f *fakeService) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.searches)
}

func sampleListings() []api.Listing {
	return []api.Listing{
		{ID: "h1", Name: "Sunrise Hostel", City: "Pune", Location: "Kothrud", Category: "hostel", Price: 4500, OriginalPrice: 5000},
		{ID: "h2", Name: "Green PG", City: "Pune", Location: "Baner", Category: "pg", Price: 3000},
		{ID: "h3", Name: "Lake View Apartment", City: "Mumbai", Location: "Powai", Category: "apartment", Price: 6000},
	}
}

func newTestModel(t *testing.T, svc *fakeService) Model {
	t.Helper()
	m := New(Options{
		Client:    svc,
		Store:     &state.Store{},
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	})
	m.width, m.height, m.ready = 120, 40, true
	return m
}

// collect runs cmd and flattens batches. Only pass commands that return
// promptly.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func find[T tea.Msg](t *testing.T, msgs []tea.Msg) T {
	t.Helper()
	for _, msg := range msgs {
		if v, ok := msg.(T); ok {
			return v
		}
	}
	var zero T
	t.Fatalf("no %T among %d messages", zero, len(msgs))
	return zero
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// loaded returns a model with the initial search applied.
func loaded(t *testing.T, svc *fakeService) Model {
	t.Helper()
	m := newTestModel(t, svc)
	m, _ = update(m, find[listingsMsg](t, collect(m.initCmd)))
	return m
}

func TestParseRoute(t *testing.T) {
	tests := []struct {
		path string
		kind routeKind
		id   string
		ok   bool
	}{
		{"/", routeHome, "", true},
		{"", routeHome, "", true},
		{"/index.html", routeHome, "", true},
		{"/owner-dashboard", routeHome, "", true},
		{"/login", routeLogin, "", true},
		{"/login/", routeLogin, "", true},
		{"/register?next=/add", routeRegister, "", true},
		{"/add", routeAdd, "", true},
		{"/account-settings", routeAccount, "", true},
		{"/hostel/abc123", routeDetail, "abc123", true},
		{"/hostel/", routeHome, "", false},
		{"/hostel/a/b", routeHome, "", false},
		{"/nowhere", routeHome, "", false},
	}
	for _, tt := range tests {
		r, ok := parseRoute(tt.path)
		if ok != tt.ok || r.kind != tt.kind || r.id != tt.id {
			t.Fatalf("parseRoute(%q) = (%+v, %v), want kind %v id %q ok %v", tt.path, r, ok, tt.kind, tt.id, tt.ok)
		}
	}
}

func TestRouteSetupRunsOncePerNavigation(t *testing.T) {
	m := newTestModel(t, &fakeService{listings: sampleListings()})
	if m.setupCount != 1 {
		t.Fatalf("setupCount after New = %d, want 1", m.setupCount)
	}

	m, _ = m.navigate(pathLogin)
	if m.setupCount != 2 {
		t.Fatalf("setupCount after navigate = %d, want 2", m.setupCount)
	}
	for i := 0; i < 3; i++ {
		m, _ = update(m, tea.WindowSizeMsg{Width: 100 + i, Height: 30})
		_ = m.View()
	}
	m, _ = update(m, snapshotMsg(m.store.Snapshot()))
	if m.setupCount != 2 {
		t.Fatalf("setupCount after redraws = %d, want 2", m.setupCount)
	}

	m, _ = m.back()
	if m.route.kind != routeHome || m.setupCount != 3 {
		t.Fatalf("after back route = %v setups = %d, want home and 3", m.route.kind, m.setupCount)
	}
}

func TestInitialLoadShowsFullSet(t *testing.T) {
	svc := &fakeService{listings: sampleListings()}
	m := loaded(t, svc)

	if got := len(m.snapshot.Visible()); got != 3 {
		t.Fatalf("visible = %d, want 3", got)
	}
	if svc.searches[0] != "|all" {
		t.Fatalf("first search = %q, want empty query in all", svc.searches[0])
	}
	view := m.View()
	for _, want := range []string{"Popular Hostels & PGs", "Sunrise Hostel", "₹4500/-"} {
		if !strings.Contains(view, want) {
			t.Fatalf("View() missing %q", want)
		}
	}
}

func TestStaleSearchResultIsDropped(t *testing.T) {
	m := newTestModel(t, &fakeService{listings: sampleListings()})
	first := find[listingsMsg](t, collect(m.initCmd))

	m.home.search.SetValue("green")
	m, cmd := m.runSearch()
	second := find[listingsMsg](t, collect(cmd))

	m, _ = update(m, second)
	m, _ = update(m, first)

	hostels := m.snapshot.Hostels
	if len(hostels) != 1 || hostels[0].ID != "h2" {
		t.Fatalf("hostels = %+v, want only the newer result", hostels)
	}
	if m.snapshot.Loading {
		t.Fatalf("Loading = true after latest result applied")
	}
}

func TestSearchFailureShowsErrorPlaceholder(t *testing.T) {
	svc := &fakeService{listings: sampleListings(), searchErr: &api.NetworkError{Op: "search", Err: errors.New("connection refused")}}
	m := newTestModel(t, svc)
	m, _ = update(m, find[listingsMsg](t, collect(m.initCmd)))

	if m.snapshot.LastError == nil {
		t.Fatalf("LastError = nil, want search error")
	}
	if len(m.notes.items) != 1 || m.notes.items[0].message != "Search failed. Please try again." {
		t.Fatalf("notes = %+v, want search failure toast", m.notes.items)
	}
	if view := m.View(); !strings.Contains(view, "Search Error") || !strings.Contains(view, "Clear Search") {
		t.Fatalf("View() missing error placeholder")
	}
}

func TestCategoryButtonRunsRemoteSearch(t *testing.T) {
	svc := &fakeService{listings: sampleListings()}
	m := loaded(t, svc)

	m, cmd := update(m, keyRunes("3"))
	if m.home.category != 2 {
		t.Fatalf("category = %d, want 2", m.home.category)
	}
	m, _ = update(m, find[listingsMsg](t, collect(cmd)))

	if last := svc.searches[len(svc.searches)-1]; last != "|pg" {
		t.Fatalf("last search = %q, want |pg", last)
	}
	visible := m.snapshot.Visible()
	if len(visible) != 1 || visible[0].ID != "h2" {
		t.Fatalf("visible = %+v, want the pg listing", visible)
	}

	// Same button again is a no-op.
	before := svc.searchCount()
	if _, cmd := update(m, keyRunes("3")); cmd != nil || svc.searchCount() != before {
		t.Fatalf("re-selecting the active category issued a search")
	}
}

func TestPriceSliderFiltersLocally(t *testing.T) {
	svc := &fakeService{listings: sampleListings()}
	m := loaded(t, svc)
	before := svc.searchCount()

	m.home.price = 5000 + PriceStep
	m, cmd := update(m, keyRunes("["))
	if cmd != nil {
		t.Fatalf("price change returned a command, want local filtering only")
	}
	if m.home.price != 5000 {
		t.Fatalf("price = %d, want 5000", m.home.price)
	}
	if got := len(m.snapshot.Visible()); got != 2 {
		t.Fatalf("visible = %d, want 2", got)
	}
	if svc.searchCount() != before {
		t.Fatalf("price change hit the API")
	}
	if !strings.Contains(m.View(), "Up to ₹5000/-") {
		t.Fatalf("price label not updated")
	}

	m.home.price = PriceMax - PriceStep
	m, _ = update(m, keyRunes("]"))
	if m.home.ceiling() != nil || len(m.snapshot.Visible()) != 3 {
		t.Fatalf("slider at max should remove the ceiling")
	}
}

func TestAmenityPickerRequiresAll(t *testing.T) {
	listings := sampleListings()
	listings[0].Amenities = []string{"WiFi", "AC"}
	listings[1].Amenities = []string{"WiFi"}
	listings[2].Amenities = []string{}
	m := loaded(t, &fakeService{listings: listings})

	m, _ = update(m, keyRunes("a"))
	m, _ = update(m, keyRunes(" ")) // WiFi
	if got := len(m.snapshot.Visible()); got != 2 {
		t.Fatalf("visible with WiFi = %d, want 2", got)
	}
	m, _ = update(m, keyRunes("l"))
	m, _ = update(m, keyRunes("l"))
	m, _ = update(m, keyRunes(" ")) // AC
	if got := len(m.snapshot.Visible()); got != 1 {
		t.Fatalf("visible with WiFi+AC = %d, want 1", got)
	}
}

func TestClearFiltersReloads(t *testing.T) {
	svc := &fakeService{listings: sampleListings()}
	m := loaded(t, svc)
	m.home.city.SetValue("Pune")
	m.home.price = 3000
	m = m.applyLocalFilters()
	if got := len(m.snapshot.Visible()); got != 1 {
		t.Fatalf("visible before clear = %d, want 1", got)
	}

	m, cmd := update(m, keyRunes("x"))
	m, _ = update(m, find[listingsMsg](t, collect(cmd)))
	if !m.snapshot.Filters.IsZero() || m.snapshot.Filters.Category != filter.CategoryAll {
		t.Fatalf("filters after clear = %+v", m.snapshot.Filters)
	}
	if got := len(m.snapshot.Visible()); got != 3 {
		t.Fatalf("visible after clear = %d, want 3", got)
	}
}

func TestEnterOpensSelectedListing(t *testing.T) {
	m := loaded(t, &fakeService{listings: sampleListings()})
	m, _ = update(m, keyRunes("l"))
	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.route.kind != routeDetail || m.route.id != "h2" {
		t.Fatalf("route = %+v, want detail of h2", m.route)
	}
	m, _ = update(m, find[listingMsg](t, collect(cmd)))
	if m.snapshot.CurrentHostel == nil || m.snapshot.CurrentHostel.ID != "h2" {
		t.Fatalf("CurrentHostel = %+v, want h2", m.snapshot.CurrentHostel)
	}
	if !strings.Contains(m.detailContent(), "Green PG") {
		t.Fatalf("detail content missing listing name")
	}
}

func TestDetailNotFound(t *testing.T) {
	m := newTestModel(t, &fakeService{})
	m, cmd := m.navigate("/hostel/missing")
	m, _ = update(m, find[listingMsg](t, collect(cmd)))
	if !m.detail.notFound {
		t.Fatalf("notFound = false, want true")
	}
	if !strings.Contains(m.View(), "was not found") {
		t.Fatalf("View() missing not-found text")
	}
}

func TestBookingRequiresLogin(t *testing.T) {
	m := newTestModel(t, &fakeService{listings: sampleListings()})
	m, cmd := m.navigate("/hostel/h1")
	m, _ = update(m, find[listingMsg](t, collect(cmd)))

	m, _ = update(m, keyRunes("b"))
	if m.route.kind != routeLogin {
		t.Fatalf("route = %v, want login", m.route.kind)
	}
	if m.afterLogin != "/hostel/h1" {
		t.Fatalf("afterLogin = %q, want /hostel/h1", m.afterLogin)
	}
	if len(m.notes.items) == 0 || m.notes.items[0].message != "Please login to make a booking" {
		t.Fatalf("notes = %+v", m.notes.items)
	}
}

func TestBookingWhenSignedIn(t *testing.T) {
	m := newTestModel(t, &fakeService{listings: sampleListings()})
	m.store.SetSession(&api.User{Name: "Asha"}, nil)
	m, cmd := m.navigate("/hostel/h1")
	m, _ = update(m, find[listingMsg](t, collect(cmd)))

	m, _ = update(m, keyRunes("b"))
	if m.route.kind != routeDetail {
		t.Fatalf("route = %v, want detail", m.route.kind)
	}
	if len(m.notes.items) == 0 || m.notes.items[0].message != "Booking feature coming soon!" {
		t.Fatalf("notes = %+v", m.notes.items)
	}
}

func TestProtectedRoutesRedirectToLogin(t *testing.T) {
	for _, path := range []string{pathAdd, pathAccount} {
		m := newTestModel(t, &fakeService{})
		m, _ = m.navigate(path)
		if m.route.kind != routeLogin || m.form == nil || m.form.kind != formLogin {
			t.Fatalf("navigate(%s) route = %v, want login form", path, m.route.kind)
		}
		if m.afterLogin != path {
			t.Fatalf("afterLogin = %q, want %q", m.afterLogin, path)
		}
	}
}

func TestLoginStoresSessionAndRedirects(t *testing.T) {
	svc := &fakeService{
		listings: sampleListings(),
		loginRes: api.AuthResult{
			AccessToken: "tok-1",
			Redirect:    "/owner-dashboard",
			User:        &api.User{Name: "Asha", Email: "asha@example.com"},
		},
	}
	m := newTestModel(t, svc)
	m, _ = m.navigate(pathAdd)
	m.form.fields[0].input.SetValue("asha@example.com")
	m.form.fields[1].input.SetValue("secret1")

	m, cmd := m.submitForm()
	m, _ = update(m, find[authMsg](t, collect(cmd)))

	if svc.token != "tok-1" {
		t.Fatalf("token = %q, want tok-1", svc.token)
	}
	if m.snapshot.User == nil || m.snapshot.User.Name != "Asha" {
		t.Fatalf("User = %+v, want Asha", m.snapshot.User)
	}
	if m.route.kind != routeAdd || m.form == nil || m.form.kind != formAdd {
		t.Fatalf("route = %v, want the page that asked for login", m.route.kind)
	}
	saved, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if saved.Token != "tok-1" || saved.UserName != "Asha" {
		t.Fatalf("saved prefs = %+v", saved)
	}
}

func TestLoginRedirectFallsBackToHome(t *testing.T) {
	svc := &fakeService{loginRes: api.AuthResult{AccessToken: "t", Redirect: "/owner-dashboard", User: &api.User{Name: "A"}}}
	m := newTestModel(t, svc)
	m, _ = m.navigate(pathLogin)
	m.form.fields[0].input.SetValue("a@example.com")
	m.form.fields[1].input.SetValue("secret1")
	m, cmd := m.submitForm()
	m, _ = update(m, find[authMsg](t, collect(cmd)))
	if m.route.kind != routeHome {
		t.Fatalf("route = %v, want home", m.route.kind)
	}
}

func TestLoginFailureMessage(t *testing.T) {
	svc := &fakeService{loginErr: &api.ServerError{Status: 401, Message: "bad credentials"}}
	m := newTestModel(t, svc)
	m, _ = m.navigate(pathLogin)
	m.form.fields[0].input.SetValue("a@example.com")
	m.form.fields[1].input.SetValue("wrongpw")
	m, cmd := m.submitForm()
	m, _ = update(m, find[authMsg](t, collect(cmd)))

	if m.route.kind != routeLogin {
		t.Fatalf("route = %v, want login", m.route.kind)
	}
	if m.form.message != "Invalid email or password" {
		t.Fatalf("form message = %q", m.form.message)
	}
}

func TestServerValidationErrorsLandOnFields(t *testing.T) {
	m := newTestModel(t, &fakeService{})
	m, _ = m.navigate(pathRegister)
	m.form.submitting = true
	m, _ = update(m, authMsg{kind: formRegister, err: &api.ValidationError{Fields: map[string]string{"email": "Email already registered"}}})

	if got := m.form.fields[1].err; got != "Email already registered" {
		t.Fatalf("email field error = %q", got)
	}
	if m.form.submitting {
		t.Fatalf("submitting still true")
	}
}

func TestLocalValidationBlocksSubmit(t *testing.T) {
	m := newTestModel(t, &fakeService{})
	m, _ = m.navigate(pathRegister)
	m.form.fields[0].input.SetValue("Asha")
	m.form.fields[1].input.SetValue("not-an-email")
	m.form.fields[2].input.SetValue("abc")
	m.form.fields[3].input.SetValue("abd")

	m, cmd := m.submitForm()
	if cmd != nil {
		t.Fatalf("submitForm returned a command for an invalid form")
	}
	for i, want := range []string{"", "Please enter a valid email address", "Password must be at least 6 characters long", "Passwords do not match"} {
		if got := m.form.fields[i].err; got != want {
			t.Fatalf("field %s error = %q, want %q", m.form.fields[i].name, got, want)
		}
	}
}

func TestCreateListingGoesHome(t *testing.T) {
	svc := &fakeService{listings: sampleListings()}
	m := newTestModel(t, svc)
	m.store.SetSession(&api.User{Name: "Owner"}, nil)
	m.refreshSnapshot()
	m, _ = m.navigate(pathAdd)
	if m.form == nil || m.form.kind != formAdd {
		t.Fatalf("form = %+v, want add form", m.form)
	}
	m.form.set("name", "Blue Nest")
	m.form.set("type", "PG")
	m.form.set("city", "Pune")
	m.form.set("location", "Aundh")
	m.form.set("price", "5200")
	m.form.set("amenities", "WiFi, Meals")

	m, cmd := m.submitForm()
	m, _ = update(m, find[createMsg](t, collect(cmd)))

	if len(svc.created) != 1 || svc.created[0].Category != "pg" || len(svc.created[0].Amenities) != 2 {
		t.Fatalf("created = %+v", svc.created)
	}
	if m.route.kind != routeHome {
		t.Fatalf("route = %v, want home", m.route.kind)
	}
	if m.notes.items[0].message != "Hostel added successfully!" {
		t.Fatalf("notes = %+v", m.notes.items)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	m := newTestModel(t, &fakeService{})
	m.store.SetSession(&api.User{Name: "Asha"}, nil)
	m.refreshSnapshot()

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyCtrlO})
	if m.snapshot.User != nil {
		t.Fatalf("User = %+v, want nil", m.snapshot.User)
	}
}

func TestRejectedSessionDropsSavedToken(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(t, svc)
	if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: "Slate", Token: "stale", UserName: "Asha"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	svc.token = "stale"
	m.store.SetSession(&api.User{Name: "Asha"}, nil)
	m.refreshSnapshot()

	m, _ = update(m, verifyMsg{err: &api.ServerError{Status: 401, Message: "expired"}})
	if m.snapshot.User != nil {
		t.Fatalf("User = %+v, want nil", m.snapshot.User)
	}
	if svc.token != "" {
		t.Fatalf("client token = %q, want cleared", svc.token)
	}
	saved, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if saved.Token != "" || saved.UserName != "" || saved.Theme != "Slate" {
		t.Fatalf("prefs = %+v, want session cleared and theme kept", saved)
	}
}

func TestGlobalKeysIgnoredWhileTyping(t *testing.T) {
	m := loaded(t, &fakeService{listings: sampleListings()})
	m, _ = update(m, keyRunes("/"))
	m, cmd := update(m, keyRunes("q"))
	if cmd != nil {
		if _, quit := cmd().(tea.QuitMsg); quit {
			t.Fatalf("q quit while the search box had focus")
		}
	}
	if m.home.search.Value() != "q" {
		t.Fatalf("search value = %q, want q", m.home.search.Value())
	}
}

func keyMsgDown() tea.KeyMsg  { return tea.KeyMsg{Type: tea.KeyDown} }
func keyMsgEnter() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEnter} }
