package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/stayfinder/internal/api"
	"github.com/five82/stayfinder/internal/filter"
	"github.com/five82/stayfinder/internal/prefs"
	"github.com/five82/stayfinder/internal/render"
	"github.com/five82/stayfinder/internal/state"
)

// homeFocus is the control on the home screen that receives keys.
type homeFocus int

const (
	focusGrid homeFocus = iota
	focusSearch
	focusCity
	focusAmenities
)

// homeState holds the filter bar and grid selection.
type homeState struct {
	focus homeFocus

	search      textinput.Model
	debounce    debouncer
	suggestions []api.Listing
	suggestIdx  int

	city textinput.Model

	category int
	// price is the slider value. PriceMax means no ceiling.
	price int

	amenities     map[string]bool
	amenityCursor int

	selected int
	probed   map[string]bool
}

func newHomeState(category string) homeState {
	search := textinput.New()
	search.Placeholder = "Search by name, city or area"
	search.Prompt = "⌕ "
	search.CharLimit = 80
	search.Cursor.SetMode(cursor.CursorStatic)

	city := textinput.New()
	city.Placeholder = "any city"
	city.Prompt = ""
	city.CharLimit = 40
	city.Cursor.SetMode(cursor.CursorStatic)

	return homeState{
		search:     search,
		debounce:   newDebouncer(),
		suggestIdx: -1,
		city:       city,
		category:   categoryIndex(category),
		price:      PriceMax,
		amenities:  make(map[string]bool),
		probed:     make(map[string]bool),
	}
}

func (h *homeState) blurAll() {
	h.search.Blur()
	h.city.Blur()
	h.focus = focusGrid
	h.clearSuggestions()
}

func (h *homeState) clearSuggestions() {
	h.debounce.Cancel()
	h.suggestions = nil
	h.suggestIdx = -1
}

// typing reports whether a text input has focus, which disables
// single-letter shortcuts.
func (h homeState) typing() bool {
	return h.focus == focusSearch || h.focus == focusCity
}

// ceiling converts the slider value into a price criterion.
func (h homeState) ceiling() *int {
	if h.price >= PriceMax {
		return nil
	}
	return filter.PriceCeiling(h.price)
}

func (h homeState) priceLabel() string {
	if h.price >= PriceMax {
		return "Any price"
	}
	return "Up to " + render.FormatPrice(float64(h.price))
}

// criteria builds the non-query filter criteria from the filter bar.
func (h homeState) criteria() filter.Criteria {
	var amenities []string
	for _, a := range AmenityOptions {
		if h.amenities[a] {
			amenities = append(amenities, a)
		}
	}
	return filter.Criteria{
		Category:  Categories[h.category],
		City:      strings.TrimSpace(h.city.Value()),
		MaxPrice:  h.ceiling(),
		Amenities: amenities,
	}
}

// runSearch issues a remote search for the current query and category.
// The filter bar criteria are stored first so the local pass agrees with it.
func (m Model) runSearch() (Model, tea.Cmd) {
	query := strings.TrimSpace(m.home.search.Value())
	category := m.category()
	m.home.clearSuggestions()
	m.store.SetFilters(m.home.criteria())
	m.store.SetSearchQuery(query)
	seq := m.store.BeginRequest()
	m.refreshSnapshot()
	m.logger.Debug("search", "seq", seq, "query", query, "category", category)
	return m, tea.Batch(m.spinner.Tick, m.searchCmd(seq, query, category))
}

// applyLocalFilters re-filters the cached listings without a network call.
func (m Model) applyLocalFilters() Model {
	m.store.SetFilters(m.home.criteria())
	m.refreshSnapshot()
	m.clampSelection()
	return m
}

func (m Model) setCategory(idx int) (Model, tea.Cmd) {
	if idx < 0 || idx >= len(Categories) || idx == m.home.category {
		return m, nil
	}
	m.home.category = idx
	m.home.selected = 0
	m.savePrefs(func(p *prefs.Prefs) { p.LastCategory = Categories[idx] })
	return m.runSearch()
}

// clearFilters resets every control and reloads the unfiltered set.
func (m Model) clearFilters() (Model, tea.Cmd) {
	m.store.ClearFilters()
	m.home.search.SetValue("")
	m.home.city.SetValue("")
	m.home.category = 0
	m.home.price = PriceMax
	m.home.amenities = make(map[string]bool)
	m.home.selected = 0
	m.home.blurAll()
	return m.runSearch()
}

func (m *Model) clampSelection() {
	n := len(m.snapshot.Visible())
	m.home.selected = clampInt(m.home.selected, 0, maxInt(0, n-1))
}

func (m Model) handleHomeKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.home.focus {
	case focusSearch:
		return m.handleSearchKey(msg)
	case focusCity:
		return m.handleCityKey(msg)
	case focusAmenities:
		return m.handleAmenityKey(msg), nil
	}

	visible := m.snapshot.Visible()
	cols := render.Columns(m.width)

	switch {
	case key.Matches(msg, m.keys.Search):
		m.home.focus = focusSearch
		return m, m.home.search.Focus()
	case key.Matches(msg, m.keys.City):
		m.home.focus = focusCity
		return m, m.home.city.Focus()
	case key.Matches(msg, m.keys.Amenities):
		m.home.focus = focusAmenities
		return m, nil
	case key.Matches(msg, m.keys.Category):
		return m.setCategory(int(msg.String()[0] - '1'))
	case key.Matches(msg, m.keys.PriceDown):
		m.home.price = clampInt(m.home.price-PriceStep, PriceMin, PriceMax)
		return m.applyLocalFilters(), nil
	case key.Matches(msg, m.keys.PriceUp):
		m.home.price = clampInt(m.home.price+PriceStep, PriceMin, PriceMax)
		return m.applyLocalFilters(), nil
	case key.Matches(msg, m.keys.Clear):
		return m.clearFilters()
	case key.Matches(msg, m.keys.Reload):
		return m.runSearch()
	case key.Matches(msg, m.keys.Left):
		m.home.selected--
	case key.Matches(msg, m.keys.Right):
		m.home.selected++
	case key.Matches(msg, m.keys.Up):
		m.home.selected -= cols
	case key.Matches(msg, m.keys.Down):
		if m.home.selected+cols < len(visible) {
			m.home.selected += cols
		}
	case key.Matches(msg, m.keys.Confirm):
		if m.home.selected < len(visible) {
			return m.navigate(render.DetailPath(visible[m.home.selected].ID))
		}
		return m, nil
	default:
		return m, nil
	}
	m.clampSelection()
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.home.search.Blur()
		m.home.focus = focusGrid
		m.home.clearSuggestions()
		return m, nil
	case tea.KeyEnter:
		if i := m.home.suggestIdx; i >= 0 && i < len(m.home.suggestions) {
			m.home.search.SetValue(suggestionText(m.home.suggestions[i]))
		}
		m.home.search.Blur()
		m.home.focus = focusGrid
		m.home.selected = 0
		return m.runSearch()
	case tea.KeyUp:
		if len(m.home.suggestions) > 0 {
			m.home.suggestIdx = maxInt(-1, m.home.suggestIdx-1)
		}
		return m, nil
	case tea.KeyDown:
		if len(m.home.suggestions) > 0 {
			m.home.suggestIdx = minInt(len(m.home.suggestions)-1, m.home.suggestIdx+1)
		}
		return m, nil
	}

	before := m.home.search.Value()
	var cmd tea.Cmd
	m.home.search, cmd = m.home.search.Update(msg)
	if m.home.search.Value() == before {
		return m, cmd
	}
	m.home.suggestions = nil
	m.home.suggestIdx = -1
	return m, tea.Batch(cmd, m.home.debounce.Input(m.home.search.Value()))
}

func (m Model) handleCityKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		m.home.city.Blur()
		m.home.focus = focusGrid
		return m, nil
	case tea.KeyTab:
		if city := completeCity(m.home.city.Value(), filter.Cities(m.snapshot.Hostels)); city != "" {
			m.home.city.SetValue(city)
			m.home.city.CursorEnd()
			m = m.applyLocalFilters()
		}
		return m, nil
	}
	before := m.home.city.Value()
	var cmd tea.Cmd
	m.home.city, cmd = m.home.city.Update(msg)
	if m.home.city.Value() != before {
		m = m.applyLocalFilters()
	}
	return m, cmd
}

// completeCity returns the first known city starting with prefix, ignoring
// case, or empty.
func completeCity(prefix string, cities []string) string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return ""
	}
	for _, c := range cities {
		if strings.HasPrefix(strings.ToLower(c), prefix) {
			return c
		}
	}
	return ""
}

func (m Model) handleAmenityKey(msg tea.KeyMsg) Model {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Confirm), key.Matches(msg, m.keys.Amenities):
		m.home.focus = focusGrid
	case key.Matches(msg, m.keys.Left), key.Matches(msg, m.keys.Up):
		m.home.amenityCursor = clampInt(m.home.amenityCursor-1, 0, len(AmenityOptions)-1)
	case key.Matches(msg, m.keys.Right), key.Matches(msg, m.keys.Down):
		m.home.amenityCursor = clampInt(m.home.amenityCursor+1, 0, len(AmenityOptions)-1)
	case key.Matches(msg, m.keys.Toggle):
		name := AmenityOptions[m.home.amenityCursor]
		m.home.amenities[name] = !m.home.amenities[name]
		return m.applyLocalFilters()
	}
	return m
}

// suggestionText is what a picked suggestion puts in the search box.
func suggestionText(l api.Listing) string {
	if l.City == "" {
		return l.Name
	}
	return l.Name + ", " + l.City
}

func (m Model) handleSuggestTick(msg suggestTickMsg) (Model, tea.Cmd) {
	if !m.home.debounce.Current(msg.seq) || m.home.focus != focusSearch {
		return m, nil
	}
	return m, m.suggestCmd(msg.seq, msg.query, m.category())
}

func (m Model) handleSuggestions(msg suggestionsMsg) Model {
	if !m.home.debounce.Current(msg.seq) {
		m.logger.Debug("stale suggestions dropped", "seq", msg.seq)
		return m
	}
	if msg.err != nil {
		m.logger.Warn("suggestions failed", "error", msg.err)
		m.home.suggestions = nil
		return m
	}
	items := msg.items
	if len(items) > SuggestLimit {
		items = items[:SuggestLimit]
	}
	m.home.suggestions = items
	m.home.suggestIdx = -1
	return m
}

func (m Model) handleListings(msg listingsMsg) (Model, tea.Cmd) {
	if msg.err != nil {
		if !m.store.FailRequest(msg.seq, msg.err) {
			return m, nil
		}
		m.logger.Error("search failed", "query", msg.query, "category", msg.category, "error", msg.err)
		m.refreshSnapshot()
		return m, m.notify(levelError, "Search failed. Please try again.")
	}
	if !m.store.ApplyHostels(msg.seq, msg.items) {
		m.logger.Debug("stale search result dropped", "seq", msg.seq)
		return m, nil
	}
	m.logger.Info("search complete", "query", msg.query, "category", msg.category, "count", msg.count)
	m.refreshSnapshot()
	m.clampSelection()
	return m, m.probeImages(msg.items)
}

// probeImages checks each unseen image URL once.
func (m Model) probeImages(items []api.Listing) tea.Cmd {
	var cmds []tea.Cmd
	for _, l := range items {
		url := l.ImageURL()
		if url == "" || m.home.probed[url] || m.snapshot.Images[url] != state.ImageUnknown {
			continue
		}
		m.home.probed[url] = true
		cmds = append(cmds, m.probeImageCmd(url))
	}
	return tea.Batch(cmds...)
}

// View

func (m Model) renderHome(height int) string {
	styles := m.theme.Styles()
	var b strings.Builder

	b.WriteString(m.renderSearchBar())
	b.WriteString("\n")
	if dropdown := m.renderSuggestions(); dropdown != "" {
		b.WriteString(dropdown)
		b.WriteString("\n")
	}
	b.WriteString(m.renderCategoryBar())
	b.WriteString("\n")
	b.WriteString(m.renderFilterLine())
	b.WriteString("\n\n")

	snap := m.snapshot
	visible := snap.Visible()
	query := snap.Filters.Query
	category := snap.Filters.Category

	b.WriteString(styles.Text.Bold(true).Render(render.ResultsTitle(query, category, len(visible))))
	if note := render.NoResultsNote(query, category, len(visible)); note != "" {
		b.WriteString("  ")
		b.WriteString(styles.MutedText.Render(note))
	}
	if snap.Loading {
		b.WriteString("  ")
		b.WriteString(m.spinner.View())
		b.WriteString(styles.MutedText.Render(" Loading..."))
	}
	b.WriteString("\n\n")

	used := lipgloss.Height(b.String())
	b.WriteString(m.renderResults(visible, maxInt(4, height-used)))
	return b.String()
}

func (m Model) renderSearchBar() string {
	styles := m.theme.Styles()
	box := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color(ternary(m.home.focus == focusSearch, m.theme.BorderFocus, m.theme.Border))).
		Width(maxInt(20, minInt(m.width-2, 60)))
	hint := ""
	if m.home.focus != focusSearch {
		hint = styles.FaintText.Render("  / to search")
	}
	return box.Render(m.home.search.View()) + hint
}

func (m Model) renderSuggestions() string {
	if m.home.focus != focusSearch || len(m.home.suggestions) == 0 {
		return ""
	}
	styles := m.theme.Styles()
	lines := make([]string, 0, len(m.home.suggestions))
	for i, s := range m.home.suggestions {
		line := fmt.Sprintf("%s %s", render.CategoryIcon(s.Category), truncate(s.Name, 30))
		if place := render.Place(s); place != "" {
			line += styles.MutedText.Render("  " + truncate(place, 30))
		}
		if i == m.home.suggestIdx {
			line = styles.Selected.Render(padRight(line, 40))
		}
		lines = append(lines, line)
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderMuted)).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

func (m Model) renderCategoryBar() string {
	styles := m.theme.Styles()
	compact := m.width < LayoutCompactWidth
	buttons := make([]string, 0, len(Categories))
	for i, c := range Categories {
		label := categoryButtonLabel(c)
		if !compact {
			label = fmt.Sprintf("%d %s", i+1, label)
		}
		if i == m.home.category {
			buttons = append(buttons, styles.Active.Render(label))
		} else {
			buttons = append(buttons, styles.Button.Render(label))
		}
	}
	return strings.Join(buttons, " ")
}

func categoryButtonLabel(c string) string {
	switch c {
	case "all":
		return "All"
	case "pg":
		return "PG"
	default:
		return titleCase(c)
	}
}

func (m Model) renderFilterLine() string {
	styles := m.theme.Styles()
	label := func(s string) string { return styles.MutedText.Render(s) }

	price := styles.AccentText.Render(m.home.priceLabel())
	slider := renderSlider(m.home.price, 12, styles)

	cityValue := m.home.city.View()
	if m.home.focus != focusCity && strings.TrimSpace(m.home.city.Value()) == "" {
		cityValue = styles.FaintText.Render("any")
	}

	parts := []string{
		label("Price ") + slider + " " + price,
		label("City ") + cityValue,
		label("Amenities ") + m.renderAmenities(),
	}
	if m.width < LayoutCompactWidth {
		return strings.Join(parts, "\n")
	}
	return strings.Join(parts, styles.FaintText.Render("  │  "))
}

func renderSlider(value, width int, styles Styles) string {
	filled := value * width / PriceMax
	return styles.AccentText.Render(strings.Repeat("━", filled)) +
		styles.FaintText.Render(strings.Repeat("─", width-filled))
}

func (m Model) renderAmenities() string {
	styles := m.theme.Styles()
	if m.home.focus != focusAmenities {
		var on []string
		for _, a := range AmenityOptions {
			if m.home.amenities[a] {
				on = append(on, a)
			}
		}
		if len(on) == 0 {
			return styles.FaintText.Render("any")
		}
		return styles.Text.Render(strings.Join(on, ", "))
	}
	boxes := make([]string, 0, len(AmenityOptions))
	for i, a := range AmenityOptions {
		box := ternary(m.home.amenities[a], "[x] ", "[ ] ") + a
		if i == m.home.amenityCursor {
			box = styles.Selected.Render(box)
		}
		boxes = append(boxes, box)
	}
	return strings.Join(boxes, " ")
}

// renderResults draws the error placeholder or the card grid, scrolled so the
// selected card is on screen.
func (m Model) renderResults(visible []api.Listing, height int) string {
	opts := render.Options{Width: m.width, Selected: m.home.selected, Palette: m.theme.Palette()}
	snap := m.snapshot

	if snap.LastError != nil && !snap.Loading {
		return render.RenderPlaceholder(render.Placeholder{
			Kind:     render.SearchError,
			Query:    snap.Filters.Query,
			Category: snap.Filters.Category,
			Message:  api.UserMessage(snap.LastError),
		}, opts)
	}
	if len(visible) == 0 {
		if snap.Loading {
			return ""
		}
		return render.RenderPlaceholder(render.Placeholder{
			Kind:     render.NoResults,
			Query:    snap.Filters.Query,
			Category: snap.Filters.Category,
		}, opts)
	}

	cards := render.Cards(visible, snap.Images)
	cols := render.Columns(m.width)
	rowHeight := lipgloss.Height(render.Grid(cards[:1], render.Options{Width: m.width, Selected: -1, Palette: opts.Palette}))
	rowsFit := maxInt(1, height/maxInt(1, rowHeight))
	start := 0
	if row := m.home.selected / cols; row >= rowsFit {
		start = (row - rowsFit + 1) * cols
	}
	end := minInt(len(cards), start+rowsFit*cols)
	opts.Selected = m.home.selected - start
	return render.Grid(cards[start:end], opts)
}
