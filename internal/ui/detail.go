package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/stayfinder/internal/api"
	"github.com/five82/stayfinder/internal/render"
)

// detailState holds the listing detail page.
type detailState struct {
	id       string
	loading  bool
	notFound bool
	err      error
	viewport viewport.Model
}

func newDetailState(width, height int) detailState {
	vp := viewport.New(maxInt(20, width), maxInt(5, height-4))
	return detailState{viewport: vp}
}

func (m Model) handleListing(msg listingMsg) (Model, tea.Cmd) {
	if m.route.kind != routeDetail || msg.id != m.detail.id {
		return m, nil
	}
	m.detail.loading = false
	if msg.err != nil {
		m.detail.err = msg.err
		if errors.Is(msg.err, api.ErrNotFound) {
			m.detail.notFound = true
			m.logger.Warn("listing not found", "id", msg.id)
			return m, nil
		}
		m.logger.Error("load listing failed", "id", msg.id, "error", msg.err)
		return m, m.notify(levelError, api.UserMessage(msg.err))
	}
	listing := msg.listing
	m.store.SetCurrentHostel(&listing)
	m.refreshSnapshot()
	m.updateDetailViewport()
	return m, m.probeImages([]api.Listing{listing})
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Book):
		return m.book()
	case key.Matches(msg, m.keys.Reload):
		return m.setupRoute()
	}
	var cmd tea.Cmd
	m.detail.viewport, cmd = m.detail.viewport.Update(msg)
	return m, cmd
}

// book is the booking action. Booking needs a signed-in user.
func (m Model) book() (Model, tea.Cmd) {
	if m.snapshot.CurrentHostel == nil {
		return m, nil
	}
	if m.snapshot.User == nil {
		return m.requireLogin("Please login to make a booking")
	}
	return m, m.notify(levelInfo, "Booking feature coming soon!")
}

func (m *Model) updateDetailViewport() {
	m.detail.viewport.Width = maxInt(20, m.width)
	m.detail.viewport.Height = maxInt(5, m.height-4)
	m.detail.viewport.SetContent(m.detailContent())
}

// detailContent renders the full listing for the viewport.
func (m Model) detailContent() string {
	h := m.snapshot.CurrentHostel
	if h == nil {
		return ""
	}
	styles := m.theme.Styles()
	card := render.NewCard(*h, m.snapshot.Images[h.ImageURL()])
	width := maxInt(20, minInt(m.width, 80))

	var b strings.Builder
	writeSection := func(title string) {
		fmt.Fprintf(&b, "\n%s\n", styles.AccentText.Render(strings.ToUpper(title)))
		fmt.Fprintf(&b, "%s\n", styles.FaintText.Render(strings.Repeat("─", 38)))
	}
	row := func(label, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		fmt.Fprintf(&b, "%s %s\n", styles.MutedText.Render(padRight(label+":", 10)), styles.Text.Render(value))
	}

	title := card.Name
	if card.CategoryIcon != "" {
		title = card.CategoryIcon + " " + title
	}
	b.WriteString(styles.Text.Bold(true).Render(title))
	b.WriteString("\n")
	if card.Place != "" {
		b.WriteString(styles.MutedText.Render("⌖ " + card.Place))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	price := styles.SuccessText.Render(card.Price)
	if card.Discounted() {
		price += " " + styles.FaintText.Strikethrough(true).Render(card.OriginalPrice)
	}
	fmt.Fprintf(&b, "%s %s\n", styles.MutedText.Render("Monthly Rent From"), price)

	writeSection("Details")
	row("Type", categoryButtonLabel(strings.ToLower(h.Category)))
	row("Address", h.Address)
	row("Contact", h.Contact)
	row("Image", imageLine(card))

	writeSection("Amenities")
	amenities := h.Amenities
	if amenities == nil {
		amenities = render.DefaultAmenities
	}
	if len(amenities) == 0 {
		b.WriteString(styles.FaintText.Render("None listed"))
		b.WriteString("\n")
	}
	for _, tag := range amenities {
		badge := render.NewBadge(tag)
		fmt.Fprintf(&b, "%s %s\n", styles.AccentText.Render(badge.Icon), badge.Label)
	}

	if desc := strings.TrimSpace(h.Description); desc != "" {
		writeSection("About")
		b.WriteString(lipgloss.NewStyle().Width(width).Render(desc))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.Active.Render("b Book Now"))
	b.WriteString("\n")
	return b.String()
}

func imageLine(c render.Card) string {
	switch c.ImageSource {
	case render.ImageUnspecified:
		return "No Image (" + c.Image + ")"
	case render.ImageUnavailable:
		return "Image Not Available (" + c.Image + ")"
	default:
		return c.Image
	}
}

func (m Model) renderDetail() string {
	styles := m.theme.Styles()
	switch {
	case m.detail.loading:
		return m.spinner.View() + styles.MutedText.Render(" Loading hostel details...")
	case m.detail.notFound:
		return render.RenderPlaceholder(render.Placeholder{
			Kind: render.NoResults,
		}, render.Options{Width: m.width, Palette: m.theme.Palette()}) +
			"\n\n" + styles.MutedText.Render(fmt.Sprintf("Listing %q was not found. Press esc to go back.", m.detail.id))
	case m.detail.err != nil:
		return render.RenderPlaceholder(render.Placeholder{
			Kind:    render.SearchError,
			Message: api.UserMessage(m.detail.err),
		}, render.Options{Width: m.width, Palette: m.theme.Palette()}) +
			"\n\n" + styles.MutedText.Render("Press r to retry or esc to go back.")
	}
	return m.detail.viewport.View()
}
