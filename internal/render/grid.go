package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Layout constants for the card grid.
const (
	CardWidth = 34
	cardGap   = 1
)

// Palette carries the colors the grid needs. The UI fills it from its theme.
type Palette struct {
	Text      string
	Muted     string
	Accent    string
	Success   string
	Warning   string
	Danger    string
	Border    string
	Focus     string
	Surface   string
	Highlight string
}

// Options controls how cards are laid out.
type Options struct {
	Width    int
	Selected int
	Palette  Palette
}

// PlaceholderKind selects which empty state to draw.
type PlaceholderKind int

const (
	NoResults PlaceholderKind = iota
	SearchError
)

// Placeholder describes an empty or error grid.
type Placeholder struct {
	Kind     PlaceholderKind
	Query    string
	Category string
	Message  string
}

// Columns returns how many cards fit side by side in width.
func Columns(width int) int {
	if width <= 0 {
		return 1
	}
	n := (width + cardGap) / (CardWidth + 2 + cardGap)
	if n < 1 {
		return 1
	}
	return n
}

// Grid renders cards row by row in input order. Empty input renders the
// no-results placeholder. Output depends only on its arguments.
func Grid(cards []Card, opts Options) string {
	if len(cards) == 0 {
		return RenderPlaceholder(Placeholder{Kind: NoResults}, opts)
	}
	cols := Columns(opts.Width)
	rows := make([]string, 0, (len(cards)+cols-1)/cols)
	for start := 0; start < len(cards); start += cols {
		end := start + cols
		if end > len(cards) {
			end = len(cards)
		}
		boxes := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			if i > start {
				boxes = append(boxes, strings.Repeat(" ", cardGap))
			}
			boxes = append(boxes, renderCard(cards[i], i == opts.Selected, opts.Palette))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	}
	return strings.Join(rows, "\n")
}

func renderCard(c Card, selected bool, p Palette) string {
	text := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Text))
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted))
	accent := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Accent))

	var lines []string

	img := "▣ " + imageLabel(c)
	if c.ImageSource == ImageUnavailable {
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color(p.Warning)).Render(clip(img, CardWidth)))
	} else {
		lines = append(lines, muted.Render(clip(img, CardWidth)))
	}

	name := clip(c.Name, CardWidth)
	if c.Category != "" {
		tag := c.CategoryIcon + " " + c.Category
		room := CardWidth - lipgloss.Width(tag) - 1
		name = clip(c.Name, room)
		pad := CardWidth - lipgloss.Width(name) - lipgloss.Width(tag)
		if pad < 1 {
			pad = 1
		}
		name = text.Bold(true).Render(name) + strings.Repeat(" ", pad) + muted.Render(tag)
	} else {
		name = text.Bold(true).Render(name)
	}
	lines = append(lines, name)
	lines = append(lines, muted.Render(clip("⌖ "+c.Place, CardWidth)))
	lines = append(lines, "")
	lines = append(lines, wrapBadges(c.Badges, CardWidth, lipgloss.NewStyle().Foreground(lipgloss.Color(p.Success)))...)
	lines = append(lines, "")

	price := accent.Bold(true).Render(c.Price)
	if c.Discounted() {
		price = muted.Strikethrough(true).Render(c.OriginalPrice) + " " + price
	}
	lines = append(lines, price)
	lines = append(lines, muted.Render("Monthly Rent From"))

	action := "View Details"
	if selected {
		action = accent.Bold(true).Render("› View Details")
	} else {
		action = muted.Render(action)
	}
	lines = append(lines, action)

	border := p.Border
	if selected {
		border = p.Focus
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Width(CardWidth).
		Render(strings.Join(lines, "\n"))
}

func imageLabel(c Card) string {
	switch c.ImageSource {
	case ImageUnspecified:
		return "No Image"
	case ImageUnavailable:
		return "Image Not Available"
	default:
		return c.Image
	}
}

func wrapBadges(badges []Badge, width int, style lipgloss.Style) []string {
	if len(badges) == 0 {
		return nil
	}
	var lines []string
	var cur []string
	curWidth := 0
	for _, b := range badges {
		chip := b.Icon + " " + b.Label
		w := lipgloss.Width(chip)
		if curWidth > 0 && curWidth+2+w > width {
			lines = append(lines, strings.Join(cur, "  "))
			cur = nil
			curWidth = 0
		}
		if curWidth > 0 {
			curWidth += 2
		}
		cur = append(cur, style.Render(chip))
		curWidth += w
	}
	if len(cur) > 0 {
		lines = append(lines, strings.Join(cur, "  "))
	}
	return lines
}

// RenderPlaceholder draws the empty or error state, including the control that
// resets the search.
func RenderPlaceholder(ph Placeholder, opts Options) string {
	p := opts.Palette
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted))
	button := lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Surface)).
		Background(lipgloss.Color(p.Accent)).
		Padding(0, 1)

	var icon, title, body, control string
	switch ph.Kind {
	case SearchError:
		icon = lipgloss.NewStyle().Foreground(lipgloss.Color(p.Warning)).Render("⚠")
		title = "Search Error"
		body = "Unable to perform search. Please try again."
		if msg := strings.TrimSpace(ph.Message); msg != "" {
			body = msg
		}
		control = "[x] Clear Search"
	default:
		icon = muted.Render("⌂")
		title = "No hostels found"
		body = "Try adjusting your search or filters"
		control = "[x] Clear Filters"
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		icon,
		"",
		lipgloss.NewStyle().Foreground(lipgloss.Color(p.Text)).Bold(true).Render(title),
		muted.Render(body),
		"",
		button.Render(control),
	)
	width := opts.Width
	if width <= 0 {
		width = lipgloss.Width(content)
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, content)
}

// ResultsTitle is the heading above the grid.
func ResultsTitle(query, category string, count int) string {
	if strings.TrimSpace(query) == "" {
		return "Popular Hostels & PGs"
	}
	title := fmt.Sprintf("Search Results (%d)", count)
	if label := categoryLabel(category); label != "" {
		title += " - " + label
	}
	return title
}

// NoResultsNote is the sub-heading shown when a search came back empty.
// It is empty when there is nothing to say.
func NoResultsNote(query, category string, count int) string {
	query = strings.TrimSpace(query)
	if query == "" || count > 0 {
		return ""
	}
	note := fmt.Sprintf("No results found for %q", query)
	if label := categoryLabel(category); label != "" {
		note += " in " + label
	}
	return note
}

func categoryLabel(category string) string {
	category = strings.TrimSpace(category)
	if category == "" || strings.EqualFold(category, "all") {
		return ""
	}
	return strings.ToUpper(category[:1]) + category[1:]
}

func clip(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if lipgloss.Width(s) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
