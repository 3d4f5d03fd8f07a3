package render

import (
	"strconv"
	"strings"

	"github.com/five82/stayfinder/internal/api"
	"github.com/five82/stayfinder/internal/state"
)

// Image fallback URLs.
const (
	NoImageURL          = "https://via.placeholder.com/400x300?text=No+Image"
	ImageUnavailableURL = "https://via.placeholder.com/400x300?text=Image+Not+Available"
)

// MaxBadges is the number of amenity badges shown on a card.
const MaxBadges = 5

// DefaultAmenities is shown when a listing carries no amenity list at all.
var DefaultAmenities = []string{"WiFi", "Fully Furnished", "AC", "TV", "Laundry"}

// ImageSource says which link of the fallback chain a card uses.
type ImageSource int

const (
	ImagePrimary ImageSource = iota
	ImageUnspecified
	ImageUnavailable
)

// Badge is one amenity chip.
type Badge struct {
	Icon  string
	Label string
}

// Card is the display model for one listing. It holds no styling.
type Card struct {
	ID            string
	Name          string
	Place         string
	Category      string
	CategoryIcon  string
	Image         string
	ImageSource   ImageSource
	Badges        []Badge
	Price         string
	OriginalPrice string
	Action        string
}

// Discounted reports whether the card shows a struck-through original price.
func (c Card) Discounted() bool {
	return c.OriginalPrice != ""
}

type badgeSpec struct {
	icon  string
	label string
}

var badgeTable = map[string]badgeSpec{
	"WiFi":            {"≋", "WIFI"},
	"WIFI":            {"≋", "WIFI"},
	"Fully Furnished": {"⌂", "FULLY FURNISHED"},
	"FULLY FURNISHED": {"⌂", "FULLY FURNISHED"},
	"AC":              {"❄", "AC"},
	"TV":              {"▭", "TV"},
	"Laundry":         {"◍", "LAUNDRY"},
	"LAUNDARY":        {"◍", "LAUNDRY"},
}

const genericBadgeIcon = "✓"

// NewBadge maps an amenity tag to its icon and label. Unknown tags get the
// generic icon and an uppercased label.
func NewBadge(tag string) Badge {
	if spec, ok := badgeTable[tag]; ok {
		return Badge{Icon: spec.icon, Label: spec.label}
	}
	return Badge{Icon: genericBadgeIcon, Label: strings.ToUpper(tag)}
}

// Badges returns at most MaxBadges badges. A nil list falls back to
// DefaultAmenities; an empty non-nil list yields none.
func Badges(amenities []string) []Badge {
	tags := amenities
	if tags == nil {
		tags = DefaultAmenities
	}
	if len(tags) > MaxBadges {
		tags = tags[:MaxBadges]
	}
	out := make([]Badge, 0, len(tags))
	for _, tag := range tags {
		out = append(out, NewBadge(tag))
	}
	return out
}

// FormatPrice renders a rent amount as "₹<n>/-".
func FormatPrice(v float64) string {
	return "₹" + strconv.FormatFloat(v, 'f', -1, 64) + "/-"
}

// CategoryIcon returns the marker shown next to a category tag.
func CategoryIcon(category string) string {
	switch strings.ToLower(strings.TrimSpace(category)) {
	case "":
		return ""
	case "boys":
		return "♂"
	case "girls":
		return "♀"
	default:
		return "⚇"
	}
}

// Place joins location and city the way the card's address line shows them.
func Place(l api.Listing) string {
	location := strings.TrimSpace(l.Location)
	city := strings.TrimSpace(l.City)
	switch {
	case location == "":
		return city
	case city == "":
		return location
	default:
		return location + ", " + city
	}
}

// DetailPath is the route of the listing's detail page.
func DetailPath(id string) string {
	return "/hostel/" + id
}

// ResolveImage walks the fallback chain: primary URL, then the "No Image"
// placeholder when none is set, then "Image Not Available" once the primary
// URL is known not to load.
func ResolveImage(l api.Listing, status state.ImageStatus) (string, ImageSource) {
	url := l.ImageURL()
	if url == "" {
		return NoImageURL, ImageUnspecified
	}
	if status == state.ImageBroken {
		return ImageUnavailableURL, ImageUnavailable
	}
	return url, ImagePrimary
}

// NewCard projects a listing into its display model. The listing is not
// modified.
func NewCard(l api.Listing, status state.ImageStatus) Card {
	image, source := ResolveImage(l, status)
	card := Card{
		ID:           l.ID,
		Name:         strings.TrimSpace(l.Name),
		Place:        Place(l),
		Category:     strings.TrimSpace(l.Category),
		CategoryIcon: CategoryIcon(l.Category),
		Image:        image,
		ImageSource:  source,
		Badges:       Badges(l.Amenities),
		Price:        FormatPrice(l.Price),
		Action:       DetailPath(l.ID),
	}
	if l.HasDiscount() {
		card.OriginalPrice = FormatPrice(l.OriginalPrice)
	}
	return card
}

// Cards projects listings in input order. images may be nil.
func Cards(listings []api.Listing, images map[string]state.ImageStatus) []Card {
	out := make([]Card, 0, len(listings))
	for _, l := range listings {
		out = append(out, NewCard(l, images[l.ImageURL()]))
	}
	return out
}
