package ui

import "time"

// Search timing.
const (
	// SuggestDebounce is the quiet period before a suggestion fetch.
	SuggestDebounce = 300 * time.Millisecond

	// SuggestMinChars is the shortest query that fetches suggestions.
	SuggestMinChars = 2

	// SuggestLimit caps the suggestion dropdown.
	SuggestLimit = 5
)

// Price slider.
const (
	PriceMin  = 0
	PriceMax  = 20000
	PriceStep = 500
)

// Timing constants.
const (
	// NotificationTTL is how long a toast stays on screen.
	NotificationTTL = 4 * time.Second

	// RequestTimeout bounds every API call started from the UI.
	RequestTimeout = 10 * time.Second

	// LogOverlayLines is how much of the client log the overlay loads.
	LogOverlayLines = 500
)

// LayoutCompactWidth is the width below which the filter bar drops labels.
const LayoutCompactWidth = 100

// Categories are the filter buttons, in key order 1..4.
var Categories = []string{"all", "hostel", "pg", "apartment"}

// AmenityOptions are the checkboxes in the amenity picker.
var AmenityOptions = []string{"WiFi", "Fully Furnished", "AC", "TV", "Laundry", "Parking", "Meals", "Gym"}
