// Package filter narrows listing collections by search text, category, city,
// price ceiling and required amenities.
//
// Apply is pure: it never mutates its input, keeps the relative order of the
// listings it returns, and applying the same criteria twice yields the same
// result as applying them once. Every criterion that is unset is skipped.
package filter

import (
	"strings"

	"github.com/five82/stayfinder/internal/api"
)

// CategoryAll is the sentinel that disables category filtering.
const CategoryAll = "all"

// Criteria is the set of active filters.
type Criteria struct {
	Query     string
	Category  string
	City      string
	MaxPrice  *int
	Amenities []string
}

// PriceCeiling returns a MaxPrice value for v.
func PriceCeiling(v int) *int {
	return &v
}

// IsZero reports whether no criterion is set.
func (c Criteria) IsZero() bool {
	return strings.TrimSpace(c.Query) == "" &&
		!c.categorySet() &&
		strings.TrimSpace(c.City) == "" &&
		c.MaxPrice == nil &&
		len(c.Amenities) == 0
}

// Clone returns a deep copy.
func (c Criteria) Clone() Criteria {
	out := c
	if c.MaxPrice != nil {
		out.MaxPrice = PriceCeiling(*c.MaxPrice)
	}
	if c.Amenities != nil {
		out.Amenities = append([]string(nil), c.Amenities...)
	}
	return out
}

func (c Criteria) categorySet() bool {
	cat := strings.TrimSpace(c.Category)
	return cat != "" && !strings.EqualFold(cat, CategoryAll)
}

// Apply returns the listings that satisfy every set criterion, in input order.
func Apply(listings []api.Listing, c Criteria) []api.Listing {
	out := make([]api.Listing, 0, len(listings))
	for _, l := range listings {
		if Matches(l, c) {
			out = append(out, l)
		}
	}
	return out
}

// Matches reports whether a single listing satisfies c.
func Matches(l api.Listing, c Criteria) bool {
	if !MatchesQuery(l, c.Query) {
		return false
	}
	if !MatchesCategory(l, c.Category) {
		return false
	}
	if city := strings.TrimSpace(c.City); city != "" && l.City != city {
		return false
	}
	if c.MaxPrice != nil && l.Price > float64(*c.MaxPrice) {
		return false
	}
	return hasAll(l.Amenities, c.Amenities)
}

// MatchesQuery reports whether the trimmed query appears, case-insensitively,
// in the listing's name, city or location. A comma-separated query such as
// "Sunrise, Kota" matches when every term appears in one of those fields.
func MatchesQuery(l api.Listing, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	fields := []string{strings.ToLower(l.Name), strings.ToLower(l.City), strings.ToLower(l.Location)}
	for _, term := range strings.Split(q, ",") {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		if !containsAny(fields, term) {
			return false
		}
	}
	return true
}

func containsAny(fields []string, term string) bool {
	for _, f := range fields {
		if strings.Contains(f, term) {
			return true
		}
	}
	return false
}

// MatchesCategory compares categories case-insensitively. Empty and "all"
// match everything.
func MatchesCategory(l api.Listing, category string) bool {
	cat := strings.TrimSpace(category)
	if cat == "" || strings.EqualFold(cat, CategoryAll) {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(l.Category), cat)
}

// hasAll is case-sensitive: "wifi" does not satisfy "WiFi".
func hasAll(have, want []string) bool {
	if len(want) == 0 {
		return true
	}
	set := make(map[string]struct{}, len(have))
	for _, a := range have {
		set[a] = struct{}{}
	}
	for _, w := range want {
		if _, ok := set[w]; !ok {
			return false
		}
	}
	return true
}

// Cities returns the distinct non-empty cities in first-seen order.
func Cities(listings []api.Listing) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, l := range listings {
		city := strings.TrimSpace(l.City)
		if city == "" {
			continue
		}
		if _, ok := seen[city]; ok {
			continue
		}
		seen[city] = struct{}{}
		out = append(out, city)
	}
	return out
}
