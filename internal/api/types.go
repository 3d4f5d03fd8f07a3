package api

import (
	"encoding/json"
	"strings"
)

// Listing mirrors a hostel/PG record as served by the listings API.
type Listing struct {
	ID            string   `json:"_id"`
	Name          string   `json:"name"`
	City          string   `json:"city"`
	Location      string   `json:"location"`
	Category      string   `json:"type"`
	Price         float64  `json:"price"`
	OriginalPrice float64  `json:"original_price,omitempty"`
	Amenities     []string `json:"amenities"`
	Image         string   `json:"image,omitempty"`
	Description   string   `json:"description,omitempty"`
	Address       string   `json:"address,omitempty"`
	Contact       string   `json:"contact,omitempty"`
}

// HasDiscount reports whether an original price worth striking through is set.
func (l Listing) HasDiscount() bool {
	return l.OriginalPrice > 0 && l.OriginalPrice != l.Price
}

// ImageURL returns the primary image URL, or empty when the record carries
// nothing usable.
func (l Listing) ImageURL() string {
	trimmed := strings.TrimSpace(l.Image)
	if trimmed == "" || trimmed == "undefined" {
		return ""
	}
	return trimmed
}

// SearchResult is the payload of a search call.
type SearchResult struct {
	Items []Listing
	Count int
}

// NewListing is the form submitted when creating a listing.
type NewListing struct {
	Name          string
	City          string
	Location      string
	Category      string
	Price         int
	OriginalPrice int
	Amenities     []string
	Description   string
	Address       string
	Contact       string
	ImageURL      string
	ImageName     string // optional file upload name
	ImageData     []byte // optional file upload bytes
}

// Credentials is the login form.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the sign-up form.
type Registration struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Profile is the editable part of the account.
type Profile struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	City  string `json:"city"`
}

// User describes the authenticated account.
type User struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	City     string `json:"city,omitempty"`
	UserType string `json:"user_type,omitempty"`
}

// AuthResult is returned by login, register and profile updates.
type AuthResult struct {
	Redirect    string
	AccessToken string
	Message     string
	User        *User
}

// envelope is the {success, data, count, message} wrapper most endpoints use.
type envelope struct {
	Success *bool             `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Count   *int              `json:"count"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`

	Redirect    string `json:"redirect"`
	AccessToken string `json:"access_token"`
	User        *User  `json:"user"`
}

func (e envelope) failed() bool {
	return e.Success != nil && !*e.Success
}

// decodeListings accepts either a bare array or an envelope around one.
func decodeListings(raw []byte) ([]Listing, int, error) {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var items []Listing
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, 0, err
		}
		return items, len(items), nil
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, 0, err
	}
	if env.failed() {
		return nil, 0, &ServerError{Message: env.Message}
	}
	var items []Listing
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &items); err != nil {
			return nil, 0, err
		}
	}
	count := len(items)
	if env.Count != nil {
		count = *env.Count
	}
	return items, count, nil
}

// decodeListing accepts either a bare object or an envelope around one.
func decodeListing(raw []byte) (Listing, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Listing{}, err
	}
	if env.failed() {
		return Listing{}, &ServerError{Message: env.Message}
	}
	target := raw
	if len(env.Data) > 0 && string(env.Data) != "null" {
		target = env.Data
	}
	var listing Listing
	if err := json.Unmarshal(target, &listing); err != nil {
		return Listing{}, err
	}
	return listing, nil
}
