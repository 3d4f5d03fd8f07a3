package api

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestListingImageURL(t *testing.T) {
	cases := map[string]string{
		"":                      "",
		"   ":                   "",
		"undefined":             "",
		" http://img/x.jpg ":    "http://img/x.jpg",
		"/static/uploads/a.png": "/static/uploads/a.png",
	}
	for in, want := range cases {
		if got := (Listing{Image: in}).ImageURL(); got != want {
			t.Fatalf("ImageURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestListingHasDiscount(t *testing.T) {
	if (Listing{Price: 5000}).HasDiscount() {
		t.Fatalf("HasDiscount without original price = true")
	}
	if (Listing{Price: 5000, OriginalPrice: 5000}).HasDiscount() {
		t.Fatalf("HasDiscount with equal original price = true")
	}
	if !(Listing{Price: 5000, OriginalPrice: 6500}).HasDiscount() {
		t.Fatalf("HasDiscount with higher original price = false")
	}
}

func TestListingAmenitiesAbsentVersusEmpty(t *testing.T) {
	var absent, empty Listing
	if err := json.Unmarshal([]byte(`{"_id":"1"}`), &absent); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if err := json.Unmarshal([]byte(`{"_id":"2","amenities":[]}`), &empty); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if absent.Amenities != nil {
		t.Fatalf("absent amenities = %#v, want nil", absent.Amenities)
	}
	if empty.Amenities == nil || len(empty.Amenities) != 0 {
		t.Fatalf("empty amenities = %#v, want non-nil empty", empty.Amenities)
	}
}

func TestDecodeListing_BareAndEnvelope(t *testing.T) {
	bare, err := decodeListing([]byte(`{"_id":"x","name":"Bare"}`))
	if err != nil || bare.Name != "Bare" {
		t.Fatalf("decodeListing(bare) = %#v, %v", bare, err)
	}
	wrapped, err := decodeListing([]byte(`{"success":true,"data":{"_id":"y","name":"Wrapped"}}`))
	if err != nil || wrapped.Name != "Wrapped" {
		t.Fatalf("decodeListing(envelope) = %#v, %v", wrapped, err)
	}
	_, err = decodeListing([]byte(`{"success":false,"message":"gone"}`))
	var srvErr *ServerError
	if !errors.As(err, &srvErr) {
		t.Fatalf("decodeListing(failure) error = %v, want ServerError", err)
	}
}

func TestUserMessage(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrNotFound, "Listing not found"},
		{&ValidationError{Fields: map[string]string{"email": "bad"}}, "Please fix the highlighted fields"},
		{&ServerError{Status: 500}, "The server could not complete the request"},
		{&NetworkError{Op: "GET /", Err: errors.New("dial tcp: connection refused")}, "API not reachable"},
		{&NetworkError{Op: "GET /", Err: errors.New("lookup api: no such host")}, "Host not found"},
	}
	for _, tc := range cases {
		if got := UserMessage(tc.err); got != tc.want {
			t.Fatalf("UserMessage(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestValidationErrorMessageIsSorted(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"password": "too short", "email": "required"}}
	want := "validation failed: email: required; password: too short"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}
