package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Service defines everything the UI needs from the listings API.
// It is implemented by *Client and can be faked in tests.
type Service interface {
	SearchListings(ctx context.Context, query, category string) (SearchResult, error)
	FetchListings(ctx context.Context) ([]Listing, error)
	FetchListing(ctx context.Context, id string) (Listing, error)
	CreateListing(ctx context.Context, form NewListing) error
	Login(ctx context.Context, creds Credentials) (AuthResult, error)
	Register(ctx context.Context, reg Registration) (AuthResult, error)
	UpdateProfile(ctx context.Context, profile Profile) (AuthResult, error)
	Verify(ctx context.Context) (User, error)
	ProbeImage(ctx context.Context, imageURL string) error
	SetToken(token string)
}

// Ensure Client implements Service at compile time.
var _ Service = (*Client)(nil)

// Client talks to the listings HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string

	mu    sync.RWMutex
	token string
}

const (
	defaultAPIURL    = "127.0.0.1:5000"
	defaultUserAgent = "stayfinder/0.1"
	requestTimeout   = 5 * time.Second
	maxErrorBody     = 64 * 1024
)

// NewClient builds a Client for the given base URL or host:port value.
func NewClient(apiURL string) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// SetToken replaces the bearer token sent with every request. Empty clears it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = strings.TrimSpace(token)
	c.mu.Unlock()
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SearchListings queries the remote search endpoint. An empty query returns the
// default listing set; category "all" (or empty) is unconstrained.
func (c *Client) SearchListings(ctx context.Context, query, category string) (SearchResult, error) {
	if c == nil {
		return SearchResult{}, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("query", strings.TrimSpace(query))
	category = strings.TrimSpace(category)
	if category == "" {
		category = "all"
	}
	values.Set("type", category)
	rel := &url.URL{Path: "/api/hostels/search", RawQuery: values.Encode()}

	body, err := c.doURL(ctx, http.MethodGet, rel, nil, "")
	if err != nil {
		return SearchResult{}, err
	}
	items, count, err := decodeListings(body)
	if err != nil {
		return SearchResult{}, decodeError(err)
	}
	return SearchResult{Items: items, Count: count}, nil
}

// FetchListings retrieves every listing.
func (c *Client) FetchListings(ctx context.Context) ([]Listing, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	body, err := c.do(ctx, http.MethodGet, "/api/hostels", nil, "")
	if err != nil {
		return nil, err
	}
	items, _, err := decodeListings(body)
	if err != nil {
		return nil, decodeError(err)
	}
	return items, nil
}

// FetchListing retrieves a single listing. A 404 maps to ErrNotFound.
func (c *Client) FetchListing(ctx context.Context, id string) (Listing, error) {
	if c == nil {
		return Listing{}, fmt.Errorf("client is nil")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Listing{}, ErrNotFound
	}
	body, err := c.do(ctx, http.MethodGet, "/api/hostels/"+url.PathEscape(id), nil, "")
	if err != nil {
		var srvErr *ServerError
		if errors.As(err, &srvErr) && srvErr.Status == http.StatusNotFound {
			return Listing{}, ErrNotFound
		}
		return Listing{}, err
	}
	listing, err := decodeListing(body)
	if err != nil {
		return Listing{}, decodeError(err)
	}
	return listing, nil
}

// CreateListing submits a new listing as multipart form data. Anything short of
// an explicit failure (error status or success=false) counts as success.
func (c *Client) CreateListing(ctx context.Context, form NewListing) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	payload, contentType, err := encodeListingForm(form)
	if err != nil {
		return fmt.Errorf("encode listing form: %w", err)
	}
	body, err := c.do(ctx, http.MethodPost, "/api/hostels", payload, contentType)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		// Non-JSON bodies (a redirect page, say) are not explicit failures.
		return nil
	}
	if env.failed() {
		if len(env.Errors) > 0 {
			return &ValidationError{Fields: env.Errors}
		}
		return &ServerError{Message: env.Message}
	}
	return nil
}

// ProbeImage checks that an image URL loads. Relative URLs resolve against the
// API root.
func (c *Client) ProbeImage(ctx context.Context, imageURL string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	ref, err := url.Parse(strings.TrimSpace(imageURL))
	if err != nil {
		return fmt.Errorf("parse image url: %w", err)
	}
	target := c.baseURL.ResolveReference(ref)
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: "HEAD " + target.String(), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 400 {
		return &ServerError{Status: resp.StatusCode, Message: "image unavailable"}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, contentType string) ([]byte, error) {
	rel := &url.URL{Path: path}
	return c.doURL(ctx, method, rel, body, contentType)
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload any) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return c.do(ctx, method, path, encoded, "application/json")
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body []byte, contentType string) ([]byte, error) {
	reqURL := c.baseURL.ResolveReference(rel)
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: method + " " + rel.Path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		limited, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, errorFromResponse(resp.StatusCode, rel, limited)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: method + " " + rel.Path, Err: fmt.Errorf("read response: %w", err)}
	}
	return data, nil
}

func errorFromResponse(status int, rel *url.URL, body []byte) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil {
		if len(env.Errors) > 0 {
			return &ValidationError{Fields: env.Errors}
		}
		if msg := strings.TrimSpace(env.Message); msg != "" {
			return &ServerError{Status: status, Message: msg}
		}
	}
	return &ServerError{Status: status, Message: fmt.Sprintf("api %s returned status %d", rel.Path, status)}
}

func decodeError(err error) error {
	var srvErr *ServerError
	if errors.As(err, &srvErr) {
		return srvErr
	}
	return &ServerError{Message: fmt.Sprintf("decode response: %v", err)}
}

func encodeListingForm(form NewListing) ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{"name", form.Name},
		{"city", form.City},
		{"location", form.Location},
		{"type", form.Category},
		{"price", strconv.Itoa(form.Price)},
		{"description", form.Description},
		{"address", form.Address},
		{"contact", form.Contact},
		{"image_url", form.ImageURL},
	}
	if form.OriginalPrice > 0 {
		fields = append(fields, struct{ name, value string }{"original_price", strconv.Itoa(form.OriginalPrice)})
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			continue
		}
		if err := writer.WriteField(f.name, strings.TrimSpace(f.value)); err != nil {
			return nil, "", err
		}
	}
	for _, amenity := range form.Amenities {
		if strings.TrimSpace(amenity) == "" {
			continue
		}
		if err := writer.WriteField("amenities", strings.TrimSpace(amenity)); err != nil {
			return nil, "", err
		}
	}
	if len(form.ImageData) > 0 {
		name := form.ImageName
		if name == "" {
			name = "image"
		}
		part, err := writer.CreateFormFile("image", name)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(form.ImageData); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", apiURL, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
