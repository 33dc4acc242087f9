package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// FallbackAddress is returned whenever a lookup cannot produce a place name.
const FallbackAddress = "Address not found"

// Resolver maps coordinates to an address. Implementations must not fail;
// they return FallbackAddress instead.
type Resolver interface {
	Resolve(ctx context.Context, lat, lng float64) string
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, lat, lng float64) string

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, lat, lng float64) string {
	return f(ctx, lat, lng)
}

// Ensure Client implements Resolver at compile time.
var _ Resolver = (*Client)(nil)

// Client talks to a Nominatim-compatible reverse geocoding API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    *slog.Logger
}

const (
	defaultBaseURL   = "https://nominatim.openstreetmap.org"
	defaultUserAgent = "pinmap/0.1"
	requestTimeout   = 5 * time.Second
)

// Options configure a Client. Zero values use defaults.
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Logger    *slog.Logger
}

// NewClient builds a Client from opts.
func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = requestTimeout
	}
	ua := strings.TrimSpace(opts.UserAgent)
	if ua == "" {
		ua = defaultUserAgent
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: timeout,
		},
		userAgent: ua,
		logger:    logger.With("component", "geocode"),
	}, nil
}

// Resolve returns the display name for lat/lng, or FallbackAddress.
func (c *Client) Resolve(ctx context.Context, lat, lng float64) string {
	if c == nil {
		return FallbackAddress
	}
	address, err := c.Reverse(ctx, lat, lng)
	if err != nil {
		c.logger.Warn("reverse geocode failed", "lat", lat, "lng", lng, "error", err)
		return FallbackAddress
	}
	return address
}

// Reverse performs a single reverse lookup and reports why it failed.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("format", "json")
	values.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	rel := &url.URL{Path: "reverse", RawQuery: values.Encode()}

	var payload reverseResponse
	if err := c.doURL(ctx, http.MethodGet, rel, &payload); err != nil {
		return "", err
	}
	if msg := strings.TrimSpace(payload.Error); msg != "" {
		return "", fmt.Errorf("geocoder error: %s", msg)
	}
	name := strings.TrimSpace(payload.DisplayName)
	if name == "" {
		return "", errMissingName
	}
	return name, nil
}

var errMissingName = errors.New("response has no display_name")

type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("geocoder %s returned status %d", rel.Path, resp.StatusCode)
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// parseBaseURL normalizes base so relative paths resolve beneath it,
// which keeps proxies mounted under a path prefix working.
func parseBaseURL(base string) (*url.URL, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse geocoder url %q: %w", base, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse geocoder url %q: missing host", base)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
