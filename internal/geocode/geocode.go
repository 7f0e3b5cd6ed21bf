// Package geocode resolves street addresses to coordinates with the Google
// Geocoding API.
//
// Lookups run behind a circuit breaker. An address with no match returns
// service.ErrAddressNotFound and does not count against the breaker; an
// upstream failure, a malformed answer or an open breaker returns
// service.ErrGeocoding.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/placeshare/api/internal/metrics"
	"github.com/placeshare/api/internal/model"
	"github.com/placeshare/api/internal/service"
)

// Google status values
const (
	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
)

// Lookup results recorded in metrics
const (
	resultOK          = "ok"
	resultZeroResults = "zero_results"
	resultError       = "error"
	resultBreakerOpen = "breaker_open"
)

const breakerName = "geocoder"

var _ service.Geocoder = (*Client)(nil)

// Config holds the client settings
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	// BreakerFailures consecutive failures open the breaker for BreakerOpenTimeout
	BreakerFailures    uint32
	BreakerOpenTimeout time.Duration
	HTTPClient         *http.Client
	Logger             *slog.Logger
}

// Client calls the Geocoding API
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker[model.Location]
	logger  *slog.Logger
}

// New creates a geocoding client
func New(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	openTimeout := cfg.BreakerOpenTimeout
	if openTimeout <= 0 {
		openTimeout = 30 * time.Second
	}

	metrics.SetGeocodeBreakerState(int(gobreaker.StateClosed))

	c := &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		http:    httpClient,
		logger:  logger,
	}
	c.cb = gobreaker.NewCircuitBreaker[model.Location](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, service.ErrAddressNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
			metrics.SetGeocodeBreakerState(int(to))
		},
	})
	return c
}

// response is the subset of the Geocoding API answer we read
type response struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Geometry struct {
			Location model.Location `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode returns the coordinates of the first match for address
func (c *Client) Geocode(ctx context.Context, address string) (model.Location, error) {
	loc, err := c.cb.Execute(func() (model.Location, error) {
		return c.lookup(ctx, address)
	})

	switch {
	case err == nil:
		metrics.RecordGeocode(resultOK)
		return loc, nil
	case errors.Is(err, service.ErrAddressNotFound):
		metrics.RecordGeocode(resultZeroResults)
		return model.Location{}, err
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordGeocode(resultBreakerOpen)
		return model.Location{}, fmt.Errorf("%w: %w", service.ErrGeocoding, err)
	default:
		metrics.RecordGeocode(resultError)
		c.logger.WarnContext(ctx, "geocoding failed", "error", err)
		return model.Location{}, err
	}
}

func (c *Client) lookup(ctx context.Context, address string) (model.Location, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return model.Location{}, fmt.Errorf("%w: bad base url: %w", service.ErrGeocoding, err)
	}
	q := u.Query()
	q.Set("address", address)
	q.Set("key", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return model.Location{}, fmt.Errorf("%w: %w", service.ErrGeocoding, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return model.Location{}, fmt.Errorf("%w: %w", service.ErrGeocoding, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Location{}, fmt.Errorf("%w: upstream status %d", service.ErrGeocoding, resp.StatusCode)
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return model.Location{}, fmt.Errorf("%w: decode: %w", service.ErrGeocoding, err)
	}

	switch body.Status {
	case statusOK:
		if len(body.Results) == 0 {
			return model.Location{}, service.ErrAddressNotFound
		}
		return body.Results[0].Geometry.Location, nil
	case statusZeroResults:
		return model.Location{}, service.ErrAddressNotFound
	default:
		return model.Location{}, fmt.Errorf("%w: status %s: %s", service.ErrGeocoding, body.Status, body.ErrorMessage)
	}
}

// Static resolves every address to one fixed point.
// It stands in for the API when no key is configured outside production.
type Static struct {
	Location model.Location
}

// DefaultStaticLocation is used by NewStatic
var DefaultStaticLocation = model.Location{Lat: 40.7484474, Lng: -73.9871516}

// NewStatic returns a Static geocoder at DefaultStaticLocation
func NewStatic() *Static {
	return &Static{Location: DefaultStaticLocation}
}

// Geocode implements service.Geocoder
func (s *Static) Geocode(ctx context.Context, address string) (model.Location, error) {
	if err := ctx.Err(); err != nil {
		return model.Location{}, fmt.Errorf("%w: %w", service.ErrGeocoding, err)
	}
	metrics.RecordGeocode(resultOK)
	return s.Location, nil
}
