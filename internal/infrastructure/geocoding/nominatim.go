// Package geocoding resolves clinic addresses to coordinates through a
// Nominatim-compatible search API.
package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/fammo-app/fammo/internal/domain/geo"
	sharedConfig "github.com/fammo-app/fammo/internal/shared/config"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

const (
	defaultBaseURL   = "https://nominatim.openstreetmap.org"
	defaultUserAgent = "FAMMO-Vet-Clinic-Geocoder"
	defaultTimeout   = 10 * time.Second
)

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// NominatimClient is safe for concurrent use. Lookups are serialized and
// throttled to the configured request rate, which public Nominatim requires.
type NominatimClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	mu         sync.Mutex
	logger     logger.Interface
}

func NewNominatimClient(cfg sharedConfig.GeocodingConfig, log logger.Interface) *NominatimClient {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}

	return &NominatimClient{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     log,
	}
}

// Geocode looks up "address, city" and falls back to the city alone. ok is
// false when nothing matched or the service failed; failures are logged.
func (c *NominatimClient) Geocode(ctx context.Context, address, city string) (geo.Point, bool) {
	address = strings.TrimSpace(address)
	city = strings.TrimSpace(city)

	query := address
	if address != "" && city != "" {
		query = address + ", " + city
	} else if address == "" {
		query = city
	}
	if query == "" {
		return geo.Point{}, false
	}

	p, found, err := c.search(ctx, query)
	if err != nil {
		c.logger.Warnw("geocoding request failed", "query", query, "error", err)
		return geo.Point{}, false
	}
	if found {
		return p, true
	}

	if city == "" || query == city {
		return geo.Point{}, false
	}
	p, found, err = c.search(ctx, city)
	if err != nil {
		c.logger.Warnw("geocoding city fallback failed", "city", city, "error", err)
		return geo.Point{}, false
	}
	return p, found
}

func (c *NominatimClient) search(ctx context.Context, query string) (geo.Point, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.limiter.Wait(ctx); err != nil {
		return geo.Point{}, false, err
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return geo.Point{}, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return geo.Point{}, false, fmt.Errorf("search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return geo.Point{}, false, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return geo.Point{}, false, fmt.Errorf("decode response: %w", err)
	}
	if len(results) == 0 {
		return geo.Point{}, false, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return geo.Point{}, false, fmt.Errorf("parse latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return geo.Point{}, false, fmt.Errorf("parse longitude: %w", err)
	}

	p := geo.Point{Lat: lat, Lng: lng}
	if err := p.Validate(); err != nil {
		return geo.Point{}, false, err
	}
	return p, true, nil
}
