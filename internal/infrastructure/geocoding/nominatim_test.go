package geocoding

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	sharedConfig "github.com/fammo-app/fammo/internal/shared/config"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *NominatimClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewNominatimClient(sharedConfig.GeocodingConfig{
		BaseURL:           srv.URL,
		UserAgent:         "fammo-test",
		TimeoutSeconds:    2,
		RequestsPerSecond: 1000,
	}, logger.NewNop())
}

func TestNominatimClient_FullAddress(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Damrak 1, Amsterdam", r.URL.Query().Get("q"))
		assert.Equal(t, "fammo-test", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`[{"lat":"52.3740","lon":"4.8897"}]`))
	})

	p, ok := c.Geocode(t.Context(), "Damrak 1", "Amsterdam")
	assert.True(t, ok)
	assert.InDelta(t, 52.374, p.Lat, 1e-9)
	assert.InDelta(t, 4.8897, p.Lng, 1e-9)
}

func TestNominatimClient_FallsBackToCity(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Query().Get("q") == "Utrecht" {
			_, _ = w.Write([]byte(`[{"lat":"52.0907","lon":"5.1214"}]`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})

	p, ok := c.Geocode(t.Context(), "Nowhere Street 99", "Utrecht")
	assert.True(t, ok)
	assert.InDelta(t, 52.0907, p.Lat, 1e-9)
	assert.Equal(t, int32(2), calls.Load())
}

func TestNominatimClient_ServiceErrorMeansNoCoordinates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, ok := c.Geocode(t.Context(), "Damrak 1", "Amsterdam")
	assert.False(t, ok)
}

func TestNominatimClient_EmptyQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, ok := c.Geocode(t.Context(), " ", "")
	assert.False(t, ok)
}
