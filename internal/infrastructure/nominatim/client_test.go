package nominatim

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/boundary-resolver/internal/config"
)

func testConfig(url string) *config.GeocoderConfig {
	return &config.GeocoderConfig{
		Enabled:   true,
		URL:       url,
		UserAgent: "boundary-test/1.0",
		Timeout:   5 * time.Second,
		RPS:       100,
	}
}

func TestFormatQuery(t *testing.T) {
	assert.Equal(t, "1 Main Rd", FormatQuery(" 1 Main Rd ", ""))
	assert.Equal(t, "1 Main Rd, South Africa", FormatQuery("1 Main Rd", " South Africa"))
}

func TestClient_Geocode(t *testing.T) {
	logger := zap.NewNop()

	t.Run("successful request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "boundary-test/1.0", r.Header.Get("User-Agent"))
			assert.Equal(t, "1 Adderley St, South Africa", r.URL.Query().Get("q"))
			assert.Equal(t, "json", r.URL.Query().Get("format"))
			assert.Equal(t, "1", r.URL.Query().Get("limit"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"lat":"-33.9215","lon":"18.4239","display_name":"Adderley Street, Cape Town","importance":0.62}]`))
		}))
		defer server.Close()

		c := NewNominatimClient(testConfig(server.URL), logger)
		hit, err := c.Geocode(context.Background(), "1 Adderley St", "South Africa")
		require.NoError(t, err)
		require.NotNil(t, hit)
		assert.InDelta(t, -33.9215, hit.Lat, 1e-9)
		assert.InDelta(t, 18.4239, hit.Lon, 1e-9)
		assert.Equal(t, "Adderley Street, Cape Town", hit.DisplayName)
		assert.InDelta(t, 0.62, hit.Importance, 1e-9)
	})

	t.Run("no results", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		}))
		defer server.Close()

		c := NewNominatimClient(testConfig(server.URL), logger)
		hit, err := c.Geocode(context.Background(), "nowhere", "")
		require.NoError(t, err)
		assert.Nil(t, hit)
	})

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		c := NewNominatimClient(testConfig(server.URL), logger)
		_, err := c.Geocode(context.Background(), "x", "")
		assert.Error(t, err)
	})

	t.Run("malformed coordinates", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[{"lat":"north","lon":"18.4"}]`))
		}))
		defer server.Close()

		c := NewNominatimClient(testConfig(server.URL), logger)
		_, err := c.Geocode(context.Background(), "x", "")
		assert.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		c := NewNominatimClient(testConfig("http://127.0.0.1:0"), logger)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := c.Geocode(ctx, "x", "")
		assert.Error(t, err)
	})
}
