package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/boundary-resolver/internal/boundary"
	"github.com/boundary-resolver/internal/config"
	httpDelivery "github.com/boundary-resolver/internal/delivery/http"
	"github.com/boundary-resolver/internal/delivery/http/handler"
	"github.com/boundary-resolver/internal/domain"
	"github.com/boundary-resolver/internal/repository/noop"
	"github.com/boundary-resolver/internal/usecase"
)

const squareLayer = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"MUNICNAME": "Square Town", "PROVINCE": "Western Cape"},
      "geometry": {"type": "Polygon", "coordinates": [[[0,0],[10,0],[10,10],[0,10],[0,0]]]}
    }
  ]
}`

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestServer(t *testing.T, adminToken string) (*httpDelivery.Server, string) {
	t.Helper()
	logger := zap.NewNop()

	munDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(munDir, "square.geojson"), []byte(squareLayer), 0o644))
	nscDir := filepath.Join(t.TempDir(), "nsc")

	reg, err := boundary.NewRegistry([]domain.LayerDefinition{
		{
			Category:     domain.CategoryMunicipality,
			Label:        "municipality",
			Dir:          munDir,
			NameKeys:     []string{"MUNICNAME"},
			ExtrasKeys:   []string{"PROVINCE"},
			ProvinceKeys: []string{"PROVINCE"},
			Primary:      true,
		},
		{Category: domain.CategoryNSCRegion, Label: "NSC", Dir: nscDir, NameKeys: []string{"NAME"}},
	}, logger)
	require.NoError(t, err)
	require.NoError(t, reg.LoadAll(context.Background()))

	resolveUC := usecase.NewResolveUseCase(reg, nil, logger, time.Hour)
	checkUC := usecase.NewCheckUseCase(resolveUC, nil, noop.NewHistoryRepository(), logger)
	datasetUC := usecase.NewDatasetUseCase(reg, nil, logger)

	cfg := &config.Config{Admin: config.AdminConfig{Token: adminToken}}
	server := httpDelivery.NewServer(
		cfg,
		logger,
		handler.NewBoundaryHandler(resolveUC, datasetUC, logger),
		handler.NewCheckHandler(checkUC, logger),
		handler.NewAdminHandler(datasetUC, logger),
	)
	return server, nscDir
}

func do(t *testing.T, s *httpDelivery.Server, req *http.Request) (int, envelope) {
	t.Helper()
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(body, &env), string(body))
	return resp.StatusCode, env
}

func TestServer_Health(t *testing.T) {
	s, _ := newTestServer(t, "")

	resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestServer_Resolve(t *testing.T) {
	s, _ := newTestServer(t, "")

	t.Run("inside", func(t *testing.T) {
		status, env := do(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/resolve?lat=5&lon=5", nil))
		require.Equal(t, http.StatusOK, status)

		var res domain.Resolution
		require.NoError(t, json.Unmarshal(env.Data, &res))
		assert.True(t, res.OK)
		assert.Equal(t, "Square Town", *res.Municipality)
		assert.Equal(t, "Western Cape", *res.Province)
		assert.Equal(t, []string{"NSC"}, res.Missing)
		require.NotNil(t, res.Match(domain.CategoryNSCRegion))
		assert.Equal(t, domain.MissEmptyLayer, res.Match(domain.CategoryNSCRegion).Reason)
	})

	t.Run("outside", func(t *testing.T) {
		status, env := do(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/resolve?lat=20&lon=20", nil))
		require.Equal(t, http.StatusOK, status)

		var res domain.Resolution
		require.NoError(t, json.Unmarshal(env.Data, &res))
		assert.False(t, res.OK)
		assert.Equal(t, domain.MissNoMatch, res.Match(domain.CategoryMunicipality).Reason)
	})

	t.Run("missing parameter", func(t *testing.T) {
		status, env := do(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/resolve?lat=5", nil))
		assert.Equal(t, http.StatusBadRequest, status)
		require.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_COORDINATES", env.Error.Code)
	})

	t.Run("out of range", func(t *testing.T) {
		status, _ := do(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/resolve?lat=95&lon=5", nil))
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestServer_Check(t *testing.T) {
	s, _ := newTestServer(t, "")

	t.Run("with coordinates", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/check",
			strings.NewReader(`{"address":"  1  Main Rd ","lat":5,"lon":5}`))
		req.Header.Set("Content-Type", "application/json")

		status, env := do(t, s, req)
		require.Equal(t, http.StatusOK, status)

		var res struct {
			OK           bool    `json:"ok"`
			InputAddress string  `json:"input_address"`
			Municipality *string `json:"municipality"`
			Confidence   float64 `json:"confidence"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &res))
		assert.True(t, res.OK)
		assert.Equal(t, "1 Main Rd", res.InputAddress)
		assert.Equal(t, "Square Town", *res.Municipality)
		assert.Equal(t, 1.0, res.Confidence)
	})

	t.Run("geocoder disabled", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/check", strings.NewReader(`{"address":"1 Main Rd"}`))
		req.Header.Set("Content-Type", "application/json")

		status, env := do(t, s, req)
		require.Equal(t, http.StatusOK, status)
		assert.Contains(t, string(env.Data), "Could not geocode address")
	})

	t.Run("missing address", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/check", strings.NewReader(`{"lat":5,"lon":5}`))
		req.Header.Set("Content-Type", "application/json")

		status, env := do(t, s, req)
		assert.Equal(t, http.StatusBadRequest, status)
		require.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_REQUEST", env.Error.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/check", strings.NewReader(`{`))
		req.Header.Set("Content-Type", "application/json")

		status, _ := do(t, s, req)
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestServer_HistoryAndLayers(t *testing.T) {
	s, _ := newTestServer(t, "")

	status, env := do(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/history?limit=10", nil))
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"items":[],"total":0}`, string(env.Data))

	status, env = do(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/layers", nil))
	require.Equal(t, http.StatusOK, status)
	var stats domain.RegistryStats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 1, stats.TotalFeatures)
	assert.Len(t, stats.Layers, 2)
}

func TestServer_Admin(t *testing.T) {
	t.Run("disabled without token", func(t *testing.T) {
		s, _ := newTestServer(t, "")
		status, env := do(t, s, httptest.NewRequest(http.MethodPost, "/api/v1/admin/reload", nil))
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "ADMIN_DISABLED", env.Error.Code)
	})

	t.Run("wrong token", func(t *testing.T) {
		s, _ := newTestServer(t, "secret")
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/reload", nil)
		req.Header.Set("X-Admin-Token", "guess")
		status, env := do(t, s, req)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
	})

	t.Run("reload picks up new layer files", func(t *testing.T) {
		s, nscDir := newTestServer(t, "secret")
		require.NoError(t, os.MkdirAll(nscDir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(nscDir, "nsc.geojson"),
			[]byte(strings.Replace(squareLayer, `"MUNICNAME": "Square Town"`, `"NAME": "Central"`, 1)), 0o644))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/reload?which=nsc", nil)
		req.Header.Set("X-Admin-Token", "secret")
		status, _ := do(t, s, req)
		require.Equal(t, http.StatusOK, status)

		status, env := do(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/resolve?lat=5&lon=5", nil))
		require.Equal(t, http.StatusOK, status)
		var res domain.Resolution
		require.NoError(t, json.Unmarshal(env.Data, &res))
		require.NotNil(t, res.NSCRegion)
		assert.Equal(t, "Central", *res.NSCRegion)
		assert.Empty(t, res.Missing)
	})

	t.Run("unknown layer", func(t *testing.T) {
		s, _ := newTestServer(t, "secret")
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/reload?which=wards", nil)
		req.Header.Set("X-Admin-Token", "secret")
		status, env := do(t, s, req)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "UNKNOWN_LAYER", env.Error.Code)
	})

	t.Run("refresh without source", func(t *testing.T) {
		s, _ := newTestServer(t, "secret")
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/refresh-datasets", nil)
		req.Header.Set("X-Admin-Token", "secret")
		status, env := do(t, s, req)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "DATASET_SOURCE_MISSING", env.Error.Code)
	})
}
