package usecase_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/boundary-resolver/internal/boundary"
	"github.com/boundary-resolver/internal/domain"
)

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepository) GetResolution(ctx context.Context, generation uint64, lat, lon float64) (*domain.Resolution, error) {
	args := m.Called(ctx, generation, lat, lon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resolution), args.Error(1)
}

func (m *MockCacheRepository) SetResolution(ctx context.Context, res *domain.Resolution, ttl time.Duration) error {
	args := m.Called(ctx, res, ttl)
	return args.Error(0)
}

// MockHistoryRepository is a mock of HistoryRepository
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Save(ctx context.Context, log *domain.CheckLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockHistoryRepository) List(ctx context.Context, limit int) ([]*domain.CheckLog, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CheckLog), args.Error(1)
}

// MockGeocoder is a mock of GeocoderRepository
type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Geocode(ctx context.Context, address, country string) (*domain.GeocodeHit, error) {
	args := m.Called(ctx, address, country)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeocodeHit), args.Error(1)
}

// MockDatasetFetcher is a mock of DatasetFetcher
type MockDatasetFetcher struct {
	mock.Mock
}

func (m *MockDatasetFetcher) FetchLayer(ctx context.Context, layerURL, outPath string) (string, int, error) {
	args := m.Called(ctx, layerURL, outPath)
	return args.String(0), args.Int(1), args.Error(2)
}

const municipalitiesGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"MUNICNAME": "Square Town", "PROVINCE": "Western Cape"},
      "geometry": {"type": "Polygon", "coordinates": [[[0,0],[10,0],[10,10],[0,10],[0,0]]]}
    }
  ]
}`

const regionsGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"REGION": "Lower Half"},
      "geometry": {"type": "Polygon", "coordinates": [[[0,0],[10,0],[10,5],[0,5],[0,0]]]}
    }
  ]
}`

type testLayers struct {
	registry *boundary.Registry
	munDir   string
	nscDir   string
	mprDir   string
}

// newTestLayers builds municipality and NSC layers with data and an empty MPR layer
func newTestLayers(t *testing.T) *testLayers {
	t.Helper()
	root := t.TempDir()
	l := &testLayers{
		munDir: filepath.Join(root, "municipalities"),
		nscDir: filepath.Join(root, "nsc"),
		mprDir: filepath.Join(root, "mpr"),
	}
	writeLayerFile(t, l.munDir, "municipalities.geojson", municipalitiesGeoJSON)
	writeLayerFile(t, l.nscDir, "regions.geojson", regionsGeoJSON)

	reg, err := boundary.NewRegistry([]domain.LayerDefinition{
		{
			Category:     domain.CategoryMunicipality,
			Label:        "municipality",
			Dir:          l.munDir,
			NameKeys:     []string{"MUNICNAME", "NAME"},
			ExtrasKeys:   []string{"PROVINCE"},
			ProvinceKeys: []string{"PROVINCE"},
			Primary:      true,
			SourceURL:    "https://example.test/arcgis/rest/services/Municipalities/FeatureServer/0",
		},
		{
			Category: domain.CategoryNSCRegion,
			Label:    "NSC",
			Dir:      l.nscDir,
			NameKeys: []string{"REGION", "NAME"},
		},
		{
			Category: domain.CategoryMPRRegion,
			Label:    "MPR",
			Dir:      l.mprDir,
			NameKeys: []string{"REGION", "NAME"},
		},
	}, zap.NewNop())
	require.NoError(t, err)
	l.registry = reg
	return l
}

func writeLayerFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
