package arcgis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/boundary-resolver/internal/config"
)

func geojsonFeature(i int) string {
	return fmt.Sprintf(`{"type":"Feature","properties":{"NAME":"F%d"},"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}}`, i)
}

func esriFeature(i int) string {
	return fmt.Sprintf(`{"attributes":{"NAME":"F%d"},"geometry":{"rings":[[[0,0],[0,1],[1,1],[0,0]]]}}`, i)
}

// layerServer serves total features in pages, in geojson only when geojson is true
func layerServer(t *testing.T, total int, geojson bool, requests *int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(requests, 1)
		assert.Equal(t, "/layer/0/query", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "1=1", q.Get("where"))
		assert.Equal(t, "*", q.Get("outFields"))
		assert.Equal(t, "4326", q.Get("outSR"))

		if q.Get("f") == "geojson" && !geojson {
			_, _ = w.Write([]byte(`{"error":{"code":400,"message":"Invalid format"}}`))
			return
		}

		offset, _ := strconv.Atoi(q.Get("resultOffset"))
		count, _ := strconv.Atoi(q.Get("resultRecordCount"))
		feats := "["
		for i := offset; i < total && i < offset+count; i++ {
			if i > offset {
				feats += ","
			}
			if q.Get("f") == "geojson" {
				feats += geojsonFeature(i)
			} else {
				feats += esriFeature(i)
			}
		}
		feats += "]"
		_, _ = fmt.Fprintf(w, `{"features":%s}`, feats)
	}))
}

func newTestFetcher(pageSize int) *fetcher {
	return NewFetcher(&config.ArcGISConfig{PageSize: pageSize, Timeout: 5 * time.Second}, zap.NewNop()).(*fetcher)
}

func TestFetcher_FetchLayer_GeoJSON(t *testing.T) {
	var requests int32
	server := layerServer(t, 5, true, &requests)
	defer server.Close()

	out := filepath.Join(t.TempDir(), "arcgis_municipality.json")
	format, n, err := newTestFetcher(2).FetchLayer(context.Background(), server.URL+"/layer/0/", out)
	require.NoError(t, err)
	assert.Equal(t, FormatGeoJSON, format)
	assert.Equal(t, 5, n)
	// pages of 2, 2, 1
	assert.Equal(t, int32(3), atomic.LoadInt32(&requests))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var fc featureCollection
	require.NoError(t, json.Unmarshal(data, &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	assert.Len(t, fc.Features, 5)
}

func TestFetcher_FetchLayer_ESRIFallback(t *testing.T) {
	var requests int32
	server := layerServer(t, 3, false, &requests)
	defer server.Close()

	out := filepath.Join(t.TempDir(), "arcgis_nsc_region.json")
	format, n, err := newTestFetcher(10).FetchLayer(context.Background(), server.URL+"/layer/0", out)
	require.NoError(t, err)
	assert.Equal(t, FormatESRI, format)
	assert.Equal(t, 3, n)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var set esriFeatureSet
	require.NoError(t, json.Unmarshal(data, &set))
	assert.Equal(t, 4326, set.SpatialReference.WKID)
	assert.Equal(t, 4326, set.SpatialReference.LatestWKID)
	assert.Len(t, set.Features, 3)

	entries, err := os.ReadDir(filepath.Dir(out))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestFetcher_FetchLayer_ExceededTransferLimit(t *testing.T) {
	// server caps pages at 2 records regardless of the requested size
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("resultOffset"))
		switch offset {
		case 0:
			_, _ = fmt.Fprintf(w, `{"features":[%s,%s],"exceededTransferLimit":true}`, geojsonFeature(0), geojsonFeature(1))
		case 2:
			_, _ = fmt.Fprintf(w, `{"features":[%s]}`, geojsonFeature(2))
		default:
			_, _ = w.Write([]byte(`{"features":[]}`))
		}
	}))
	defer server.Close()

	out := filepath.Join(t.TempDir(), "layer.json")
	_, n, err := newTestFetcher(1000).FetchLayer(context.Background(), server.URL+"/layer/0", out)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestFetcher_FetchLayer_Errors(t *testing.T) {
	t.Run("esri error payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"error":{"code":499,"message":"Token Required"}}`))
		}))
		defer server.Close()

		out := filepath.Join(t.TempDir(), "layer.json")
		_, _, err := newTestFetcher(10).FetchLayer(context.Background(), server.URL+"/layer/0", out)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Token Required")
		_, statErr := os.Stat(out)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("http error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, _, err := newTestFetcher(10).FetchLayer(context.Background(), server.URL+"/layer/0", filepath.Join(t.TempDir(), "x.json"))
		assert.Error(t, err)
	})

	t.Run("invalid url", func(t *testing.T) {
		_, _, err := newTestFetcher(10).FetchLayer(context.Background(), "not a url", filepath.Join(t.TempDir(), "x.json"))
		assert.Error(t, err)
	})
}
