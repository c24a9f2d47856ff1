package arcgis

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/boundary-resolver/internal/config"
	"github.com/boundary-resolver/internal/domain/repository"
)

const (
	FormatGeoJSON = "geojson"
	FormatESRI    = "esrijson"

	defaultPageSize = 2000
	maxPages        = 10000
)

type queryError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type queryPage struct {
	Error                 *queryError       `json:"error"`
	Features              []json.RawMessage `json:"features"`
	ExceededTransferLimit bool              `json:"exceededTransferLimit"`
}

type spatialReference struct {
	WKID       int `json:"wkid"`
	LatestWKID int `json:"latestWkid"`
}

type featureCollection struct {
	Type     string            `json:"type"`
	Features []json.RawMessage `json:"features"`
}

type esriFeatureSet struct {
	SpatialReference spatialReference  `json:"spatialReference"`
	Features         []json.RawMessage `json:"features"`
}

// fallbackError - сервер не отдал GeoJSON, нужно повторить в ESRI JSON
type fallbackError struct {
	reason string
}

func (e *fallbackError) Error() string { return e.reason }

// fetcher выгружает слой FeatureServer/MapServer постранично
type fetcher struct {
	httpClient *http.Client
	pageSize   int
	logger     *zap.Logger
}

// NewFetcher создает загрузчик слоёв ArcGIS REST
func NewFetcher(cfg *config.ArcGISConfig, logger *zap.Logger) repository.DatasetFetcher {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &fetcher{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		pageSize:   pageSize,
		logger:     logger,
	}
}

// FetchLayer скачивает все объекты слоя в outPath. Сначала запрашивает
// f=geojson; если сервер его не поддерживает, повторяет с f=json и
// сохраняет ESRI JSON как есть.
func (f *fetcher) FetchLayer(ctx context.Context, layerURL, outPath string) (string, int, error) {
	queryURL := strings.TrimRight(strings.TrimSpace(layerURL), "/") + "/query"
	if _, err := url.ParseRequestURI(queryURL); err != nil {
		return "", 0, eris.Wrapf(err, "invalid layer url %q", layerURL)
	}

	features, err := f.fetchAll(ctx, queryURL, "geojson")
	if err == nil && len(features) > 0 {
		if err := writeJSONAtomic(outPath, featureCollection{Type: "FeatureCollection", Features: features}); err != nil {
			return "", 0, err
		}
		return FormatGeoJSON, len(features), nil
	}

	var fb *fallbackError
	if err != nil && !errors.As(err, &fb) {
		return "", 0, err
	}
	if fb != nil {
		f.logger.Info("GeoJSON query not supported, falling back to ESRI JSON",
			zap.String("url", layerURL),
			zap.String("reason", fb.reason))
	}

	features, err = f.fetchAll(ctx, queryURL, "json")
	if err != nil {
		return "", 0, err
	}

	set := esriFeatureSet{
		SpatialReference: spatialReference{WKID: 4326, LatestWKID: 4326},
		Features:         features,
	}
	if set.Features == nil {
		set.Features = []json.RawMessage{}
	}
	if err := writeJSONAtomic(outPath, set); err != nil {
		return "", 0, err
	}
	return FormatESRI, len(features), nil
}

func (f *fetcher) fetchAll(ctx context.Context, queryURL, format string) ([]json.RawMessage, error) {
	var all []json.RawMessage
	offset := 0

	for page := 0; page < maxPages; page++ {
		batch, more, err := f.fetchPage(ctx, queryURL, format, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) == 0 || !more {
			return all, nil
		}
		offset += len(batch)
	}
	return nil, eris.Errorf("layer exceeds %d pages", maxPages)
}

func (f *fetcher) fetchPage(ctx context.Context, queryURL, format string, offset int) ([]json.RawMessage, bool, error) {
	params := url.Values{}
	params.Set("where", "1=1")
	params.Set("outFields", "*")
	params.Set("returnGeometry", "true")
	params.Set("outSR", "4326")
	params.Set("f", format)
	params.Set("resultOffset", strconv.Itoa(offset))
	params.Set("resultRecordCount", strconv.Itoa(f.pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, false, eris.Wrap(err, "failed to create query request")
	}

	f.logger.Debug("Querying ArcGIS layer",
		zap.String("url", queryURL),
		zap.String("format", format),
		zap.Int("offset", offset))

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, false, eris.Wrapf(err, "query %s", queryURL)
	}
	defer resp.Body.Close()

	geojson := format == "geojson"

	if resp.StatusCode >= http.StatusBadRequest {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
		if geojson {
			return nil, false, &fallbackError{reason: "status " + strconv.Itoa(resp.StatusCode)}
		}
		return nil, false, eris.Errorf("query %s: status %d", queryURL, resp.StatusCode)
	}

	var p queryPage
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		if geojson {
			return nil, false, &fallbackError{reason: "undecodable response"}
		}
		return nil, false, eris.Wrap(err, "failed to decode query response")
	}
	if p.Error != nil {
		if geojson {
			return nil, false, &fallbackError{reason: p.Error.Message}
		}
		return nil, false, eris.Errorf("arcgis error %d: %s", p.Error.Code, p.Error.Message)
	}

	more := len(p.Features) >= f.pageSize || p.ExceededTransferLimit
	return p.Features, more, nil
}

// writeJSONAtomic пишет во временный файл рядом и переименовывает, чтобы
// загрузчик слоя никогда не увидел частично записанный файл
func writeJSONAtomic(path string, v any) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".arcgis-*.tmp")
	if err != nil {
		return eris.Wrap(err, "failed to create temp file")
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	if err := enc.Encode(v); err != nil {
		tmp.Close()
		return eris.Wrap(err, "failed to write dataset")
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "failed to close dataset")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return eris.Wrapf(err, "failed to move dataset to %s", path)
	}
	return nil
}
