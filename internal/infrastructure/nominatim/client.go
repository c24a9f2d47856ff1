package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/boundary-resolver/internal/config"
	"github.com/boundary-resolver/internal/domain"
	"github.com/boundary-resolver/internal/domain/repository"
)

type place struct {
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	DisplayName string  `json:"display_name"`
	Importance  float64 `json:"importance"`
}

type client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewNominatimClient создает клиент поиска Nominatim. Запросы ограничены
// cfg.RPS в секунду: публичный сервер допускает не больше одного.
func NewNominatimClient(cfg *config.GeocoderConfig, logger *zap.Logger) repository.GeocoderRepository {
	rps := cfg.RPS
	if rps <= 0 {
		rps = 1
	}
	return &client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:   cfg.URL,
		userAgent: cfg.UserAgent,
		limiter:   rate.NewLimiter(rate.Limit(rps), 1),
		logger:    logger,
	}
}

// FormatQuery добавляет страну к адресу, так Nominatim находит точнее
func FormatQuery(address, country string) string {
	addr := strings.TrimSpace(address)
	if c := strings.TrimSpace(country); c != "" {
		addr = addr + ", " + c
	}
	return addr
}

// Geocode возвращает первое совпадение или nil, если ничего не найдено
func (c *client) Geocode(ctx context.Context, address, country string) (*domain.GeocodeHit, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("q", FormatQuery(address, country))
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Calling Nominatim search", zap.String("query", params.Get("q")))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute request", zap.Error(err))
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Error("Nominatim returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, fmt.Errorf("nominatim error: status %d", resp.StatusCode)
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		c.logger.Error("Failed to decode response", zap.Error(err))
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(places) == 0 {
		return nil, nil
	}

	p := places[0]
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid lat %q: %w", p.Lat, err)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid lon %q: %w", p.Lon, err)
	}

	return &domain.GeocodeHit{
		Lat:         lat,
		Lon:         lon,
		DisplayName: p.DisplayName,
		Importance:  p.Importance,
	}, nil
}
