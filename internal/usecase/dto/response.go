package dto

import "github.com/boundary-resolver/internal/domain"

// CheckResponse - результат проверки адреса
type CheckResponse struct {
	OK                bool     `json:"ok"`
	InputAddress      string   `json:"input_address"`
	NormalizedAddress *string  `json:"normalized_address"`
	Lat               *float64 `json:"lat"`
	Lon               *float64 `json:"lon"`
	Municipality      *string  `json:"municipality"`
	Province          *string  `json:"province"`
	NSCRegion         *string  `json:"nsc_region"`
	MPRRegion         *string  `json:"mpr_region"`
	CustomRegion      *string  `json:"custom_region"`
	Confidence        float64  `json:"confidence"`
	Reason            *string  `json:"reason"`
	// Layers - подробный результат по слоям, если точка была разрешена
	Layers []domain.LayerMatch `json:"layers,omitempty"`
}

// HistoryResponse - последние проверки, новые первыми
type HistoryResponse struct {
	Items []*domain.CheckLog `json:"items"`
	Total int                `json:"total"`
}

// ReloadResponse - результат перезагрузки слоёв
type ReloadResponse struct {
	Generation uint64              `json:"generation"`
	Layers     []domain.LayerStats `json:"layers"`
}

// RefreshResponse - результат скачивания и перезагрузки слоёв
type RefreshResponse struct {
	Fetched    []domain.FetchResult `json:"fetched"`
	Generation uint64               `json:"generation"`
	Layers     []domain.LayerStats  `json:"layers"`
}

// HealthResponse - состояние сервиса
type HealthResponse struct {
	OK            bool   `json:"ok"`
	Generation    uint64 `json:"generation"`
	TotalFeatures int    `json:"total_features"`
}
