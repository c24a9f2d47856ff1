package domain

import (
	"time"

	"github.com/google/uuid"
)

// CheckLog - запись истории проверок адресов
type CheckLog struct {
	ID                int64     `json:"id" db:"id"`
	RequestID         uuid.UUID `json:"request_id" db:"request_id"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	Address           string    `json:"address" db:"address"`
	NormalizedAddress string    `json:"normalized_address" db:"normalized_address"`
	Lat               *float64  `json:"lat" db:"lat"`
	Lon               *float64  `json:"lon" db:"lon"`
	Municipality      *string   `json:"municipality" db:"municipality"`
	Province          *string   `json:"province" db:"province"`
	NSCRegion         *string   `json:"nsc_region" db:"nsc_region"`
	MPRRegion         *string   `json:"mpr_region" db:"mpr_region"`
	CustomRegion      *string   `json:"custom_region" db:"custom_region"`
	Confidence        float64   `json:"confidence" db:"confidence"`
	OK                bool      `json:"ok" db:"ok"`
	Reason            *string   `json:"reason" db:"reason"`
}

// GeocodeHit - результат геокодирования адреса
type GeocodeHit struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"display_name"`
	Importance  float64 `json:"importance"`
}

// FetchResult - результат загрузки одного слоя из ArcGIS
type FetchResult struct {
	Category Category `json:"category"`
	URL      string   `json:"url"`
	Path     string   `json:"path"`
	Format   string   `json:"format"`
	Features int      `json:"features"`
	Error    string   `json:"error,omitempty"`
}
