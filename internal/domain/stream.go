package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Stream names
const (
	StreamBoundaryRefresh  = "stream:boundary:refresh"
	StreamBoundaryReloaded = "stream:boundary:reloaded"
)

// BoundaryRefreshEvent - входящее событие на перезагрузку слоёв
type BoundaryRefreshEvent struct {
	EventID uuid.UUID `json:"event_id"`
	// Which - all, municipality, nsc, mpr, custom или их синонимы
	Which string `json:"which"`
	// Fetch - скачать данные из ArcGIS перед перезагрузкой
	Fetch bool `json:"fetch"`
}

// Target возвращает which, подставляя all для пустого значения
func (e *BoundaryRefreshEvent) Target() string {
	w := strings.TrimSpace(e.Which)
	if w == "" {
		return "all"
	}
	return w
}

// BoundaryReloadedEvent - результат перезагрузки
type BoundaryReloadedEvent struct {
	EventID    uuid.UUID     `json:"event_id"`
	Generation uint64        `json:"generation"`
	Layers     []LayerStats  `json:"layers,omitempty"`
	Fetched    []FetchResult `json:"fetched,omitempty"`
	Error      string        `json:"error,omitempty"`
	ReloadedAt time.Time     `json:"reloaded_at"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
