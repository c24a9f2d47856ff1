package domain

type Point struct {
	Lat float64 `json:"lat" db:"lat"`
	Lon float64 `json:"lon" db:"lon"`
}

type BoundingBox struct {
	MinLat float64 `json:"min_lat" db:"min_lat"`
	MinLon float64 `json:"min_lon" db:"min_lon"`
	MaxLat float64 `json:"max_lat" db:"max_lat"`
	MaxLon float64 `json:"max_lon" db:"max_lon"`
}

// Contains проверяет попадание точки в прямоугольник (граница включается)
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// RegistryStats представляет сводную статистику по всем слоям
type RegistryStats struct {
	Generation    uint64       `json:"generation"`
	TotalFeatures int          `json:"total_features"`
	Layers        []LayerStats `json:"layers"`
}
