package dto

// ResolveRequest - запрос на разрешение точки
type ResolveRequest struct {
	Lat float64 `json:"lat" query:"lat" validate:"latitude"`
	Lon float64 `json:"lon" query:"lon" validate:"longitude"`
}

// CheckRequest - проверка адреса; если lat/lon не заданы, адрес геокодируется
type CheckRequest struct {
	Address string   `json:"address" validate:"required,max=500"`
	Country string   `json:"country,omitempty" validate:"omitempty,max=100"`
	Lat     *float64 `json:"lat,omitempty" validate:"omitempty,latitude"`
	Lon     *float64 `json:"lon,omitempty" validate:"omitempty,longitude"`
}

// HistoryRequest - запрос истории проверок
type HistoryRequest struct {
	Limit int `query:"limit"`
}

// AdminRequest - параметры админских операций
type AdminRequest struct {
	Which string `query:"which"`
}
