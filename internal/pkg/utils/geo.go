package utils

import (
	"math"
	"strings"
)

// ValidateCoordinates проверяет валидность координат
func ValidateCoordinates(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// NormalizeAddress схлопывает пробельные символы
func NormalizeAddress(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
