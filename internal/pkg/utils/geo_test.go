package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCoordinates(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		expected bool
	}{
		{"cape town", -33.92, 18.42, true},
		{"corners", 90, -180, true},
		{"lat too big", 90.0001, 0, false},
		{"lon too small", 0, -180.5, false},
		{"nan", math.NaN(), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateCoordinates(tt.lat, tt.lon))
		})
	}
}

func TestNormalizeAddress(t *testing.T) {
	assert.Equal(t, "1 Main Rd, Cape Town", NormalizeAddress("  1  Main Rd,\n\tCape   Town "))
	assert.Empty(t, NormalizeAddress(" \t\n"))
}
