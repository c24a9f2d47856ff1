package boundary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveName(t *testing.T) {
	keys := []string{"MUNICNAME", "municname", "NAME"}

	tests := []struct {
		name     string
		props    map[string]any
		expected string
	}{
		{
			name:     "declared order wins over map order",
			props:    map[string]any{"NAME": "B", "municname": "A"},
			expected: "A",
		},
		{
			name:     "keys are case sensitive",
			props:    map[string]any{"Municname": "X", "NAME": "B"},
			expected: "B",
		},
		{
			name:     "null and blank values are skipped",
			props:    map[string]any{"MUNICNAME": nil, "municname": "   ", "NAME": " Drakenstein "},
			expected: "Drakenstein",
		},
		{
			name:     "numbers use shortest form",
			props:    map[string]any{"NAME": 12.0},
			expected: "12",
		},
		{
			name:     "falls back to file label",
			props:    map[string]any{"OTHER": "x"},
			expected: "cape winelands district",
		},
		{
			name:     "nil props fall back to file label",
			props:    nil,
			expected: "cape winelands district",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveName(tt.props, keys, "data/cape_winelands-district.geojson"))
		})
	}
}

func TestExtractExtras(t *testing.T) {
	props := map[string]any{
		"PROVINCE": "Western Cape",
		"provname": nil,
		"CODE":     42.0,
		"OTHER":    "ignored",
	}

	got := ExtractExtras(props, []string{"PROVINCE", "provname", "CODE", "MISSING"})
	assert.Equal(t, map[string]any{"PROVINCE": "Western Cape", "CODE": 42.0}, got)

	assert.Nil(t, ExtractExtras(props, nil))
	assert.Nil(t, ExtractExtras(props, []string{"MISSING"}))
}

func TestLabelFromFilename(t *testing.T) {
	assert.Equal(t, "nsc regions 2024", LabelFromFilename("/tmp/nsc_regions-2024.geojson"))
	assert.Equal(t, "plain", LabelFromFilename("plain.json"))
	assert.Equal(t, "a b", LabelFromFilename("__a--b__.json"))
}

func TestFeature_Attribute(t *testing.T) {
	f := Feature{Attributes: map[string]any{"PROVINCE": "  ", "provname": "Gauteng"}}

	v, ok := f.Attribute("PROVINCE", "provname")
	assert.True(t, ok)
	assert.Equal(t, "Gauteng", v)

	_, ok = f.Attribute("province")
	assert.False(t, ok)
}
