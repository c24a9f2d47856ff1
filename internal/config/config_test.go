package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boundary-resolver/internal/domain"
)

func TestLoadLayerCatalog_Default(t *testing.T) {
	defs, err := LoadLayerCatalog("")
	require.NoError(t, err)
	require.Len(t, defs, 4)

	assert.Equal(t, domain.CategoryMunicipality, defs[0].Category)
	assert.True(t, defs[0].Primary)
	assert.Equal(t, []string{"MUNICNAME", "municname", "municipality", "name", "NAME"}, defs[0].NameKeys)
	assert.Equal(t, []string{"PROVINCE", "provname", "province"}, defs[0].ProvinceKeys)

	assert.Equal(t, domain.CategoryNSCRegion, defs[1].Category)
	assert.Equal(t, "NSC", defs[1].Label)
	assert.Equal(t, "SCHEMENAME", defs[1].NameKeys[0])
	assert.Equal(t, "MPR", defs[2].Label)
	assert.Equal(t, "custom", defs[3].Label)
}

func TestParseLayerCatalog_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", "layers: []"},
		{"no category", "layers:\n  - name_keys: [NAME]"},
		{"no name keys", "layers:\n  - category: municipality"},
		{"duplicate", "layers:\n  - {category: a, name_keys: [N]}\n  - {category: a, name_keys: [N]}"},
		{"two primaries", "layers:\n  - {category: a, name_keys: [N], primary: true}\n  - {category: b, name_keys: [N], primary: true}"},
		{"not yaml", "layers: [::"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseLayerCatalog([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestParseLayerCatalog_DefaultDir(t *testing.T) {
	defs, err := parseLayerCatalog([]byte("layers:\n  - {category: zones, name_keys: [ZONE]}"))
	require.NoError(t, err)
	assert.Equal(t, "zones", defs[0].Dir)
}

func TestConfig_LayerDefinitions(t *testing.T) {
	cfg := &Config{
		Data: DataConfig{
			Dir:       "/srv/data",
			LayerDirs: map[domain.Category]string{domain.CategoryMPRRegion: "/mnt/mpr"},
		},
		ArcGIS: ArcGISConfig{
			LayerURLs: map[domain.Category]string{domain.CategoryNSCRegion: "https://example.org/FeatureServer/0"},
		},
	}

	defs, err := cfg.LayerDefinitions()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/srv/data", "municipalities"), defs[0].Dir)
	assert.Equal(t, "https://example.org/FeatureServer/0", defs[1].SourceURL)
	assert.Equal(t, "/mnt/mpr", defs[2].Dir)
}

func TestLoad_FromEnvironment(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("API_PORT", "9090")
	t.Setenv("HISTORY_DRIVER", "none")
	t.Setenv("NSC_REGIONS_DIR", "/data/nsc")
	t.Setenv("RESOLVE_CACHE_TTL", "60")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "none", cfg.History.Driver)
	assert.Equal(t, "data", cfg.Data.Dir)
	assert.Equal(t, map[domain.Category]string{domain.CategoryNSCRegion: "/data/nsc"}, cfg.Data.LayerDirs)
	assert.Equal(t, "municipality-address-check/1.0", cfg.Geocoder.UserAgent)
	assert.Equal(t, 2000, cfg.ArcGIS.PageSize)
	assert.Equal(t, int64(60), int64(cfg.Cache.ResolveTTL.Seconds()))
	assert.Empty(t, cfg.Admin.Token)
}

func TestLoad_UnknownHistoryDriver(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("HISTORY_DRIVER", "mongo")

	_, err = Load()
	assert.Error(t, err)
}
