package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/boundary-resolver/internal/domain"
)

//go:embed layers.yaml
var defaultLayers []byte

type layerCatalog struct {
	Layers []domain.LayerDefinition `yaml:"layers"`
}

// LoadLayerCatalog читает каталог слоёв из файла; пустой путь - встроенный
// каталог по умолчанию
func LoadLayerCatalog(path string) ([]domain.LayerDefinition, error) {
	data := defaultLayers
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read layers file: %w", err)
		}
		data = b
	}
	return parseLayerCatalog(data)
}

func parseLayerCatalog(data []byte) ([]domain.LayerDefinition, error) {
	var cat layerCatalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse layers file: %w", err)
	}
	if len(cat.Layers) == 0 {
		return nil, fmt.Errorf("layers file defines no layers")
	}

	seen := make(map[domain.Category]struct{}, len(cat.Layers))
	primary := 0
	for i, l := range cat.Layers {
		if l.Category == "" {
			return nil, fmt.Errorf("layer #%d has no category", i)
		}
		if _, dup := seen[l.Category]; dup {
			return nil, fmt.Errorf("duplicate layer %q", l.Category)
		}
		seen[l.Category] = struct{}{}
		if len(l.NameKeys) == 0 {
			return nil, fmt.Errorf("layer %q has no name_keys", l.Category)
		}
		if l.Dir == "" {
			cat.Layers[i].Dir = string(l.Category)
		}
		if l.Primary {
			primary++
		}
	}
	if primary > 1 {
		return nil, fmt.Errorf("only one layer can be primary, got %d", primary)
	}
	return cat.Layers, nil
}
