package repository

import (
	"context"
)

// DatasetFetcher скачивает слой ArcGIS FeatureServer в файл
type DatasetFetcher interface {
	// FetchLayer сохраняет слой в outPath и возвращает формат и число объектов
	FetchLayer(ctx context.Context, layerURL, outPath string) (format string, features int, err error)
}
