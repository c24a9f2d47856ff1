package main

// @title Boundary Resolver API
// @version 1.0.0
// @description Определение муниципалитета, провинции и планировочных регионов по координатам или адресу.
// @description
// @description Основные возможности:
// @description - Разрешение точки по всем слоям границ (GeoJSON, ESRI JSON, Shapefile)
// @description - Проверка адреса через Nominatim с историей проверок
// @description - Перезагрузка слоёв и скачивание данных из ArcGIS FeatureServer

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey AdminToken
// @in header
// @name X-Admin-Token

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/boundary-resolver/docs"
	"github.com/boundary-resolver/internal/boundary"
	"github.com/boundary-resolver/internal/config"
	httpDelivery "github.com/boundary-resolver/internal/delivery/http"
	"github.com/boundary-resolver/internal/delivery/http/handler"
	"github.com/boundary-resolver/internal/domain/repository"
	"github.com/boundary-resolver/internal/infrastructure/arcgis"
	"github.com/boundary-resolver/internal/infrastructure/nominatim"
	"github.com/boundary-resolver/internal/pkg/logger"
	"github.com/boundary-resolver/internal/repository/cache"
	"github.com/boundary-resolver/internal/repository/noop"
	"github.com/boundary-resolver/internal/repository/postgres"
	redisRepo "github.com/boundary-resolver/internal/repository/redis"
	"github.com/boundary-resolver/internal/repository/sqlite"
	"github.com/boundary-resolver/internal/usecase"
	"github.com/boundary-resolver/internal/worker"
	"github.com/boundary-resolver/internal/worker/refresh"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Boundary Resolver")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("data_dir", cfg.Data.Dir),
		zap.String("history_driver", cfg.History.Driver),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// 3. Boundary layers
	defs, err := cfg.LayerDefinitions()
	if err != nil {
		log.Fatal("Failed to load layer catalog", zap.Error(err))
	}
	registry, err := boundary.NewRegistry(defs, log)
	if err != nil {
		log.Fatal("Failed to create boundary registry", zap.Error(err))
	}
	if cfg.Data.EagerLoad {
		if err := registry.LoadAll(ctx); err != nil {
			log.Fatal("Failed to load boundary layers", zap.Error(err))
		}
		stats := registry.Stats()
		log.Info("Boundary layers loaded",
			zap.Int("layers", len(stats.Layers)),
			zap.Int("features", stats.TotalFeatures),
			zap.Uint64("generation", stats.Generation))
	}

	// 4. History storage
	historyRepo, closeHistory, err := openHistory(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open history storage", zap.Error(err))
	}
	defer closeHistory()

	// 5. Redis: кеш разрешений и стрим перезагрузок
	var (
		redisClient *cache.Redis
		cacheRepo   repository.CacheRepository
	)
	if cfg.Cache.Enabled || cfg.Worker.Enabled {
		redisClient, err = cache.NewRedis(&cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close Redis connection", zap.Error(err))
			}
		}()
		log.Info("Redis connected")
		if cfg.Cache.Enabled {
			cacheRepo = cache.NewCacheRepository(redisClient)
		}
	}

	// 6. External services
	var geocoder repository.GeocoderRepository
	if cfg.Geocoder.Enabled {
		geocoder = nominatim.NewNominatimClient(&cfg.Geocoder, log)
	}
	fetcher := arcgis.NewFetcher(&cfg.ArcGIS, log)

	// 7. Use cases
	resolveUC := usecase.NewResolveUseCase(registry, cacheRepo, log, cfg.Cache.ResolveTTL)
	checkUC := usecase.NewCheckUseCase(resolveUC, geocoder, historyRepo, log)
	datasetUC := usecase.NewDatasetUseCase(registry, fetcher, log)

	log.Info("Use cases initialized")

	// 8. HTTP
	server := httpDelivery.NewServer(
		cfg,
		log,
		handler.NewBoundaryHandler(resolveUC, datasetUC, log),
		handler.NewCheckHandler(checkUC, log),
		handler.NewAdminHandler(datasetUC, log),
	)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.Bool("admin_enabled", cfg.Admin.Token != ""),
		zap.Bool("geocoder_enabled", cfg.Geocoder.Enabled),
	)

	// 9. Refresh worker: перезагрузка слоёв по событиям из Redis Stream.
	// Работает в процессе API, так как меняет его индекс в памяти.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	var workerManager *worker.WorkerManager
	if cfg.Worker.Enabled {
		streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log)
		workerManager = worker.NewWorkerManager(log)
		workerManager.Register(refresh.NewWorker(streamRepo, datasetUC, refresh.Config{
			ConsumerGroup: cfg.Worker.ConsumerGroup,
			BatchSize:     cfg.Worker.BatchSize,
			Block:         cfg.Worker.StreamReadTimeout,
			MaxRetries:    cfg.Worker.MaxRetries,
		}, log))
		if err := workerManager.Start(workerCtx); err != nil {
			log.Fatal("Failed to start workers", zap.Error(err))
		}
	}

	// 10. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if workerManager != nil {
		if err := workerManager.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping workers", zap.Error(err))
		}
		stopWorkers()
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}

// openHistory открывает хранилище истории по HISTORY_DRIVER
func openHistory(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.HistoryRepository, func(), error) {
	closer := func(name string, c io.Closer) func() {
		return func() {
			if err := c.Close(); err != nil {
				log.Error("Failed to close history storage", zap.String("driver", name), zap.Error(err))
			}
		}
	}

	switch cfg.History.Driver {
	case "postgres":
		db, err := postgres.New(&cfg.Database, log)
		if err != nil {
			return nil, nil, err
		}
		log.Info("PostgreSQL connected")
		return postgres.NewHistoryRepository(db), closer("postgres", db), nil
	case "none":
		log.Warn("Check history is disabled")
		return noop.NewHistoryRepository(), func() {}, nil
	default:
		db, err := sqlite.Open(ctx, cfg.History.SQLitePath, log)
		if err != nil {
			return nil, nil, err
		}
		log.Info("SQLite history opened", zap.String("path", cfg.History.SQLitePath))
		return sqlite.NewHistoryRepository(db), closer("sqlite", db), nil
	}
}
