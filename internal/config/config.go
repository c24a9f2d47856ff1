package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/boundary-resolver/internal/domain"
)

type Config struct {
	Server   ServerConfig
	Data     DataConfig
	History  HistoryConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Geocoder GeocoderConfig
	ArcGIS   ArcGISConfig
	Admin    AdminConfig
	Log      LogConfig
	Worker   WorkerConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string

	// CORSOrigins - список origin через запятую, * - любой
	CORSOrigins string
}

// DataConfig - каталоги слоёв границ
type DataConfig struct {
	Dir        string
	LayersFile string
	// LayerDirs - переопределения каталогов по категориям
	LayerDirs map[domain.Category]string
	// EagerLoad - загрузить все слои при старте
	EagerLoad bool
}

type HistoryConfig struct {
	// Driver - sqlite, postgres или none
	Driver     string
	SQLitePath string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	Enabled    bool
	ResolveTTL time.Duration
}

type GeocoderConfig struct {
	Enabled   bool
	URL       string
	UserAgent string
	Timeout   time.Duration
	// RPS - не больше одного запроса в секунду по правилам Nominatim
	RPS float64
}

type ArcGISConfig struct {
	LayerURLs map[domain.Category]string
	PageSize  int
	Timeout   time.Duration
}

type AdminConfig struct {
	// Token - пустой токен отключает админские эндпоинты
	Token string
}

type LogConfig struct {
	Level string

	// Format - json или console
	Format string
}

type WorkerConfig struct {
	Enabled           bool
	ConsumerGroup     string
	StreamReadTimeout time.Duration
	BatchSize         int
	MaxRetries        int
}

func setDefaults() {
	viper.SetDefault("API_HOST", "0.0.0.0")
	viper.SetDefault("API_PORT", 8080)
	viper.SetDefault("API_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("CORS_ORIGINS", "*")
	viper.SetDefault("DATA_DIR", "data")
	viper.SetDefault("EAGER_LOAD", true)
	viper.SetDefault("HISTORY_DRIVER", "sqlite")
	viper.SetDefault("SQLITE_PATH", "app.db")
	viper.SetDefault("DB_PORT", 5432)
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", 3600)
	viper.SetDefault("DB_CONN_MAX_IDLE_TIME", 600)
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", 6379)
	viper.SetDefault("CACHE_ENABLED", false)
	viper.SetDefault("RESOLVE_CACHE_TTL", 3600)
	viper.SetDefault("GEOCODER_ENABLED", false)
	viper.SetDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org/search")
	viper.SetDefault("NOMINATIM_USER_AGENT", "municipality-address-check/1.0")
	viper.SetDefault("GEOCODER_TIMEOUT", 20)
	viper.SetDefault("GEOCODER_RPS", 1.0)
	viper.SetDefault("ARCGIS_PAGE_SIZE", 2000)
	viper.SetDefault("ARCGIS_TIMEOUT", 60)
	viper.SetDefault("WORKER_CONSUMER_GROUP", "boundary-refresh-workers")
	viper.SetDefault("WORKER_STREAM_READ_TIMEOUT", 5000)
	viper.SetDefault("WORKER_BATCH_SIZE", 10)
	viper.SetDefault("WORKER_MAX_RETRIES", 3)
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),

			CORSOrigins: viper.GetString("CORS_ORIGINS"),
		},
		Data: DataConfig{
			Dir:        viper.GetString("DATA_DIR"),
			LayersFile: viper.GetString("LAYERS_FILE"),
			LayerDirs: nonEmpty(map[domain.Category]string{
				domain.CategoryMunicipality: viper.GetString("MUNICIPALITIES_DIR"),
				domain.CategoryNSCRegion:    viper.GetString("NSC_REGIONS_DIR"),
				domain.CategoryMPRRegion:    viper.GetString("MPR_REGIONS_DIR"),
				domain.CategoryCustomRegion: viper.GetString("CUSTOM_REGIONS_DIR"),
			}),
			EagerLoad: viper.GetBool("EAGER_LOAD"),
		},
		History: HistoryConfig{
			Driver:     strings.ToLower(viper.GetString("HISTORY_DRIVER")),
			SQLitePath: viper.GetString("SQLITE_PATH"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			Enabled:    viper.GetBool("CACHE_ENABLED"),
			ResolveTTL: time.Duration(viper.GetInt("RESOLVE_CACHE_TTL")) * time.Second,
		},
		Geocoder: GeocoderConfig{
			Enabled:   viper.GetBool("GEOCODER_ENABLED"),
			URL:       viper.GetString("NOMINATIM_URL"),
			UserAgent: viper.GetString("NOMINATIM_USER_AGENT"),
			Timeout:   time.Duration(viper.GetInt("GEOCODER_TIMEOUT")) * time.Second,
			RPS:       viper.GetFloat64("GEOCODER_RPS"),
		},
		ArcGIS: ArcGISConfig{
			LayerURLs: nonEmpty(map[domain.Category]string{
				domain.CategoryMunicipality: viper.GetString("ARCGIS_MUNICIPALITIES_LAYER_URL"),
				domain.CategoryNSCRegion:    viper.GetString("ARCGIS_NSC_LAYER_URL"),
				domain.CategoryMPRRegion:    viper.GetString("ARCGIS_MPR_LAYER_URL"),
				domain.CategoryCustomRegion: viper.GetString("ARCGIS_CUSTOM_LAYER_URL"),
			}),
			PageSize: viper.GetInt("ARCGIS_PAGE_SIZE"),
			Timeout:  time.Duration(viper.GetInt("ARCGIS_TIMEOUT")) * time.Second,
		},
		Admin: AdminConfig{
			Token: viper.GetString("ADMIN_TOKEN"),
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: strings.ToLower(viper.GetString("LOG_FORMAT")),
		},
		Worker: WorkerConfig{
			Enabled:           viper.GetBool("WORKER_ENABLED"),
			ConsumerGroup:     viper.GetString("WORKER_CONSUMER_GROUP"),
			StreamReadTimeout: time.Duration(viper.GetInt("WORKER_STREAM_READ_TIMEOUT")) * time.Millisecond,
			BatchSize:         viper.GetInt("WORKER_BATCH_SIZE"),
			MaxRetries:        viper.GetInt("WORKER_MAX_RETRIES"),
		},
	}

	switch cfg.History.Driver {
	case "sqlite", "postgres", "none":
	default:
		return nil, fmt.Errorf("unknown HISTORY_DRIVER %q", cfg.History.Driver)
	}

	return cfg, nil
}

func nonEmpty(m map[domain.Category]string) map[domain.Category]string {
	for k, v := range m {
		if strings.TrimSpace(v) == "" {
			delete(m, k)
		}
	}
	return m
}

// LayerDefinitions возвращает каталог слоёв с каталогами и URL из окружения
func (c *Config) LayerDefinitions() ([]domain.LayerDefinition, error) {
	defs, err := LoadLayerCatalog(c.Data.LayersFile)
	if err != nil {
		return nil, err
	}
	for i := range defs {
		d := &defs[i]
		if dir, ok := c.Data.LayerDirs[d.Category]; ok {
			d.Dir = dir
		} else if !filepath.IsAbs(d.Dir) {
			d.Dir = filepath.Join(c.Data.Dir, d.Dir)
		}
		if u, ok := c.ArcGIS.LayerURLs[d.Category]; ok {
			d.SourceURL = u
		}
	}
	return defs, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
