package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Store backend names accepted by STORE_BACKEND.
const (
	StoreMemory     = "memory"
	StoreFilesystem = "filesystem"
	StoreRedis      = "redis"
	StorePostgres   = "postgres"
)

type Config struct {
	Env  string
	Port int

	Upstream UpstreamConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Sync     SyncConfig
	Export   ExportConfig
	CORS     CORSConfig
	Log      LogConfig
	Metrics  MetricsConfig
}

// UpstreamConfig points at the remote schedule API.
type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration
}

// StoreConfig selects and tunes the persistent cache backend.
type StoreConfig struct {
	Backend       string
	Directory     string
	Namespace     string
	VersionMarker string
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// SyncConfig drives the background revalidation loop.
type SyncConfig struct {
	Interval      time.Duration
	ProbeInterval time.Duration
	ProbeTimeout  time.Duration
}

// ExportConfig tunes the CSV/PDF download endpoints.
type ExportConfig struct {
	Enabled bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")

	cfg.Upstream = UpstreamConfig{
		BaseURL: v.GetString("UPSTREAM_BASE_URL"),
		Timeout: parseDuration(v.GetString("UPSTREAM_TIMEOUT"), 15*time.Second),
	}

	cfg.Store = StoreConfig{
		Backend:       v.GetString("STORE_BACKEND"),
		Directory:     v.GetString("STORE_DIR"),
		Namespace:     v.GetString("STORE_NAMESPACE"),
		VersionMarker: v.GetString("CACHE_VERSION_MARKER"),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Sync = SyncConfig{
		Interval:      parseDuration(v.GetString("SYNC_INTERVAL"), 5*time.Minute),
		ProbeInterval: parseDuration(v.GetString("CONNECTIVITY_PROBE_INTERVAL"), 30*time.Second),
		ProbeTimeout:  parseDuration(v.GetString("CONNECTIVITY_PROBE_TIMEOUT"), 3*time.Second),
	}

	cfg.Export = ExportConfig{Enabled: v.GetBool("ENABLE_EXPORT")}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8571)

	v.SetDefault("UPSTREAM_BASE_URL", "http://localhost:5000")
	v.SetDefault("UPSTREAM_TIMEOUT", "15s")

	v.SetDefault("STORE_BACKEND", StoreFilesystem)
	v.SetDefault("STORE_DIR", "./data")
	v.SetDefault("STORE_NAMESPACE", "companion")
	v.SetDefault("CACHE_VERSION_MARKER", "2")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "timetable_companion")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("SYNC_INTERVAL", "5m")
	v.SetDefault("CONNECTIVITY_PROBE_INTERVAL", "30s")
	v.SetDefault("CONNECTIVITY_PROBE_TIMEOUT", "3s")

	v.SetDefault("ENABLE_EXPORT", true)
	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("ENABLE_METRICS", true)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
