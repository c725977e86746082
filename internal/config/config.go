package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/toyfactory/toyfactory/backend/go-services/internal/assets"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	MongoDB   MongoDBConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Uploads   UploadsConfig
	MinIO     assets.MinIOConfig
	LogLevel  string
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
}

// Addr is the listen address.
func (s ServerConfig) Addr() string { return s.Host + ":" + s.Port }

const (
	BackendMemory   = "memory"
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"

	SinkFile  = "file"
	SinkMinIO = "minio"
)

type CatalogConfig struct {
	Backend   string
	Seed      bool
	CacheSize int
	CacheTTL  time.Duration
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Enabled  bool
	UseRedis bool
	RPS      float64
	Burst    int
	Window   time.Duration
}

type UploadsConfig struct {
	Sink         string
	Dir          string
	PublicPrefix string
	MaxBytes     int64
}

// LoadConfig loads configuration from environment variables and an optional
// .env file. Every setting has a default, so an empty environment yields an
// in-memory catalog with uploads on local disk.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "5000")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("SERVER_READ_TIMEOUT", 30)
	viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	viper.SetDefault("CORS_ORIGINS", "*")
	viper.SetDefault("LOG_LEVEL", "info")

	viper.SetDefault("CATALOG_BACKEND", BackendMemory)
	viper.SetDefault("CATALOG_SEED", true)
	viper.SetDefault("CATALOG_CACHE_SIZE", 256)
	viper.SetDefault("CATALOG_CACHE_TTL", 60)

	viper.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGODB_DATABASE", "toyfactory")
	viper.SetDefault("MONGODB_TIMEOUT", 10)

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", "5432")
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_DB", "toyfactory")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")

	viper.SetDefault("RATE_LIMIT_ENABLED", true)
	viper.SetDefault("RATE_LIMIT_USE_REDIS", false)
	viper.SetDefault("RATE_LIMIT_RPS", 10)
	viper.SetDefault("RATE_LIMIT_BURST", 20)
	viper.SetDefault("RATE_LIMIT_WINDOW", 60)

	viper.SetDefault("UPLOAD_SINK", SinkFile)
	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.SetDefault("UPLOAD_PUBLIC_PREFIX", "/uploads")
	viper.SetDefault("UPLOAD_MAX_BYTES", assets.DefaultMaxUploadBytes)

	viper.SetDefault("MINIO_BUCKET", "toyfactory")
	viper.SetDefault("MINIO_PRESIGN_TTL", 0)

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  time.Duration(viper.GetInt("SERVER_READ_TIMEOUT")) * time.Second,
			WriteTimeout: time.Duration(viper.GetInt("SERVER_WRITE_TIMEOUT")) * time.Second,
			CORSOrigins:  splitList(viper.GetString("CORS_ORIGINS")),
		},
		Catalog: CatalogConfig{
			Backend:   strings.ToLower(viper.GetString("CATALOG_BACKEND")),
			Seed:      viper.GetBool("CATALOG_SEED"),
			CacheSize: viper.GetInt("CATALOG_CACHE_SIZE"),
			CacheTTL:  time.Duration(viper.GetInt("CATALOG_CACHE_TTL")) * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:      viper.GetString("MONGODB_URI"),
			Database: viper.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetString("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			Database: viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			Enabled:  viper.GetBool("RATE_LIMIT_ENABLED"),
			UseRedis: viper.GetBool("RATE_LIMIT_USE_REDIS"),
			RPS:      viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:    viper.GetInt("RATE_LIMIT_BURST"),
			Window:   time.Duration(viper.GetInt("RATE_LIMIT_WINDOW")) * time.Second,
		},
		Uploads: UploadsConfig{
			Sink:         strings.ToLower(viper.GetString("UPLOAD_SINK")),
			Dir:          viper.GetString("UPLOAD_DIR"),
			PublicPrefix: viper.GetString("UPLOAD_PUBLIC_PREFIX"),
			MaxBytes:     viper.GetInt64("UPLOAD_MAX_BYTES"),
		},
		MinIO: assets.MinIOConfig{
			Endpoint:   viper.GetString("MINIO_ENDPOINT"),
			AccessKey:  viper.GetString("MINIO_ACCESS_KEY"),
			SecretKey:  viper.GetString("MINIO_SECRET_KEY"),
			UseSSL:     viper.GetBool("MINIO_USE_SSL"),
			Bucket:     viper.GetString("MINIO_BUCKET"),
			PresignTTL: time.Duration(viper.GetInt("MINIO_PRESIGN_TTL")) * time.Second,
		},
		LogLevel: viper.GetString("LOG_LEVEL"),
	}
	// CORS_ORIGINS="," or " " parses to nothing; treat it like unset.
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"*"}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings that cannot produce a working service.
func (c *Config) Validate() error {
	switch c.Catalog.Backend {
	case BackendMemory, BackendMongo, BackendPostgres:
	default:
		return fmt.Errorf("CATALOG_BACKEND: unknown backend %q", c.Catalog.Backend)
	}
	switch c.Uploads.Sink {
	case SinkFile:
		if c.Uploads.Dir == "" {
			return fmt.Errorf("UPLOAD_DIR must be set for the file sink")
		}
	case SinkMinIO:
		if c.MinIO.Endpoint == "" {
			return fmt.Errorf("MINIO_ENDPOINT must be set for the minio sink")
		}
	default:
		return fmt.Errorf("UPLOAD_SINK: unknown sink %q", c.Uploads.Sink)
	}
	if len(c.Server.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must list at least one origin")
	}
	if c.Uploads.MaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive")
	}
	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

// DSN builds a lib/pq connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
