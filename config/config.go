package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port            string
	MongoURI        string
	MongoDatabase   string
	StorageDriver   string
	DatabaseURL     string
	RedisURL        string
	CacheTTL        time.Duration
	FeedEnabled     bool
	BodyLimitBytes  int64
	RateLimitRPM    int
	TracingEnabled  bool
	TracingEndpoint string
	LogLevel        string
	LogFile         string
	GinMode         string
}

// Load reads configuration from the environment. A dotenv file (CONFIG_FILE,
// default ".env") is read when present; real environment variables win over it.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path := v.GetString("config_file"); path != "" {
		if err := readConfigFile(v, path); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		Port:            v.GetString("port"),
		MongoURI:        strings.TrimSpace(v.GetString("mongodb_uri")),
		MongoDatabase:   v.GetString("mongodb_database"),
		StorageDriver:   strings.ToLower(v.GetString("storage_driver")),
		DatabaseURL:     v.GetString("database_url"),
		RedisURL:        v.GetString("redis_url"),
		CacheTTL:        v.GetDuration("cache_ttl"),
		FeedEnabled:     v.GetBool("feed_enabled"),
		BodyLimitBytes:  v.GetInt64("body_limit_bytes"),
		RateLimitRPM:    v.GetInt("rate_limit_rpm"),
		TracingEnabled:  v.GetBool("tracing_enabled"),
		TracingEndpoint: v.GetString("tracing_endpoint"),
		LogLevel:        v.GetString("log_level"),
		LogFile:         v.GetString("log_file"),
		GinMode:         v.GetString("gin_mode"),
	}

	switch cfg.StorageDriver {
	case DriverMongo, DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("config_file", ".env")
	v.SetDefault("port", "5000")
	v.SetDefault("mongodb_uri", "")
	v.SetDefault("mongodb_database", "")
	v.SetDefault("storage_driver", DriverMongo)
	v.SetDefault("database_url", "")
	v.SetDefault("redis_url", "")
	v.SetDefault("cache_ttl", 30*time.Second)
	v.SetDefault("feed_enabled", true)
	v.SetDefault("body_limit_bytes", 100*1024)
	v.SetDefault("rate_limit_rpm", 0)
	v.SetDefault("tracing_enabled", false)
	v.SetDefault("tracing_endpoint", "http://localhost:14268/api/traces")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "logs/app.log")
	v.SetDefault("gin_mode", "")
}

func readConfigFile(v *viper.Viper, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	v.SetConfigFile(path)
	if strings.HasSuffix(path, ".env") {
		v.SetConfigType("env")
	}

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return nil
}
