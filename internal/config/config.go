package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPath     string
	DBLogLevel string

	RedisHost     string
	RedisPort     string
	RedisUser     string
	RedisPassword string

	SessionSecret string
	GinMode       string
	OpenAIAPIKey  string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool

	CacheTTL       time.Duration
	AllowedOrigins []string

	PublicRateLimit  int
	PublicRateWindow time.Duration

	LogLevel  string
	LogFormat string
}

var defaults = map[string]any{
	"port":               "8080",
	"db_driver":          "mysql",
	"db_host":            "localhost",
	"db_port":            "3306",
	"db_user":            "bizops",
	"db_password":        "bizopspassword",
	"db_name":            "bizops",
	"db_path":            "bizops.db",
	"db_log_level":       "warn",
	"redis_host":         "",
	"redis_port":         "6379",
	"redis_user":         "",
	"redis_password":     "",
	"session_secret":     "default-secret-key-change-me",
	"gin_mode":           "debug",
	"openai_api_key":     "",
	"minio_endpoint":     "",
	"minio_access_key":   "",
	"minio_secret_key":   "",
	"minio_bucket":       "bizops",
	"minio_use_ssl":      false,
	"cache_ttl":          "30s",
	"allowed_origins":    "http://localhost:3000",
	"public_rate_limit":  60,
	"public_rate_window": "1m",
	"log_level":          "info",
	"log_format":         "json",
}

// Load reads configuration from a .env file (if any), an optional config.toml
// and the process environment. Environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:             v.GetString("port"),
		DBDriver:         strings.ToLower(v.GetString("db_driver")),
		DBHost:           v.GetString("db_host"),
		DBPort:           v.GetString("db_port"),
		DBUser:           v.GetString("db_user"),
		DBPassword:       v.GetString("db_password"),
		DBName:           v.GetString("db_name"),
		DBPath:           v.GetString("db_path"),
		DBLogLevel:       v.GetString("db_log_level"),
		RedisHost:        v.GetString("redis_host"),
		RedisPort:        v.GetString("redis_port"),
		RedisUser:        v.GetString("redis_user"),
		RedisPassword:    v.GetString("redis_password"),
		SessionSecret:    v.GetString("session_secret"),
		GinMode:          v.GetString("gin_mode"),
		OpenAIAPIKey:     v.GetString("openai_api_key"),
		MinIOEndpoint:    v.GetString("minio_endpoint"),
		MinIOAccessKey:   v.GetString("minio_access_key"),
		MinIOSecretKey:   v.GetString("minio_secret_key"),
		MinIOBucket:      v.GetString("minio_bucket"),
		MinIOUseSSL:      v.GetBool("minio_use_ssl"),
		CacheTTL:         v.GetDuration("cache_ttl"),
		AllowedOrigins:   splitList(v.GetString("allowed_origins")),
		PublicRateLimit:  v.GetInt("public_rate_limit"),
		PublicRateWindow: v.GetDuration("public_rate_window"),
		LogLevel:         v.GetString("log_level"),
		LogFormat:        v.GetString("log_format"),
	}

	switch cfg.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.PublicRateLimit <= 0 || cfg.PublicRateWindow <= 0 {
		return nil, errors.New("public rate limit and window must be positive")
	}

	return cfg, nil
}

// RedisAddr returns host:port, or "" when redis is not configured.
func (c *Config) RedisAddr() string {
	if c.RedisHost == "" {
		return ""
	}
	return c.RedisHost + ":" + c.RedisPort
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
