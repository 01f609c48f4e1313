package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the service
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Store     StoreConfig     `yaml:"store"`
	Auth      AuthConfig      `yaml:"auth"`
	Upload    UploadConfig    `yaml:"upload"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Port                  int      `yaml:"port"`
	RequestTimeoutSeconds int      `yaml:"request_timeout_seconds"`
	CORSOrigins           []string `yaml:"cors_origins"`
}

// StoreConfig selects the vacancy store. Driver is postgres, mongo or memory.
type StoreConfig struct {
	Driver      string `yaml:"driver"`
	DatabaseURL string `yaml:"database_url"`
	MongoURI    string `yaml:"mongo_uri"`
	MongoDB     string `yaml:"mongo_db"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// UploadConfig selects where accepted résumés are written. Backend is local
// or s3.
type UploadConfig struct {
	Backend  string `yaml:"backend"`
	Dir      string `yaml:"dir"`
	S3Bucket string `yaml:"s3_bucket"`
	S3Region string `yaml:"s3_region"`
	S3Prefix string `yaml:"s3_prefix"`
}

// RateLimitConfig bounds public résumé submissions per client. An empty
// RedisURL keeps the counters in process.
type RateLimitConfig struct {
	RedisURL      string `yaml:"redis_url"`
	Requests      int    `yaml:"requests"`
	WindowSeconds int    `yaml:"window_seconds"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func (c ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c ServerConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func (c RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}

// Load reads the YAML file at path and fills in defaults. An empty path
// yields the defaults alone.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.setDefaults()
	return &cfg, nil
}

func (cfg *Config) setDefaults() {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RequestTimeoutSeconds == 0 {
		cfg.Server.RequestTimeoutSeconds = 15
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = "postgres"
	}
	if cfg.Store.MongoDB == "" {
		cfg.Store.MongoDB = "devjobs"
	}
	if cfg.Upload.Backend == "" {
		cfg.Upload.Backend = "local"
	}
	if cfg.Upload.Dir == "" {
		cfg.Upload.Dir = "uploads/cv"
	}
	if cfg.Upload.S3Prefix == "" {
		cfg.Upload.S3Prefix = "cv"
	}
	if cfg.RateLimit.Requests == 0 {
		cfg.RateLimit.Requests = 10
	}
	if cfg.RateLimit.WindowSeconds == 0 {
		cfg.RateLimit.WindowSeconds = 60
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// LoadFromEnv loads a .env file if present, then the YAML file named by
// CONFIG_FILE, then applies environment overrides.
func LoadFromEnv() (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("HTTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("HTTP_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("REQUEST_TIMEOUT: %w", err)
		}
		cfg.Server.RequestTimeoutSeconds = int(d.Seconds())
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("STORE_DRIVER"); v != "" {
		cfg.Store.Driver = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Store.DatabaseURL = v
	}
	if v := os.Getenv("MONGO_URI"); v != "" {
		cfg.Store.MongoURI = v
	}
	if v := os.Getenv("MONGO_DB"); v != "" {
		cfg.Store.MongoDB = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("UPLOAD_BACKEND"); v != "" {
		cfg.Upload.Backend = v
	}
	if v := os.Getenv("UPLOAD_DIR"); v != "" {
		cfg.Upload.Dir = v
	}
	if v := os.Getenv("S3_BUCKET"); v != "" {
		cfg.Upload.S3Bucket = v
	}
	if v := os.Getenv("S3_REGION"); v != "" {
		cfg.Upload.S3Region = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.RateLimit.RedisURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every missing or inconsistent setting at once.
func (cfg *Config) Validate() error {
	var errs []error
	if cfg.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	switch cfg.Store.Driver {
	case "postgres":
		if cfg.Store.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres store"))
		}
	case "mongo":
		if cfg.Store.MongoURI == "" {
			errs = append(errs, errors.New("MONGO_URI is required for the mongo store"))
		}
	case "memory":
	default:
		errs = append(errs, fmt.Errorf("unknown store driver %q", cfg.Store.Driver))
	}
	switch cfg.Upload.Backend {
	case "local":
	case "s3":
		if cfg.Upload.S3Bucket == "" || cfg.Upload.S3Region == "" {
			errs = append(errs, errors.New("S3_BUCKET and S3_REGION are required for the s3 upload backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown upload backend %q", cfg.Upload.Backend))
	}
	if cfg.RateLimit.Requests < 0 || cfg.RateLimit.WindowSeconds < 0 {
		errs = append(errs, errors.New("rate limit values must not be negative"))
	}
	return errors.Join(errs...)
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
