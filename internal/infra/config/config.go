package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Reference source kinds.
const (
	SourceDir         = "dir"
	SourcePostgres    = "postgres"
	SourceObjectStore = "objectstore"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Reference  ReferenceConfig  `yaml:"reference"`
	Assessment AssessmentConfig `yaml:"assessment"`
	Cache      CacheConfig      `yaml:"cache"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
	CORS         CORSConfig      `yaml:"cors"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// CORSConfig lists the origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// ReferenceConfig selects where the WHO LMS tables are loaded from.
type ReferenceConfig struct {
	Source      string            `yaml:"source"`
	Dir         string            `yaml:"dir"`
	LoadTimeout time.Duration     `yaml:"loadTimeout"`
	Postgres    PostgresConfig    `yaml:"postgres"`
	ObjectStore ObjectStoreConfig `yaml:"objectStore"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	Table    string `yaml:"table"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ObjectStoreConfig points at an S3 compatible bucket holding table files.
type ObjectStoreConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Prefix    string `yaml:"prefix"`
}

// AssessmentConfig tunes the assessment service.
type AssessmentConfig struct {
	CacheTTL         time.Duration `yaml:"cacheTtl"`
	BatchConcurrency int           `yaml:"batchConcurrency"`
	MaxBatchSize     int           `yaml:"maxBatchSize"`
}

// CacheConfig configures the assessment result cache.
type CacheConfig struct {
	Redis  RedisConfig       `yaml:"redis"`
	Memory MemoryCacheConfig `yaml:"memory"`
}

// MemoryCacheConfig bounds the in-process fallback cache.
type MemoryCacheConfig struct {
	MaxEntries int `yaml:"maxEntries"`
}

// RedisConfig contains connection information for cache storage.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("HTTP_CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.CORS.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("REFERENCE_SOURCE"); v != "" {
		cfg.Reference.Source = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("REFERENCE_DIR"); v != "" {
		cfg.Reference.Dir = v
	}
	if v := os.Getenv("REFERENCE_LOAD_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Reference.LoadTimeout = parsed
		}
	}
	if v := os.Getenv("REFERENCE_POSTGRES_DSN"); v != "" {
		cfg.Reference.Postgres.DSN = v
	}
	if v := os.Getenv("REFERENCE_POSTGRES_TABLE"); v != "" {
		cfg.Reference.Postgres.Table = v
	}
	if v := os.Getenv("REFERENCE_OBJECT_ENDPOINT"); v != "" {
		cfg.Reference.ObjectStore.Endpoint = v
	}
	if v := os.Getenv("REFERENCE_OBJECT_ACCESS_KEY"); v != "" {
		cfg.Reference.ObjectStore.AccessKey = v
	}
	if v := os.Getenv("REFERENCE_OBJECT_SECRET_KEY"); v != "" {
		cfg.Reference.ObjectStore.SecretKey = v
	}
	if v := os.Getenv("REFERENCE_OBJECT_BUCKET"); v != "" {
		cfg.Reference.ObjectStore.Bucket = v
	}
	if v := os.Getenv("REFERENCE_OBJECT_PREFIX"); v != "" {
		cfg.Reference.ObjectStore.Prefix = v
	}
	if v := os.Getenv("ASSESSMENT_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Assessment.CacheTTL = parsed
		}
	}
	if v := os.Getenv("ASSESSMENT_BATCH_CONCURRENCY"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Assessment.BatchConcurrency = parsed
		}
	}
	if v := os.Getenv("ASSESSMENT_MAX_BATCH_SIZE"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Assessment.MaxBatchSize = parsed
		}
	}
	if v := os.Getenv("CACHE_REDIS_ENABLED"); v != "" {
		cfg.Cache.Redis.Enabled = parseBool(v)
	}
	if v := os.Getenv("CACHE_REDIS_ADDR"); v != "" {
		cfg.Cache.Redis.Addr = v
	}
	if v := os.Getenv("CACHE_MEMORY_MAX_ENTRIES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Cache.Memory.MaxEntries = parsed
		}
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
		},
		Reference: ReferenceConfig{
			Source:      SourceDir,
			Dir:         "who",
			LoadTimeout: 30 * time.Second,
			Postgres: PostgresConfig{
				Table:    "growth_reference_rows",
				MaxConns: 2,
			},
		},
		Assessment: AssessmentConfig{
			CacheTTL:         12 * time.Hour,
			BatchConcurrency: 4,
			MaxBatchSize:     500,
		},
		Cache: CacheConfig{
			Redis: RedisConfig{
				Enabled: false,
				Prefix:  "growth",
			},
			Memory: MemoryCacheConfig{MaxEntries: 10000},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	switch c.Reference.Source {
	case SourceDir:
		if strings.TrimSpace(c.Reference.Dir) == "" {
			return errors.New("reference.dir cannot be empty when source is dir")
		}
	case SourcePostgres:
		if strings.TrimSpace(c.Reference.Postgres.DSN) == "" {
			return errors.New("reference.postgres.dsn cannot be empty when source is postgres")
		}
		if strings.TrimSpace(c.Reference.Postgres.Table) == "" {
			return errors.New("reference.postgres.table cannot be empty")
		}
	case SourceObjectStore:
		if strings.TrimSpace(c.Reference.ObjectStore.Endpoint) == "" {
			return errors.New("reference.objectStore.endpoint cannot be empty when source is objectstore")
		}
		if strings.TrimSpace(c.Reference.ObjectStore.Bucket) == "" {
			return errors.New("reference.objectStore.bucket cannot be empty when source is objectstore")
		}
	default:
		return fmt.Errorf("reference.source %q must be one of dir, postgres, objectstore", c.Reference.Source)
	}
	if c.Reference.LoadTimeout <= 0 {
		return errors.New("reference.loadTimeout must be positive")
	}
	if c.Assessment.CacheTTL < 0 {
		return errors.New("assessment.cacheTtl cannot be negative")
	}
	if c.Assessment.BatchConcurrency <= 0 {
		return errors.New("assessment.batchConcurrency must be positive")
	}
	if c.Assessment.MaxBatchSize <= 0 {
		return errors.New("assessment.maxBatchSize must be positive")
	}
	if c.Cache.Redis.Enabled && strings.TrimSpace(c.Cache.Redis.Addr) == "" {
		return errors.New("cache.redis.addr cannot be empty when redis cache is enabled")
	}
	if c.Cache.Memory.MaxEntries <= 0 {
		return errors.New("cache.memory.maxEntries must be positive")
	}
	return nil
}
