package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: every environment variable is read here and nowhere else
type Config struct {
	Env string // development, staging, production

	// Pipeline inputs and outputs
	Inputs  InputConfig
	Outputs OutputConfig

	// ModelPath points to an optional YAML scoring model; empty means built-in defaults
	ModelPath string

	// Database (optional postgres sink)
	Database DatabaseConfig

	// Redis (optional area-link cache)
	Redis RedisConfig

	// HTTP (inputs given as URLs)
	HTTP HTTPConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// InputConfig holds the three source dataset paths
type InputConfig struct {
	PostcodesPath   string // ONSPD postcode -> LSOA lookup
	DeprivationPath string // IMD 2019 (.csv or .xlsx)
	SalesPath       string // Land Registry Price Paid (headerless csv)

	// CacheDir receives inputs given as http(s) URLs
	CacheDir string
}

// OutputConfig holds export targets
type OutputConfig struct {
	Targets    []string // file paths or postgres URLs
	ShapesPath string   // LSOA boundary shapefile for the map layer
	MapPath    string   // map layer output shapefile
	MapFilter  string   // keep boundaries whose LSOA11NM contains this, e.g. "London"
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
	CacheTTL time.Duration
}

// HTTPConfig holds download settings
type HTTPConfig struct {
	Timeout           time.Duration
	MaxRetries        int
	RequestsPerSecond float64
}

// Load reads configuration from environment variables
// ⭐ SSOT: the only function that calls os.Getenv()
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Env: getEnv("ENV", "development"),

		Inputs: InputConfig{
			PostcodesPath:   getEnv("PROPTIER_POSTCODES", "PCD_OA_LSOA_MSOA_LAD_AUG21_UK_LU.csv"),
			DeprivationPath: getEnv("PROPTIER_DEPRIVATION", "IMD_2019.csv"),
			SalesPath:       getEnv("PROPTIER_SALES", "pp-2024.csv"),
		},

		Outputs: OutputConfig{
			Targets:    getEnvAsList("PROPTIER_OUTPUT", "classified_property_dataset.csv"),
			ShapesPath: getEnv("PROPTIER_SHAPES", ""),
			MapPath:    getEnv("PROPTIER_MAP_OUTPUT", ""),
			MapFilter:  getEnv("PROPTIER_MAP_FILTER", ""),
		},

		ModelPath: getEnv("PROPTIER_MODEL", ""),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 4),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			CacheTTL: getEnvAsDuration("REDIS_CACHE_TTL", "168h"),
		},

		HTTP: HTTPConfig{
			Timeout:           getEnvAsDuration("HTTP_TIMEOUT", "10m"),
			MaxRetries:        getEnvAsInt("HTTP_MAX_RETRIES", 3),
			RequestsPerSecond: getEnvAsFloat("HTTP_RATE_LIMIT", 1),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks values that can be checked before any flag overrides
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.LogFormat != "json" && c.LogFormat != "console" && c.LogFormat != "pretty" {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console, pretty")
	}

	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.Database.MinConns, c.Database.MaxConns)
	}

	if c.HTTP.RequestsPerSecond <= 0 {
		return fmt.Errorf("HTTP_RATE_LIMIT must be positive")
	}

	if (c.Outputs.ShapesPath == "") != (c.Outputs.MapPath == "") {
		return fmt.Errorf("PROPTIER_SHAPES and PROPTIER_MAP_OUTPUT must be set together")
	}

	return nil
}

// ValidateInputs checks that every input path is set
// Called after command-line flags have been merged.
func (c *Config) ValidateInputs() error {
	missing := make([]string, 0, 3)
	if c.Inputs.PostcodesPath == "" {
		missing = append(missing, "postcodes")
	}
	if c.Inputs.DeprivationPath == "" {
		missing = append(missing, "deprivation")
	}
	if c.Inputs.SalesPath == "" {
		missing = append(missing, "sales")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing input paths: %s", strings.Join(missing, ", "))
	}
	return nil
}

// RedisAddr returns host:port for the redis client
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsList(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
