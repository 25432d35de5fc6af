package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the configuration for the representation service
type Config struct {
	Representation RepresentationConfig `mapstructure:"representation"`
	Preprocessing  PreprocessingConfig  `mapstructure:"preprocessing"`
	Search         SearchConfig         `mapstructure:"search"`
	API            APIConfig            `mapstructure:"api"`
	LogLevel       string               `mapstructure:"log_level"`
}

// RepresentationConfig bounds the vocabulary built for every request
type RepresentationConfig struct {
	MaxFeatures      int     `mapstructure:"max_features"`
	MinDocumentCount int     `mapstructure:"min_document_count"`
	MaxDocumentRatio float64 `mapstructure:"max_document_ratio"`
}

// PreprocessingConfig lists the steps applied to raw text before it is
// vectorized. Leaving out "tokenize" keeps the implicit tokenization path.
type PreprocessingConfig struct {
	Pipeline []string `mapstructure:"pipeline"`
}

// SearchConfig holds search index configuration
type SearchConfig struct {
	DefaultTopK int `mapstructure:"default_top_k"`
	MaxTopK     int `mapstructure:"max_top_k"`
}

// APIConfig holds HTTP server configuration
type APIConfig struct {
	Addr           string        `mapstructure:"addr"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
	EnableIndexing bool          `mapstructure:"enable_indexing"`
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Representation: RepresentationConfig{
			MaxFeatures:      GetIntEnv("TEXTREP_MAX_FEATURES", 0),
			MinDocumentCount: GetIntEnv("TEXTREP_MIN_DOCUMENT_COUNT", 1),
			MaxDocumentRatio: GetFloatEnv("TEXTREP_MAX_DOCUMENT_RATIO", 1.0),
		},
		Preprocessing: PreprocessingConfig{
			Pipeline: GetListEnv("TEXTREP_PIPELINE", nil),
		},
		Search: SearchConfig{
			DefaultTopK: GetIntEnv("SEARCH_DEFAULT_TOP_K", 5),
			MaxTopK:     GetIntEnv("SEARCH_MAX_TOP_K", 100),
		},
		API: APIConfig{
			Addr:           GetStringEnv("API_ADDR", ":8080"),
			ReadTimeout:    GetDurationEnv("API_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:   GetDurationEnv("API_WRITE_TIMEOUT", 30*time.Second),
			MaxBodyBytes:   int64(GetIntEnv("API_MAX_BODY_BYTES", 4<<20)),
			EnableIndexing: GetBoolEnv("API_ENABLE_INDEXING", true),
		},
		LogLevel: GetStringEnv("LOG_LEVEL", "info"),
	}
}

// LoadFile loads the environment configuration and overlays the values set
// in a YAML, TOML or JSON file. Keys missing from the file keep their
// environment or default value.
func LoadFile(path string) (*Config, error) {
	cfg := Load()

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error decoding config file %s: %w", path, err)
	}
	return cfg, nil
}

func GetStringEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func GetBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// GetListEnv splits a comma-separated variable, dropping blank items.
func GetListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
