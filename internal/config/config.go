package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Security SecurityConfig `yaml:"security" envconfig:"SECURITY"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Ingest   IngestConfig   `yaml:"ingest" envconfig:"INGEST"`
	Export   ExportConfig   `yaml:"export" envconfig:"EXPORT"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080" validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"60s" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080" validate:"min=1"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output      string `yaml:"output" envconfig:"OUTPUT" default:"stdout"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

// IngestConfig bounds the upload processing pipeline. Every ceiling here
// exists to bound worst-case latency and memory for a hostile upload.
type IngestConfig struct {
	MaxUploadSize     int64    `yaml:"max_upload_size" envconfig:"MAX_UPLOAD_SIZE" default:"52428800" validate:"gt=0"`
	MaxRows           int      `yaml:"max_rows" envconfig:"MAX_ROWS" default:"20000" validate:"gt=0"`
	MaxCellChars      int      `yaml:"max_cell_chars" envconfig:"MAX_CELL_CHARS" default:"10000" validate:"gt=0"`
	AllowedExtensions []string `yaml:"allowed_extensions" envconfig:"ALLOWED_EXTENSIONS" default:".csv" validate:"min=1"`
	Encodings         []string `yaml:"encodings" envconfig:"ENCODINGS" default:"utf-8,latin-1,windows-1252" validate:"min=1"`
	RequiredColumns   []string `yaml:"required_columns" envconfig:"REQUIRED_COLUMNS" default:"Category,Recommendation" validate:"min=1"`
	TopN              int      `yaml:"top_n" envconfig:"TOP_N" default:"10" validate:"gt=0"`
	RetainedUploads   int      `yaml:"retained_uploads" envconfig:"RETAINED_UPLOADS" default:"100" validate:"gt=0"`
	DefaultCurrency   string   `yaml:"default_currency" envconfig:"DEFAULT_CURRENCY" default:"USD" validate:"len=3"`
}

// ExportConfig contains report export configuration
type ExportConfig struct {
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" default:"data/exports"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("ADVISOR", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	configFile := getConfigFilePath()
	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Server.Port == 0 {
		envConfig.Server.Port = fileConfig.Server.Port
	}
	if envConfig.Server.ReadTimeout == 0 {
		envConfig.Server.ReadTimeout = fileConfig.Server.ReadTimeout
	}
	if envConfig.Ingest.MaxUploadSize == 0 {
		envConfig.Ingest.MaxUploadSize = fileConfig.Ingest.MaxUploadSize
	}
	if envConfig.Ingest.MaxRows == 0 {
		envConfig.Ingest.MaxRows = fileConfig.Ingest.MaxRows
	}
	if len(envConfig.Ingest.RequiredColumns) == 0 {
		envConfig.Ingest.RequiredColumns = fileConfig.Ingest.RequiredColumns
	}

	return envConfig
}

// validate validates the configuration with struct tags plus the checks
// the tags cannot express.
func (c *Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	for _, ext := range c.Ingest.AllowedExtensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("allowed extension %q must start with a dot", ext)
		}
	}

	for _, enc := range c.Ingest.Encodings {
		switch strings.ToLower(strings.TrimSpace(enc)) {
		case "utf-8", "utf8", "latin-1", "latin1", "iso-8859-1", "windows-1252", "cp1252":
		default:
			return fmt.Errorf("unsupported encoding %q", enc)
		}
	}

	// Always use JSON format for structured log aggregation
	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "stdout",
			FilePath: "logs/app.log",
		},
		Ingest: DefaultIngestConfig(),
		Export: ExportConfig{
			OutputDir: "data/exports",
		},
	}
}

// DefaultIngestConfig returns the default pipeline limits.
func DefaultIngestConfig() IngestConfig {
	return IngestConfig{
		MaxUploadSize:     50 << 20, // 50 MiB
		MaxRows:           20000,
		MaxCellChars:      10000,
		AllowedExtensions: []string{".csv"},
		Encodings:         []string{"utf-8", "latin-1", "windows-1252"},
		RequiredColumns:   []string{"Category", "Recommendation"},
		TopN:              10,
		RetainedUploads:   100,
		DefaultCurrency:   "USD",
	}
}
