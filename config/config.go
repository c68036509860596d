// Package config loads the service configuration from YAML with defaults and
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/jsphweid/phonomidi/constants"
	"gopkg.in/yaml.v3"
)

type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

func (l LogLevel) Level() slog.Level {
	switch l {
	case LogDebug:
		return slog.LevelDebug
	case LogWarn:
		return slog.LevelWarn
	case LogError:
		return slog.LevelError
	}
	return slog.LevelInfo
}

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Dictionary DictionaryConfig `yaml:"dictionary"`
	Outputs    OutputsConfig    `yaml:"outputs"`
	Decode     DecodeConfig     `yaml:"decode"`
	Limits     LimitsConfig     `yaml:"limits"`
}

type ServerConfig struct {
	ListenAddr  string   `yaml:"listen_addr"`
	LogLevel    LogLevel `yaml:"log_level"`
	CORSOrigins []string `yaml:"cors_origins"`
	// RateLimit is requests per minute per client for encode and decode.
	RateLimit int `yaml:"rate_limit"`
	// DownloadRateLimit is requests per minute per client for downloads.
	DownloadRateLimit int `yaml:"download_rate_limit"`
}

type DictionaryConfig struct {
	Path string `yaml:"path"`
}

type OutputsConfig struct {
	Dir           string        `yaml:"dir"`
	MaxAge        time.Duration `yaml:"max_age"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
	S3Bucket      string        `yaml:"s3_bucket"`
	S3Region      string        `yaml:"s3_region"`
	S3Endpoint    string        `yaml:"s3_endpoint"`
}

type DecodeConfig struct {
	Fuzzy          bool    `yaml:"fuzzy"`
	FuzzyThreshold float64 `yaml:"fuzzy_threshold"`
}

type LimitsConfig struct {
	MaxTextLength int   `yaml:"max_text_length"`
	MaxFileSize   int64 `yaml:"max_file_size"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddr:  ":8000",
			LogLevel:    LogInfo,
			CORSOrigins: []string{"*"},
			RateLimit:   10,

			DownloadRateLimit: 30,
		},
		Dictionary: DictionaryConfig{Path: constants.GetDictionaryPath()},
		Outputs: OutputsConfig{
			Dir:           constants.GetOutputsDir(),
			MaxAge:        7 * 24 * time.Hour,
			SweepInterval: 24 * time.Hour,
			S3Region:      "us-east-1",
		},
		Decode: DecodeConfig{FuzzyThreshold: 0.9},
		Limits: LimitsConfig{
			MaxTextLength: constants.MaxTextLength,
			MaxFileSize:   constants.MaxFileSize,
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path means
// defaults only. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		ApplyEnv(cfg)
		return cfg, Validate(cfg)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	ApplyEnv(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func ApplyEnv(cfg *Config) {
	if v, ok := os.LookupEnv("DICTIONARY_PATH"); ok && v != "" {
		cfg.Dictionary.Path = v
	}
	if v, ok := os.LookupEnv("OUTPUTS_DIR"); ok && v != "" {
		cfg.Outputs.Dir = v
	}
	if v, ok := os.LookupEnv("LISTEN_ADDR"); ok && v != "" {
		cfg.Server.ListenAddr = v
	}
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok && v != "" {
		cfg.Server.LogLevel = LogLevel(v)
	}
	if v, ok := os.LookupEnv("S3_BUCKET"); ok {
		cfg.Outputs.S3Bucket = v
	}
	if v, ok := os.LookupEnv("AWS_REGION"); ok && v != "" {
		cfg.Outputs.S3Region = v
	}
	if v, ok := os.LookupEnv("RATE_LIMIT"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.RateLimit = n
		} else {
			slog.Warn("ignoring invalid RATE_LIMIT", "value", v)
		}
	}
}

// Validate returns a joined error listing every problem found.
func Validate(cfg *Config) error {
	var errs []error

	if !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if cfg.Server.ListenAddr == "" {
		errs = append(errs, errors.New("server.listen_addr is required"))
	}
	if cfg.Server.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("server.rate_limit must be >= 0, got %d", cfg.Server.RateLimit))
	}
	if cfg.Server.DownloadRateLimit < 0 {
		errs = append(errs, fmt.Errorf("server.download_rate_limit must be >= 0, got %d", cfg.Server.DownloadRateLimit))
	}
	if cfg.Dictionary.Path == "" {
		errs = append(errs, errors.New("dictionary.path is required"))
	}
	if cfg.Outputs.Dir == "" {
		errs = append(errs, errors.New("outputs.dir is required"))
	}
	if cfg.Outputs.MaxAge <= 0 {
		errs = append(errs, fmt.Errorf("outputs.max_age must be positive, got %s", cfg.Outputs.MaxAge))
	}
	if cfg.Outputs.SweepInterval < 0 {
		errs = append(errs, fmt.Errorf("outputs.sweep_interval must be >= 0, got %s", cfg.Outputs.SweepInterval))
	}
	if t := cfg.Decode.FuzzyThreshold; t < 0 || t > 1 {
		errs = append(errs, fmt.Errorf("decode.fuzzy_threshold must be within [0, 1], got %g", t))
	}
	if cfg.Limits.MaxTextLength <= 0 {
		errs = append(errs, fmt.Errorf("limits.max_text_length must be positive, got %d", cfg.Limits.MaxTextLength))
	}
	if cfg.Limits.MaxFileSize <= 0 {
		errs = append(errs, fmt.Errorf("limits.max_file_size must be positive, got %d", cfg.Limits.MaxFileSize))
	}
	return errors.Join(errs...)
}
