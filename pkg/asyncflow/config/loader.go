package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by FromEnv.
const (
	EnvMaxListeners = "ASYNCFLOW_MAX_LISTENERS"
	EnvLogLevel     = "ASYNCFLOW_LOG_LEVEL"
	EnvMetrics      = "ASYNCFLOW_METRICS"
	EnvTracing      = "ASYNCFLOW_TRACING"
	EnvJournalPath  = "ASYNCFLOW_JOURNAL_PATH"
)

// FromFile loads settings from a file, auto-detecting format by extension.
// Supported extensions: .yaml, .yml, .json
func FromFile(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	default:
		return Settings{}, fmt.Errorf("unsupported config file extension: %s", ext)
	}
}

// FromYAML parses YAML data over Default and validates the result.
func FromYAML(data []byte) (Settings, error) {
	s := Default()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parse yaml: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// FromJSON parses JSON data over Default and validates the result.
func FromJSON(data []byte) (Settings, error) {
	s := Default()
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parse json: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// FromEnv loads settings from ASYNCFLOW_* environment variables.
//
// With no arguments a missing .env file in the working directory is
// ignored. Files named explicitly must exist.
func FromEnv(files ...string) (Settings, error) {
	if len(files) == 0 {
		_ = godotenv.Load()
	} else if err := godotenv.Load(files...); err != nil {
		return Settings{}, fmt.Errorf("load env files: %w", err)
	}

	s := Default()

	if raw := os.Getenv(EnvMaxListeners); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Settings{}, fmt.Errorf("%w: %s: %v", ErrInvalidSettings, EnvMaxListeners, err)
		}
		s.MaxListeners = n
	}
	if raw := os.Getenv(EnvLogLevel); raw != "" {
		s.LogLevel = strings.ToLower(strings.TrimSpace(raw))
	}
	for key, dst := range map[string]*bool{EnvMetrics: &s.Metrics, EnvTracing: &s.Tracing} {
		raw := os.Getenv(key)
		if raw == "" {
			continue
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return Settings{}, fmt.Errorf("%w: %s: %v", ErrInvalidSettings, key, err)
		}
		*dst = b
	}
	s.JournalPath = os.Getenv(EnvJournalPath)

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}
