package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/randalmurphal/asyncflow/pkg/asyncflow/event"
	"github.com/randalmurphal/asyncflow/pkg/asyncflow/journal"
)

// ErrInvalidSettings indicates settings that failed validation.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings configures an emitter and its supporting services.
type Settings struct {
	// MaxListeners is the per-event listener count that triggers a leak
	// warning. Zero disables the check.
	MaxListeners int `yaml:"max_listeners" json:"max_listeners" validate:"gte=0"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level" json:"log_level" validate:"omitempty,oneof=debug info warn error"`

	Metrics bool `yaml:"metrics" json:"metrics"`
	Tracing bool `yaml:"tracing" json:"tracing"`

	// JournalPath is the SQLite file for the emission journal.
	// Empty selects an in-memory journal.
	JournalPath string `yaml:"journal_path" json:"journal_path"`
}

// Default returns the settings used when nothing overrides them.
func Default() Settings {
	return Settings{
		MaxListeners: 10,
		LogLevel:     "info",
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their file key rather than the Go name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks s and returns an error wrapping ErrInvalidSettings
// that lists every invalid field.
func (s Settings) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		switch fe.Tag() {
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidSettings, strings.Join(msgs, "; "))
}

// Level returns LogLevel as a slog.Level. Empty or unknown values map to
// slog.LevelInfo.
func (s Settings) Level() slog.Level {
	switch s.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger returns a text logger writing to w at the configured level.
func (s Settings) Logger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: s.Level()}))
}

// Options converts s into emitter options. logger may be nil.
func (s Settings) Options(logger *slog.Logger) []event.Option {
	return []event.Option{
		event.WithLogger(logger),
		event.WithMaxListeners(s.MaxListeners),
		event.WithMetrics(s.Metrics),
		event.WithTracing(s.Tracing),
	}
}

// OpenJournal opens the journal store named by JournalPath.
func (s Settings) OpenJournal() (journal.Store, error) {
	if s.JournalPath == "" {
		return journal.NewMemoryStore(), nil
	}
	store, err := journal.NewSQLiteStore(s.JournalPath)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", s.JournalPath, err)
	}
	return store, nil
}
