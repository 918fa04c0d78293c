// Package config loads runtime settings for the item OCR tools from a .env
// file and ITEM_OCR_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvLogLevel       = "ITEM_OCR_LOG_LEVEL"
	EnvLogFormat      = "ITEM_OCR_LOG_FORMAT"
	EnvLanguage       = "ITEM_OCR_LANGUAGE"
	EnvTessdataPrefix = "ITEM_OCR_TESSDATA_PREFIX"
	EnvThreshold      = "ITEM_OCR_THRESHOLD"
	EnvUpscaleFactor  = "ITEM_OCR_UPSCALE"
	EnvCacheSize      = "ITEM_OCR_CACHE_SIZE"
	EnvMetricsAddr    = "ITEM_OCR_METRICS_ADDR"
	EnvVocabularyFile = "ITEM_OCR_VOCABULARY"
)

// Defaults.
const (
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
	DefaultLanguage      = "kor+eng"
	DefaultThreshold     = 160
	DefaultUpscaleFactor = 1.0
	DefaultCacheSize     = 16
)

// Config holds the application configuration.
type Config struct {
	LogLevel       string  `validate:"oneof=debug info warn error"`
	LogFormat      string  `validate:"oneof=text json"`
	Language       string  `validate:"required"`
	TessdataPrefix string  `validate:"omitempty,dir"`
	Threshold      int     `validate:"min=0,max=255"`
	UpscaleFactor  float64 `validate:"gte=1,lte=4"`
	CacheSize      int     `validate:"min=1"`
	MetricsAddr    string  `validate:"omitempty,hostname_port"`
	VocabularyFile string  `validate:"omitempty,file"`
}

// envKeys maps Config field names to the variable that sets them, for error
// messages.
var envKeys = map[string]string{
	"LogLevel":       EnvLogLevel,
	"LogFormat":      EnvLogFormat,
	"Language":       EnvLanguage,
	"TessdataPrefix": EnvTessdataPrefix,
	"Threshold":      EnvThreshold,
	"UpscaleFactor":  EnvUpscaleFactor,
	"CacheSize":      EnvCacheSize,
	"MetricsAddr":    EnvMetricsAddr,
	"VocabularyFile": EnvVocabularyFile,
}

var validate = validator.New()

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		LogLevel:      DefaultLogLevel,
		LogFormat:     DefaultLogFormat,
		Language:      DefaultLanguage,
		Threshold:     DefaultThreshold,
		UpscaleFactor: DefaultUpscaleFactor,
		CacheSize:     DefaultCacheSize,
	}
}

// Load loads the configuration from the environment and validates it.
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:       strings.ToLower(getEnv(EnvLogLevel, DefaultLogLevel)),
		LogFormat:      strings.ToLower(getEnv(EnvLogFormat, DefaultLogFormat)),
		Language:       getEnv(EnvLanguage, DefaultLanguage),
		TessdataPrefix: getEnv(EnvTessdataPrefix, ""),
		MetricsAddr:    getEnv(EnvMetricsAddr, ""),
		VocabularyFile: getEnv(EnvVocabularyFile, ""),
	}

	var err error
	if cfg.Threshold, err = getEnvInt(EnvThreshold, DefaultThreshold); err != nil {
		return nil, err
	}
	if cfg.CacheSize, err = getEnvInt(EnvCacheSize, DefaultCacheSize); err != nil {
		return nil, err
	}
	if cfg.UpscaleFactor, err = getEnvFloat(EnvUpscaleFactor, DefaultUpscaleFactor); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field against its allowed range.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		key := envKeys[e.Field()]
		if key == "" {
			key = e.Field()
		}
		msgs = append(msgs, fmt.Sprintf("%s=%v fails %s", key, e.Value(), describe(e)))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "oneof":
		return "one of [" + e.Param() + "]"
	case "min", "gte":
		return ">= " + e.Param()
	case "max", "lte":
		return "<= " + e.Param()
	case "dir":
		return "existing directory"
	case "file":
		return "existing file"
	case "hostname_port":
		return "host:port"
	default:
		return e.Tag()
	}
}

// Binarization returns the threshold as the byte the binarizer takes.
// Validate guarantees the range.
func (c *Config) Binarization() uint8 {
	return uint8(c.Threshold)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := strings.TrimSpace(getEnv(key, ""))
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	raw := strings.TrimSpace(getEnv(key, ""))
	if raw == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return f, nil
}
