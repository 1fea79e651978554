package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultEnvFile = ".env"
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

	apiKeyVar = "OPENWEATHER_API_KEY"
)

type Config struct {
	OpenWeatherAPIKey string
	BaseURL           string
	LogLevel          string
	LogFormat         string
	OTLPEndpoint      string
}

// ConfigError reports a required setting that could not be resolved.
type ConfigError struct {
	Key string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s not set. Put it in a %s file.", e.Key, DefaultEnvFile)
}

// Load resolves the configuration from the process environment, falling back
// to envFile (dotenv format) when it exists. Environment values win.
func Load(envFile string) (Config, error) {
	v := viper.New()
	v.SetDefault("openweather_base_url", DefaultBaseURL)
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "text")
	v.AutomaticEnv()

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			v.SetConfigFile(envFile)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("failed to read %s: %w", envFile, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to stat %s: %w", envFile, err)
		}
	}

	cfg := Config{
		OpenWeatherAPIKey: strings.TrimSpace(v.GetString(strings.ToLower(apiKeyVar))),
		BaseURL:           strings.TrimSpace(v.GetString("openweather_base_url")),
		LogLevel:          strings.ToLower(strings.TrimSpace(v.GetString("log_level"))),
		LogFormat:         strings.ToLower(strings.TrimSpace(v.GetString("log_format"))),
		OTLPEndpoint:      strings.TrimSpace(v.GetString("otel_exporter_otlp_endpoint")),
	}
	if cfg.OpenWeatherAPIKey == "" {
		return Config{}, &ConfigError{Key: apiKeyVar}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return cfg, nil
}
