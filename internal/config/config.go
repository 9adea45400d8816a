package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"telescrape/internal/constants"
	"telescrape/internal/models"
	"telescrape/internal/security"
)

var (
	ErrMissingTelegramURL = models.ConfigError{Message: "missing Telegram gateway API URL"}
	ErrMissingDBPath      = models.ConfigError{Message: "missing database path"}
	ErrMissingChannels    = models.ConfigError{Message: "channels array is required and must contain at least one channel"}
)

func LoadConfig(path string) (*models.Config, error) {
	if err := security.ValidateFilePath(path); err != nil {
		return nil, fmt.Errorf("invalid config path: %w", err)
	}

	file, err := os.ReadFile(path) // #nosec G304 - Path validated above
	if err != nil {
		return nil, err
	}

	var config models.Config
	if err := json.Unmarshal(file, &config); err != nil {
		return nil, err
	}

	applyEnvironmentOverrides(&config)

	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func validate(c *models.Config) error {
	if c.Telegram.APIBaseURL == "" {
		return ErrMissingTelegramURL
	}
	if c.Database.Path == "" {
		return ErrMissingDBPath
	}
	if len(c.Channels) == 0 {
		return ErrMissingChannels
	}

	seen := make(map[string]bool)
	for i, channel := range c.Channels {
		if channel.Name == "" {
			return models.ConfigError{Message: fmt.Sprintf("empty channel name at index %d", i)}
		}
		if seen[channel.Name] {
			return models.ConfigError{Message: fmt.Sprintf("duplicate channel name: %s", channel.Name)}
		}
		seen[channel.Name] = true
	}

	if c.Telegram.TimeoutSec <= 0 {
		c.Telegram.TimeoutSec = constants.DefaultHTTPTimeoutSec
	}
	if c.Server.Port <= 0 {
		c.Server.Port = constants.DefaultServerPort
	}
	if c.Scraper.FetchPageSize <= 0 {
		c.Scraper.FetchPageSize = constants.DefaultFetchPageSize
	}
	if c.Scraper.ScrapeIntervalSec <= 0 {
		c.Scraper.ScrapeIntervalSec = constants.DefaultScrapeIntervalSec
	}
	if c.Scraper.CycleTimeoutSec <= 0 {
		c.Scraper.CycleTimeoutSec = constants.DefaultScrapeCycleTimeoutSec
	}
	if c.Retry.InitialBackoffMs <= 0 {
		c.Retry.InitialBackoffMs = constants.DefaultRetryBackoffMs
	}
	if c.Retry.MaxBackoffMs <= 0 {
		c.Retry.MaxBackoffMs = constants.DefaultMaxBackoffMs
	}
	if c.Retry.MaxAttempts <= 0 {
		c.Retry.MaxAttempts = constants.DefaultDatabaseRetryAttempts
	}
	if c.RetentionDays < 0 {
		c.RetentionDays = constants.DefaultRetentionDays
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "telescrape"
	}
	if c.Tracing.SampleRate <= 0 {
		c.Tracing.SampleRate = 0.1
	}
	return nil
}

func applyEnvironmentOverrides(c *models.Config) {
	if url := os.Getenv("TELEGRAM_API_URL"); url != "" {
		c.Telegram.APIBaseURL = url
	}

	// SECURITY: API tokens should be set via environment variables
	if token := os.Getenv("TELEGRAM_API_TOKEN"); token != "" {
		c.Telegram.APIToken = token
	}

	if path := os.Getenv("DB_PATH"); path != "" {
		c.Database.Path = path
	}

	if port := os.Getenv("TELESCRAPE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil && p > 0 {
			c.Server.Port = p
		}
	}

	if level := os.Getenv("TELESCRAPE_LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}
}
