package models

// Config holds the application configuration
type Config struct {
	Telegram      TelegramConfig  `json:"telegram"`
	Database      DatabaseConfig  `json:"database"`
	Server        ServerConfig    `json:"server"`
	Scraper       ScraperConfig   `json:"scraper"`
	Retry         RetryConfig     `json:"retry"`
	Tracing       TracingConfig   `json:"tracing"`
	Channels      []ChannelConfig `json:"channels"`
	LogLevel      string          `json:"log_level"`
	RetentionDays int             `json:"retentionDays"`
}

// TelegramConfig holds gateway API related configuration
type TelegramConfig struct {
	APIBaseURL string `json:"api_base_url"`
	APIToken   string `json:"api_token"`
	TimeoutSec int    `json:"timeoutSec"`
}

// DatabaseConfig holds database related configuration
type DatabaseConfig struct {
	Path string `json:"path"`
}

// ServerConfig holds HTTP server related configuration
type ServerConfig struct {
	Port int `json:"port"`
}

// ScraperConfig holds scrape loop configuration
type ScraperConfig struct {
	FetchPageSize     int  `json:"fetchPageSize"`
	ScrapeIntervalSec int  `json:"scrapeIntervalSec"`
	SchedulingEnabled bool `json:"schedulingEnabled"`
	CycleTimeoutSec   int  `json:"cycleTimeoutSec"`
}

// RetryConfig holds backoff configuration for database initialization
type RetryConfig struct {
	InitialBackoffMs int `json:"initialBackoffMs"`
	MaxBackoffMs     int `json:"maxBackoffMs"`
	MaxAttempts      int `json:"maxAttempts"`
}

// TracingConfig holds OpenTelemetry configuration
type TracingConfig struct {
	Enabled      bool    `json:"enabled"`
	ServiceName  string  `json:"serviceName"`
	Environment  string  `json:"environment"`
	OTLPEndpoint string  `json:"otlpEndpoint"`
	SampleRate   float64 `json:"sampleRate"`
	UseStdout    bool    `json:"useStdout"`
}

// ChannelConfig identifies one source channel to scrape and report on.
type ChannelConfig struct {
	Name string `json:"name"`
}

// ConfigError represents a configuration validation failure
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string {
	return e.Message
}
