package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultVapiCallURL is the Vapi outbound call endpoint.
const DefaultVapiCallURL = "https://api.vapi.ai/call"

// Config holds application configuration. It is loaded once at startup and
// treated as read-only afterwards.
type Config struct {
	Port           string
	Env            string
	LogLevel       string
	AllowedOrigin  string
	MetricsEnabled bool

	// Google Sheets web app receiving leads
	SheetsWebAppURL string

	// Vapi outbound calls
	VapiToken         string
	VapiAssistantID   string
	VapiPhoneNumberID string
	VapiCallURL       string

	// HTTPClientTimeout bounds outbound calls; zero means no timeout.
	HTTPClientTimeout time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "3000"),
		Env:            getEnv("ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigin:  getEnv("ALLOWED_ORIGIN", "*"),
		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),

		SheetsWebAppURL: strings.TrimSpace(getEnv("SHEETS_WEBAPP_URL", "")),

		VapiToken:         strings.TrimSpace(getEnv("VAPI_TOKEN", "")),
		VapiAssistantID:   strings.TrimSpace(getEnv("VAPI_ASSISTANT_ID", "")),
		VapiPhoneNumberID: strings.TrimSpace(getEnv("VAPI_PHONE_NUMBER_ID", "")),
		VapiCallURL:       getEnv("VAPI_CALL_URL", DefaultVapiCallURL),

		HTTPClientTimeout: getEnvAsDuration("HTTP_CLIENT_TIMEOUT", 0),
	}
}

// HasSheets reports whether the lead webhook is configured.
func (c *Config) HasSheets() bool {
	return c != nil && c.SheetsWebAppURL != ""
}

// HasVapi reports whether all three Vapi settings are present.
func (c *Config) HasVapi() bool {
	return c != nil && c.VapiToken != "" && c.VapiAssistantID != "" && c.VapiPhoneNumberID != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
