package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/dvloznov/statement-analyzer/internal/logger"
)

type Config struct {
	// HTTP Server
	Port string

	// Gemini
	GeminiAPIKey     string
	GeminiModel      string
	GeminiAPIVersion string
	UseVertexAI      bool
	GCPProject       string
	GCPLocation      string

	// Analysis
	ExtractionTimeout   time.Duration
	MaxUploadBytes      int64
	UploadRatePerMinute int

	// Sessions
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	// Cloud Storage, used by the CLI for gs:// statements
	GCSCredentialsFile string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first if present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	apiKey := getEnv("GEMINI_API_KEY", "")
	if apiKey == "" {
		apiKey = getEnv("GOOGLE_API_KEY", "")
	}

	return &Config{
		Port: getEnv("PORT", "8080"),

		GeminiAPIKey:     apiKey,
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiAPIVersion: getEnv("GEMINI_API_VERSION", ""),
		UseVertexAI:      getEnvBool("GOOGLE_GENAI_USE_VERTEXAI", false),
		GCPProject:       getEnv("GOOGLE_CLOUD_PROJECT", ""),
		GCPLocation:      getEnv("GOOGLE_CLOUD_LOCATION", ""),

		ExtractionTimeout:   getEnvDuration("EXTRACTION_TIMEOUT", 2*time.Minute),
		MaxUploadBytes:      getEnvInt64("MAX_UPLOAD_BYTES", 20<<20),
		UploadRatePerMinute: getEnvInt("UPLOAD_RATE_PER_MINUTE", 10),

		SessionTTL:           getEnvDuration("SESSION_TTL", 30*time.Minute),
		SessionSweepInterval: getEnvDuration("SESSION_SWEEP_INTERVAL", time.Minute),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", logger.FormatConsole),

		GCSCredentialsFile: getEnv("GCS_CREDENTIALS_FILE", ""),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.UseVertexAI {
		if c.GCPProject == "" {
			errors = append(errors, "GOOGLE_CLOUD_PROJECT is required when GOOGLE_GENAI_USE_VERTEXAI is set")
		}
		if c.GCPLocation == "" {
			errors = append(errors, "GOOGLE_CLOUD_LOCATION is required when GOOGLE_GENAI_USE_VERTEXAI is set")
		}
	} else if c.GeminiAPIKey == "" {
		errors = append(errors, "either GEMINI_API_KEY or GOOGLE_API_KEY must be provided")
	}

	if c.GeminiModel == "" {
		errors = append(errors, "Gemini model name cannot be empty")
	}

	if c.ExtractionTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid extraction timeout %v: must be at least 1 second", c.ExtractionTimeout))
	} else if c.ExtractionTimeout > 10*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid extraction timeout %v: must be at most 10 minutes", c.ExtractionTimeout))
	}

	if c.MaxUploadBytes < 1 {
		errors = append(errors, fmt.Sprintf("invalid max upload size %d: must be positive", c.MaxUploadBytes))
	}

	if c.UploadRatePerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid upload rate %d: must be at least 1 per minute", c.UploadRatePerMinute))
	}

	if c.SessionTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at least 1 minute", c.SessionTTL))
	}
	if c.SessionSweepInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid session sweep interval %v: must be at least 1 second", c.SessionSweepInterval))
	}

	switch c.LogFormat {
	case logger.FormatConsole, logger.FormatJSON:
	default:
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be one of [%s %s]", c.LogFormat, logger.FormatConsole, logger.FormatJSON))
	}

	if c.GCSCredentialsFile != "" {
		if _, err := os.Stat(c.GCSCredentialsFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("GCS credentials file does not exist: %s", c.GCSCredentialsFile))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
