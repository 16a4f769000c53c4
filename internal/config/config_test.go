package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Port:                 "8080",
		GeminiAPIKey:         "test-key",
		GeminiModel:          "gemini-2.5-flash",
		ExtractionTimeout:    2 * time.Minute,
		MaxUploadBytes:       20 << 20,
		UploadRatePerMinute:  10,
		SessionTTL:           30 * time.Minute,
		SessionSweepInterval: time.Minute,
		LogLevel:             "info",
		LogFormat:            "console",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(c *Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid api key config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "valid vertex config without api key",
			modify: func(c *Config) {
				c.GeminiAPIKey = ""
				c.UseVertexAI = true
				c.GCPProject = "my-project"
				c.GCPLocation = "us-central1"
			},
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			modify:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range",
			modify:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "missing api key",
			modify:      func(c *Config) { c.GeminiAPIKey = "" },
			wantErr:     true,
			errorString: "either GEMINI_API_KEY or GOOGLE_API_KEY must be provided",
		},
		{
			name: "vertex without project",
			modify: func(c *Config) {
				c.UseVertexAI = true
				c.GCPLocation = "us-central1"
			},
			wantErr:     true,
			errorString: "GOOGLE_CLOUD_PROJECT is required",
		},
		{
			name:        "extraction timeout too short",
			modify:      func(c *Config) { c.ExtractionTimeout = 10 * time.Millisecond },
			wantErr:     true,
			errorString: "invalid extraction timeout",
		},
		{
			name:        "zero upload size",
			modify:      func(c *Config) { c.MaxUploadBytes = 0 },
			wantErr:     true,
			errorString: "invalid max upload size 0",
		},
		{
			name:        "zero upload rate",
			modify:      func(c *Config) { c.UploadRatePerMinute = 0 },
			wantErr:     true,
			errorString: "invalid upload rate 0",
		},
		{
			name:        "unknown log format",
			modify:      func(c *Config) { c.LogFormat = "xml" },
			wantErr:     true,
			errorString: "invalid log format 'xml'",
		},
		{
			name:        "missing credentials file",
			modify:      func(c *Config) { c.GCSCredentialsFile = "/nonexistent/creds.json" },
			wantErr:     true,
			errorString: "GCS credentials file does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorString)
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "abc"
	cfg.GeminiAPIKey = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port")
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "GEMINI_API_KEY", "GOOGLE_API_KEY", "GEMINI_MODEL", "GEMINI_API_VERSION",
		"GOOGLE_GENAI_USE_VERTEXAI", "EXTRACTION_TIMEOUT", "MAX_UPLOAD_BYTES",
		"UPLOAD_RATE_PER_MINUTE", "SESSION_TTL", "SESSION_SWEEP_INTERVAL", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Empty(t, cfg.GeminiAPIVersion)
	assert.False(t, cfg.UseVertexAI)
	assert.Equal(t, 2*time.Minute, cfg.ExtractionTimeout)
	assert.Equal(t, int64(20<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 10, cfg.UploadRatePerMinute)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, time.Minute, cfg.SessionSweepInterval)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "fallback-key")
	t.Setenv("GOOGLE_GENAI_USE_VERTEXAI", "true")
	t.Setenv("EXTRACTION_TIMEOUT", "45s")
	t.Setenv("MAX_UPLOAD_BYTES", "1048576")
	t.Setenv("SESSION_TTL", "not-a-duration")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "fallback-key", cfg.GeminiAPIKey)
	assert.True(t, cfg.UseVertexAI)
	assert.Equal(t, 45*time.Second, cfg.ExtractionTimeout)
	assert.Equal(t, int64(1<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL, "unparseable values fall back to the default")
}
