package extraction

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// GeminiConfig selects the backend and credentials for the Gemini client.
// With UseVertexAI the Project/Location pair is used, otherwise APIKey.
type GeminiConfig struct {
	APIKey      string
	UseVertexAI bool
	Project     string
	Location    string
	APIVersion  string        // empty means the SDK default
	Timeout     time.Duration // per request; zero means no client-side timeout
}

// NewGeminiClient creates the Gemini client once at startup. The returned
// client's Models field is the Generator handed to NewExtractor.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*genai.Client, error) {
	cc := &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: cfg.APIVersion},
	}
	if cfg.Timeout > 0 {
		timeout := cfg.Timeout
		cc.HTTPOptions.Timeout = &timeout
	}

	if cfg.UseVertexAI {
		cc.Backend = genai.BackendVertexAI
		cc.Project = cfg.Project
		cc.Location = cfg.Location
	} else {
		cc.Backend = genai.BackendGeminiAPI
		cc.APIKey = cfg.APIKey
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("NewGeminiClient: create genai client: %w", err)
	}
	return client, nil
}
