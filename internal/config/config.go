package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the comic generator service configuration, loaded from
// environment variables.
type Config struct {
	// HTTP server
	Port            string        `envconfig:"PORT" default:"8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	// Text generation (Ollama or any OpenAI-compatible endpoint)
	AIClientType string        `envconfig:"AI_CLIENT_TYPE" default:"ollama"`
	AIBaseURL    string        `envconfig:"AI_BASE_URL" default:"http://localhost:11434"`
	AIModel      string        `envconfig:"AI_MODEL" default:"llama3.1:latest"`
	AIAPIKey     string        `envconfig:"AI_API_KEY" default:""`
	AITimeout    time.Duration `envconfig:"AI_TIMEOUT" default:"120s"`

	// Diffusion server
	DiffusionBaseURL  string        `envconfig:"DIFFUSION_BASE_URL" default:"http://localhost:7860"`
	DiffusionTimeout  time.Duration `envconfig:"DIFFUSION_TIMEOUT" default:"300s"`
	CharacterGuidance float64       `envconfig:"CHARACTER_GUIDANCE" default:"7.5"`
	SceneGuidance     float64       `envconfig:"SCENE_GUIDANCE" default:"7.0"`

	// Logging
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return &cfg, nil
}
