// Package config defines environment configuration structs and loaders.
package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type AppConfig struct {
	OpenAIEnvConfig
	ServerEnvConfig
	FetcherEnvConfig
}

func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := envconfig.Process(context.Background(), cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// OpenAIEnvConfig configures access to the chat-completions provider.
// The API key is validated at call time, not load time, so a missing key
// surfaces as a per-request configuration error.
type OpenAIEnvConfig struct {
	OpenAIAPIKey  string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string        `env:"OPENAI_BASE_URL, default=https://api.openai.com/v1"`
	OpenAIModel   string        `env:"OPENAI_MODEL, default=gpt-4o-mini"`
	OpenAITimeout time.Duration `env:"OPENAI_TIMEOUT, default=60s"`
}

// ServerEnvConfig configures the HTTP server.
type ServerEnvConfig struct {
	Host          string `env:"SERVER_HOST, default=0.0.0.0"`
	Port          int    `env:"SERVER_PORT, default=8001"`
	BodySizeLimit int    `env:"SERVER_BODY_LIMIT, default=1048576"`
}

// FetcherEnvConfig configures web page fetching.
type FetcherEnvConfig struct {
	FetchTimeout  time.Duration `env:"FETCH_TIMEOUT, default=10s"`
	FetchRetryMax int           `env:"FETCH_RETRY_MAX, default=3"`
}
