package config

import (
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server ServerConfig
	LLM    LLMConfig
	Log    LogConfig
}

type ServerConfig struct {
	Port         string        `envconfig:"SERVER_PORT" default:"8000"`
	Host         string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	ReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"90s"`
	// SessionIdleTimeout ends a session after this long without a request.
	// Zero keeps sessions until they are cleared.
	SessionIdleTimeout time.Duration `envconfig:"SESSION_IDLE_TIMEOUT" default:"30m"`
}

// LLMConfig describes the completion endpoint. APIKey is checked by llm.New
// so that a missing credential surfaces as a typed error.
type LLMConfig struct {
	Provider     string        `envconfig:"LLM_PROVIDER" default:"http"`
	Flavor       string        `envconfig:"LLM_FLAVOR" default:"chat"`
	APIKey       string        `envconfig:"LLM_API_KEY"`
	APIEndpoint  string        `envconfig:"LLM_ENDPOINT" default:"https://api.openai.com/v1"`
	Model        string        `envconfig:"LLM_MODEL" default:"gpt-4o-mini"`
	APIVersion   string        `envconfig:"LLM_API_VERSION" default:"2023-05-15"`
	Timeout      time.Duration `envconfig:"LLM_TIMEOUT" default:"60s"`
	SendTopK     bool          `envconfig:"LLM_SEND_TOP_K" default:"false"`
	SystemPrompt string        `envconfig:"LLM_SYSTEM_PROMPT"`
}

type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"text"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return nil, err
	}
	slog.Info("configuration loaded successfully",
		"provider", cfg.LLM.Provider,
		"flavor", cfg.LLM.Flavor,
		"model", cfg.LLM.Model,
	)
	return &cfg, nil
}
