package llm

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/sozercan/taskpad/internal/config"
)

const (
	ProviderHTTP   = "http"
	ProviderOpenAI = "openai"
	ProviderAzure  = "azure"
)

// providerName normalizes cfg.Provider; an empty value selects the plain
// HTTP client.
func providerName(cfg *config.LLMConfig) string {
	name := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if name == "" {
		return ProviderHTTP
	}
	return name
}

// New builds the provider named by cfg.Provider. A blank API key yields
// ErrMissingCredential.
func New(cfg *config.LLMConfig) (Provider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingCredential
	}

	slog.Info("Creating LLM provider", "provider", cfg.Provider, "flavor", cfg.Flavor, "endpoint", cfg.APIEndpoint)
	switch providerName(cfg) {
	case ProviderHTTP:
		return NewHTTP(cfg, nil)
	case ProviderOpenAI, ProviderAzure:
		return NewOpenAI(cfg, nil)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}
