package imagegen

import (
	"fmt"
	"strings"

	"valuesnap/internal/config"
)

const (
	ProviderOpenAI = "openai"
)

// Factory creates image-generation clients with consistent logic
type Factory struct {
	OpenAIAPIKey  string
	OpenAIBaseURL string
}

func NewFactory(cfg *config.Config) *Factory {
	return &Factory{
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
	}
}

// CreateClient returns a client for the named provider. Credential checks
// happen here so a misconfigured run fails before any network call.
func (f *Factory) CreateClient(provider, model string) (Client, error) {
	switch strings.ToLower(provider) {
	case ProviderOpenAI:
		if f.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for provider %s", ProviderOpenAI)
		}
		return NewOpenAI(f.OpenAIAPIKey, f.OpenAIBaseURL, model), nil
	default:
		return nil, fmt.Errorf("unknown image provider: %s", provider)
	}
}
