package llm

import (
	"fmt"

	"medichat/internal/chat"
)

type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderOllama Provider = "ollama"
)

// NewAdapter builds the chat adapter for the configured provider.
func NewAdapter(provider Provider, model, baseURL, apiKey string) (chat.Adapter, error) {
	switch provider {
	case ProviderOpenAI:
		return NewOpenAIAdapter(model, baseURL, apiKey)
	case ProviderOllama:
		return NewOllamaAdapter(model, baseURL)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
