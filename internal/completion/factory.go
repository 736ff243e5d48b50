package completion

import (
	"fmt"
	"net/http"
)

// Backend names.
const (
	BackendOllama = "ollama"
	BackendOpenAI = "openai"
)

// Params are the raw values needed to construct any Service.
// Extracted from config.Config by the caller to avoid an import cycle.
type Params struct {
	Backend    string
	Host       string
	APIKey     string
	HTTPClient *http.Client
}

// New creates the Service for p.Backend. An empty backend selects Ollama.
func New(p Params) (Service, error) {
	switch p.Backend {
	case "", BackendOllama:
		return NewOllamaClient(p.Host, p.HTTPClient)
	case BackendOpenAI:
		return NewOpenAIClient(p.Host, p.APIKey, p.HTTPClient), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (expected %s or %s)", p.Backend, BackendOllama, BackendOpenAI)
	}
}
