package services

import (
	"context"
	"strings"

	"alfredoptarigan/hr-validator/internal/config"
)

// CompletionRequest is everything a completion backend needs for one call.
// The credential travels with the request so no client holds a global key.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	Credential  string
	JSONOutput  bool
	Temperature *float64
	TopP        *float64
}

// CompletionClient sends one request to a hosted model and returns the text
// of the first choice. Implementations must not retry.
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	Provider() string
}

// splitSystem separates system instructions from the conversation turns for
// backends that take the instruction out of band.
func splitSystem(messages []Message) (string, []Message) {
	var system []string
	var turns []Message
	for _, m := range messages {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		turns = append(turns, m)
	}
	return strings.Join(system, "\n\n"), turns
}

// NewCompletionClient returns the backend selected by cfg.Provider.
func NewCompletionClient(cfg config.LLMConfig) CompletionClient {
	if cfg.Provider == config.ProviderGemini {
		return NewGeminiCompletion()
	}
	return NewOpenAICompletion(cfg.OpenAIBaseURL)
}

// DefaultModelFor returns the model that overrides profile defaults. Profile
// defaults name OpenAI models, so Gemini always needs an override.
func DefaultModelFor(cfg config.LLMConfig) string {
	if cfg.Model != "" {
		return cfg.Model
	}
	if cfg.Provider == config.ProviderGemini {
		return DefaultGeminiModel
	}
	return ""
}
