// Package llm is the boundary to the external text-generation service.
// A provider receives one prompt and returns one completion; retry policy,
// if any, belongs to the caller.
package llm

import (
	"context"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Generate sends the prompt to the model service and returns the
	// completion text verbatim. The only side effect is the network call.
	Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error)

	// Name returns the provider name (e.g., "openai", "gemini")
	Name() string
}

// GenerationRequest contains all parameters needed for one generation
type GenerationRequest struct {
	Model        string
	SystemPrompt string
	Prompt       string
}

// GenerationResponse contains the result from the LLM
type GenerationResponse struct {
	Text  string `json:"text"`
	Usage any    `json:"usage,omitempty"`
}
