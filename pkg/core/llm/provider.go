// Package llm sends prompt pairs to the configured model endpoint with a
// bounded retry policy. Providers return raw model text; interpretation
// happens downstream.
package llm

import (
	"context"
)

// Temperature used for every analysis call. Deterministic-leaning, not
// zero, to favor a reproducible analytical tone.
const analysisTemperature = 0.2

// Provider is the interface for all LLM providers.
type Provider interface {
	// Generate sends the instruction/query pair to the given model and
	// returns the raw output text.
	Generate(ctx context.Context, model, systemPrompt, userPrompt string) (string, error)
	// CheckCredentials fails fast with a MissingCredential fault when the
	// provider's API key is absent, before any network attempt.
	CheckCredentials() error
}
