package llm

import (
	"context"
	"errors"
	"os"

	"google.golang.org/genai"

	"randomwalk/pkg/core/faults"
)

// GeminiProvider calls Google's Gemini models through the official GenAI SDK.
type GeminiProvider struct{}

// Ensure interface compliance
var _ Provider = (*GeminiProvider)(nil)

func (p *GeminiProvider) CheckCredentials() error {
	if os.Getenv("GEMINI_API_KEY") == "" {
		return faults.New(faults.MissingCredential, "GEMINI_API_KEY environment variable not set")
	}
	return nil
}

// Generate sends a generateContent request with the system instruction and
// the analysis temperature.
func (p *GeminiProvider) Generate(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	if err := p.CheckCredentials(); err != nil {
		return "", err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", faults.Wrap(faults.GatewayRequest, err, "failed to create GenAI client")
	}

	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(analysisTemperature)),
		ResponseMIMEType: "application/json",
	}
	if systemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		}
	}

	result, err := client.Models.GenerateContent(ctx, model, genai.Text(userPrompt), config)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", faults.Gateway(apiErr.Code, apiErr.Message)
		}
		return "", faults.Wrap(faults.GatewayRequest, err, "gemini generation failed")
	}

	return result.Text(), nil
}
