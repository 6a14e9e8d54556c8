package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"randomwalk/pkg/core/faults"
)

const deepSeekEndpoint = "https://api.deepseek.com/chat/completions"

// DeepSeekProvider calls the DeepSeek chat-completions API directly.
type DeepSeekProvider struct {
	client *http.Client
}

var _ Provider = (*DeepSeekProvider)(nil)

func NewDeepSeekProvider() *DeepSeekProvider {
	return &DeepSeekProvider{client: &http.Client{Timeout: 120 * time.Second}}
}

type deepSeekMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type deepSeekRequest struct {
	Model       string            `json:"model"`
	Messages    []deepSeekMessage `json:"messages"`
	MaxTokens   int               `json:"max_tokens"`
	Temperature float64           `json:"temperature"`
	Stream      bool              `json:"stream"`
}

type deepSeekResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (p *DeepSeekProvider) CheckCredentials() error {
	if os.Getenv("DEEPSEEK_API_KEY") == "" {
		return faults.New(faults.MissingCredential, "DEEPSEEK_API_KEY environment variable not set")
	}
	return nil
}

func (p *DeepSeekProvider) Generate(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	if err := p.CheckCredentials(); err != nil {
		return "", err
	}

	reqBody := deepSeekRequest{
		Model: model,
		Messages: []deepSeekMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens:   4096,
		Temperature: analysisTemperature,
		Stream:      false,
	}

	jsonBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal deepseek request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, deepSeekEndpoint, bytes.NewBuffer(jsonBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create deepseek request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+os.Getenv("DEEPSEEK_API_KEY"))

	client := p.client
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return "", faults.Wrap(faults.GatewayRequest, err, "deepseek call failed")
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", faults.Wrap(faults.GatewayRequest, err, "failed to read deepseek response")
	}

	if res.StatusCode != http.StatusOK {
		return "", faults.Gateway(res.StatusCode, string(body))
	}

	var response deepSeekResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", faults.Wrap(faults.GatewayRequest, err, "failed to decode deepseek response")
	}
	if len(response.Choices) == 0 {
		return "", faults.New(faults.GatewayRequest, "deepseek response contained no choices")
	}

	return response.Choices[0].Message.Content, nil
}
