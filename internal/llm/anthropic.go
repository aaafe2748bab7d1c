package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const anthropicURL = "https://api.anthropic.com/v1/messages"

type AnthropicClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewAnthropicClient(apiKey string) *AnthropicClient {
	return &AnthropicClient{
		apiKey:  apiKey,
		baseURL: anthropicURL,
		client: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

func (c *AnthropicClient) TestConnection(ctx context.Context) error {
	req := map[string]interface{}{
		"model":      DefaultModel(ProviderAnthropic),
		"max_tokens": 10,
		"messages": []map[string]interface{}{
			{"role": "user", "content": "test"},
		},
	}

	_, err := c.callAPI(ctx, req)
	return err
}

// ListModels returns known Anthropic models. There is no listing endpoint
// so this needs updating by hand.
func (c *AnthropicClient) ListModels(ctx context.Context) ([]Model, error) {
	return []Model{
		{ID: "claude-sonnet-4-5", Name: "Claude Sonnet 4.5", Description: "Balanced performance and cost"},
		{ID: "claude-3-5-haiku-20241022", Name: "Claude 3.5 Haiku", Description: "Fast and cost-effective"},
	}, nil
}

func (c *AnthropicClient) GenerateBuildAdvice(ctx context.Context, model string, build BuildData) (string, error) {
	prompt, err := userPrompt(build)
	if err != nil {
		return "", err
	}

	req := map[string]interface{}{
		"model":      model,
		"max_tokens": 1500,
		"system":     systemPrompt,
		"messages": []map[string]interface{}{
			{"role": "user", "content": prompt},
		},
	}

	resp, err := c.callAPI(ctx, req)
	if err != nil {
		return "", fmt.Errorf("anthropic api error: %w", err)
	}

	content, ok := resp["content"].([]interface{})
	if !ok || len(content) == 0 {
		return "", errors.New("no response from anthropic")
	}

	firstBlock, ok := content[0].(map[string]interface{})
	if !ok {
		return "", errors.New("unexpected response format")
	}

	text, ok := firstBlock["text"].(string)
	if !ok {
		return "", errors.New("no text in response")
	}
	return text, nil
}

func (c *AnthropicClient) callAPI(ctx context.Context, reqBody map[string]interface{}) (map[string]interface{}, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewReader(jsonData))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1MB limit
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api error (status %d): %s", resp.StatusCode, string(body))
	}

	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}
	return result, nil
}
