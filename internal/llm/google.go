package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

type GoogleClient struct {
	apiKey string
}

func NewGoogleClient(apiKey string) *GoogleClient {
	return &GoogleClient{apiKey: apiKey}
}

func (c *GoogleClient) TestConnection(ctx context.Context) error {
	client, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return err
	}
	defer client.Close()

	iter := client.ListModels(ctx)
	if _, err := iter.Next(); err != nil && err != iterator.Done {
		return err
	}
	return nil
}

func (c *GoogleClient) ListModels(ctx context.Context) ([]Model, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return nil, err
	}
	defer client.Close()

	var out []Model
	iter := client.ListModels(ctx)
	for {
		m, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		if m.Name != "" {
			out = append(out, Model{ID: m.Name, Name: m.DisplayName, Description: m.Description})
		}
	}
	return out, nil
}

func (c *GoogleClient) GenerateBuildAdvice(ctx context.Context, model string, build BuildData) (string, error) {
	prompt, err := userPrompt(build)
	if err != nil {
		return "", err
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	genModel := client.GenerativeModel(strings.TrimPrefix(model, "models/"))
	genModel.SystemInstruction = genai.NewUserContent(genai.Text(systemPrompt))

	resp, err := genModel.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("google api error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("no response from google")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("empty response from google")
	}
	return sb.String(), nil
}
