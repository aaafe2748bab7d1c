// Package llm provides a unified client interface for LLM providers
// including OpenAI, Anthropic (Claude), and Google Gemini. It is used to
// generate written advice for a ship build and its farming targets.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nzvengeance/aces-companion/internal/analysis"
	"github.com/nzvengeance/aces-companion/internal/farming"
	"github.com/nzvengeance/aces-companion/internal/models"
)

// Provider types
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGoogle    = "google"
)

// Model represents an available LLM model
type Model struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// BuildData is what the advisor sees about a build.
type BuildData struct {
	Loadout  models.Loadout        `json:"loadout"`
	Result   models.DamageResult   `json:"result"`
	Summary  analysis.BuildSummary `json:"summary"`
	Targets  []farming.Row         `json:"top_targets"`
	NPCCount int                   `json:"npc_count"`
}

// Client interface for LLM providers
type Client interface {
	TestConnection(ctx context.Context) error
	ListModels(ctx context.Context) ([]Model, error)
	GenerateBuildAdvice(ctx context.Context, model string, build BuildData) (string, error)
}

// NewClient factory function
func NewClient(provider, apiKey string) (Client, error) {
	switch provider {
	case ProviderOpenAI:
		return NewOpenAIClient(apiKey), nil
	case ProviderAnthropic:
		return NewAnthropicClient(apiKey), nil
	case ProviderGoogle:
		return NewGoogleClient(apiKey), nil
	default:
		return nil, errors.New("unsupported provider: " + provider)
	}
}

// DefaultModel is used when the stored config has no model.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderAnthropic:
		return "claude-3-5-haiku-20241022"
	case ProviderGoogle:
		return "gemini-1.5-flash"
	}
	return ""
}

const systemPrompt = `You are an experienced Space Aces pilot helping another player tune their ship. Using the build data provided, give advice on:
1. Laser and drone laser distribution, including unused or overfilled drone slots
2. Drone designs and formation choice for the intended targets
3. Ammunition, rockets and the damage booster
4. Which of the listed NPCs to farm and why

Keep it short and actionable without using emojis.`

func userPrompt(build BuildData) (string, error) {
	data, err := json.MarshalIndent(build, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal build data: %w", err)
	}
	return fmt.Sprintf("Build data:\n\n%s\n\nProvide build and farming advice.", string(data)), nil
}
