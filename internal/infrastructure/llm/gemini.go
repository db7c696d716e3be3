package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

const (
	schedulePrompt = `You are a planning assistant. Convert the following list of medications and frequencies into a structured daily schedule. Output ONLY valid JSON in this format: [{ "time_of_day": "Morning", "medicines": ["Med A"] }]. `
	explainPrompt  = "You are a helpful, empathetic medical assistant. Your goal is to explain medical test results to patients in plain English (5th-grade reading level). Avoid scary jargon. Be reassuring but accurate."
)

// GeminiClient talks to the Gemini API for schedule and explanation text.
type GeminiClient struct {
	client *genai.Client
}

// NewGeminiClient creates a Gemini-backed client using the given API key.
func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &GeminiClient{client: client}, nil
}

func (g *GeminiClient) GenerateSchedule(ctx context.Context, medications string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(schedulePrompt+medications), nil)
	if err != nil {
		return "", fmt.Errorf("generate schedule: %w", err)
	}
	return resp.Text(), nil
}

func (g *GeminiClient) ExplainTestResult(ctx context.Context, title, result string) (string, error) {
	if title == "" {
		title = "Unknown Test"
	}
	if result == "" {
		result = "No result available"
	}
	contents := []*genai.Content{{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			genai.NewPartFromText(explainPrompt),
			genai.NewPartFromText(fmt.Sprintf("Test Name: %s, Result: %s. Explain this.", title, result)),
		},
	}}
	resp, err := g.client.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("explain test result: %w", err)
	}
	return resp.Text(), nil
}
