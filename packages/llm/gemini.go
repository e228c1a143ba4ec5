package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiProvider generates content through the Google Gemini API
type GeminiProvider struct {
	APIKey          string
	Temperature     float32
	MaxOutputTokens int32
}

// Family implements Provider
func (p *GeminiProvider) Family() string { return "gemini" }

// Generate implements Provider
func (p *GeminiProvider) Generate(ctx context.Context, model, prompt string) (string, error) {
	if p.APIKey == "" {
		return "", &FatalError{Model: model, Err: errors.New("GEMINI_API_KEY not set in environment")}
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(p.APIKey))
	if err != nil {
		return "", &FatalError{Model: model, Err: fmt.Errorf("failed to create Gemini client: %w", err)}
	}
	defer client.Close()

	m := client.GenerativeModel(model)
	m.SetTemperature(p.Temperature)
	if p.MaxOutputTokens > 0 {
		m.SetMaxOutputTokens(p.MaxOutputTokens)
	}
	// Ask for JSON directly so there is less fence noise to sanitize
	m.ResponseMIMEType = "application/json"

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", classifyProviderError(model, googleStatus(err), err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &FatalError{Model: model, Err: errors.New("no content generated")}
	}

	return fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]), nil
}

func googleStatus(err error) int {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}
