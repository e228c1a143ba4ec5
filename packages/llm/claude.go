package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const claudeSystemPrompt = "You are a code security reviewer.\n" +
	"Respond STRICTLY with JSON in the format:\n" +
	"{ title: string, comment: string, patches: [{ filename, patchedContent }] }\n" +
	"Do not include explanations, text outside the JSON, or markdown."

// ClaudeProvider generates content through the Anthropic Messages API
type ClaudeProvider struct {
	APIKey      string
	Temperature float64
	MaxTokens   int64
}

// Family implements Provider
func (p *ClaudeProvider) Family() string { return "anthropic" }

// Generate implements Provider
func (p *ClaudeProvider) Generate(ctx context.Context, model, prompt string) (string, error) {
	if p.APIKey == "" {
		return "", &FatalError{Model: model, Err: errors.New("ANTHROPIC_API_KEY not set in environment")}
	}

	client := anthropic.NewClient(option.WithAPIKey(p.APIKey))

	maxTokens := p.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	message, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(p.Temperature),
		System:      []anthropic.TextBlockParam{{Text: claudeSystemPrompt}},
		Messages: []anthropic.MessageParam{{
			Role:    anthropic.MessageParamRoleUser,
			Content: []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(prompt)},
		}},
	})
	if err != nil {
		return "", classifyProviderError(model, anthropicStatus(err), err)
	}

	var text strings.Builder
	for _, block := range message.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(tb.Text)
		}
	}
	if text.Len() == 0 {
		return "", &FatalError{Model: model, Err: errors.New("no content generated")}
	}
	return text.String(), nil
}

func anthropicStatus(err error) int {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
