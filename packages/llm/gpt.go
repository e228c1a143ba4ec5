package llm

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const gptSystemPrompt = "You are a code security reviewer.\n" +
	"Respond STRICTLY with JSON in the format:\n" +
	"{ title: string, comment: string, patches: [{ filename, patchedContent }] }\n" +
	"Do not include explanations, text outside the JSON, or markdown."

// GPTProvider generates content through the OpenAI Chat Completions API
type GPTProvider struct {
	APIKey      string
	Temperature float64
}

// Family implements Provider
func (p *GPTProvider) Family() string { return "openai" }

// Generate implements Provider
func (p *GPTProvider) Generate(ctx context.Context, model, prompt string) (string, error) {
	if p.APIKey == "" {
		return "", &FatalError{Model: model, Err: errors.New("OPENAI_API_KEY not set in environment")}
	}

	client := openai.NewClient(option.WithAPIKey(p.APIKey))

	completion, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Temperature: openai.Float(p.Temperature),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(gptSystemPrompt),
			openai.UserMessage(prompt),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		return "", classifyProviderError(model, openaiStatus(err), err)
	}

	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", &FatalError{Model: model, Err: errors.New("no content generated")}
	}
	return completion.Choices[0].Message.Content, nil
}

func openaiStatus(err error) int {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
