package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"autofix-agent/packages/analysis"
	"autofix-agent/packages/config"
)

// Result is the parsed model response plus the prompt and the model that
// actually produced it, which may differ from the preferred one after
// quota fallback. Patches stays raw until NormalizePatches runs.
type Result struct {
	Title     string     `json:"title"`
	Comment   string     `json:"comment"`
	Patches   []RawPatch `json:"patches"`
	ModelUsed string     `json:"-"`
	Prompt    string     `json:"-"`
}

// Patch is a validated full-file replacement
type Patch struct {
	Filename       string
	PatchedContent string
	Rationale      string
}

// Provider generates raw model output for a prompt. Errors are tagged as
// *QuotaError or *FatalError.
type Provider interface {
	Family() string
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// Orchestrator routes analysis prompts to an LLM provider and retries
// across the family's candidate models when one runs out of quota.
type Orchestrator struct {
	Routing       RoutingTable
	Providers     map[string]Provider
	SentinelTitle string
}

// NewOrchestrator wires the orchestrator from configuration, with provider
// credentials taken from the environment.
func NewOrchestrator(cfg *config.Config) *Orchestrator {
	return &Orchestrator{
		Routing: NewRoutingTable(cfg.AI),
		Providers: map[string]Provider{
			"gemini": &GeminiProvider{
				APIKey:          os.Getenv("GEMINI_API_KEY"),
				Temperature:     cfg.AI.Temperature,
				MaxOutputTokens: cfg.AI.MaxOutputTokens,
			},
			"anthropic": &ClaudeProvider{
				APIKey:      os.Getenv("ANTHROPIC_API_KEY"),
				Temperature: float64(cfg.AI.Temperature),
				MaxTokens:   int64(cfg.AI.MaxOutputTokens),
			},
			"openai": &GPTProvider{
				APIKey:      os.Getenv("OPENAI_API_KEY"),
				Temperature: float64(cfg.AI.Temperature),
			},
		},
		SentinelTitle: cfg.PullRequests.TitleFallback,
	}
}

// Analyze builds the review prompt, resolves the route for the preferred
// model and runs the candidate chain. Quota-class failures move on to the
// next candidate; anything else aborts immediately.
func (o *Orchestrator) Analyze(ctx context.Context, input *analysis.Input, preferredModel string) (*Result, error) {
	prompt := BuildPrompt(input, o.SentinelTitle)

	route := o.Routing.Resolve(preferredModel)
	provider, ok := o.Providers[route.Provider]
	if !ok {
		return nil, fmt.Errorf("no provider registered for %q", route.Provider)
	}

	candidates := o.Routing.Candidates(route)
	var attempts []string
	for _, model := range candidates {
		slog.Info("Requesting analysis", "provider", route.Provider, "model", model)

		raw, err := provider.Generate(ctx, model, prompt)
		if err != nil {
			var quota *QuotaError
			if errors.As(err, &quota) {
				slog.Warn("Model out of quota, trying next candidate", "model", model, "error", err)
				attempts = append(attempts, fmt.Sprintf("%s => %v", model, quota.Err))
				continue
			}
			return nil, err
		}

		clean := SanitizeModelJSON(raw)
		var parsed Result
		if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
			return nil, &FatalError{Model: model, Err: fmt.Errorf("response is not valid JSON: %w", err)}
		}

		parsed.ModelUsed = model
		parsed.Prompt = prompt
		return &parsed, nil
	}

	return nil, fmt.Errorf("all %s models failed (%s), errors: %s",
		route.Provider, strings.Join(candidates, ", "), strings.Join(attempts, " | "))
}
