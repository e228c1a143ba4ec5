package llm

import (
	"context"
	"errors"
	"testing"

	"autofix-agent/packages/analysis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedProvider struct {
	family    string
	responses map[string]string
	errors    map[string]error
	calls     []string
}

func (p *scriptedProvider) Family() string { return p.family }

func (p *scriptedProvider) Generate(_ context.Context, model, _ string) (string, error) {
	p.calls = append(p.calls, model)
	if err := p.errors[model]; err != nil {
		return "", err
	}
	return p.responses[model], nil
}

func testTable() RoutingTable {
	return RoutingTable{
		Default: Route{Provider: "gemini", Model: "gemini-2.5-pro"},
		Aliases: map[string]Route{
			"sonnet-4.5": {Provider: "anthropic", Model: "claude-sonnet-4-5"},
		},
		Fallbacks: map[string][]string{
			"gemini": {"gemini-2.5-pro", "gemini-2.5-flash"},
		},
	}
}

func testInput() *analysis.Input {
	return &analysis.Input{
		Repo: "octocat/hello-world", Number: 1, Title: "Update db",
		BaseRef: "main", HeadRef: "feature", HeadSha: "head-sha",
		Files: []analysis.FileChange{{Filename: "db.ts", Status: "modified", Additions: 1}},
	}
}

func TestAnalyzeFallsBackOnQuotaError(t *testing.T) {
	provider := &scriptedProvider{
		family: "gemini",
		errors: map[string]error{
			"gemini-2.5-pro": &QuotaError{Model: "gemini-2.5-pro", Status: 429, Err: errors.New("quota exceeded")},
		},
		responses: map[string]string{
			"gemini-2.5-flash": `{"title":"#PR_corrigido","comment":"SQLi found","patches":[]}`,
		},
	}
	o := &Orchestrator{Routing: testTable(), Providers: map[string]Provider{"gemini": provider}, SentinelTitle: "#PR_corrigido"}

	result, err := o.Analyze(context.Background(), testInput(), "")
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", result.ModelUsed)
	assert.Equal(t, "SQLi found", result.Comment)
	assert.Equal(t, []string{"gemini-2.5-pro", "gemini-2.5-flash"}, provider.calls)
	assert.NotEmpty(t, result.Prompt)
}

func TestAnalyzeAbortsOnFatalError(t *testing.T) {
	provider := &scriptedProvider{
		family: "gemini",
		errors: map[string]error{
			"gemini-2.5-pro": &FatalError{Model: "gemini-2.5-pro", Err: errors.New("invalid request")},
		},
	}
	o := &Orchestrator{Routing: testTable(), Providers: map[string]Provider{"gemini": provider}}

	_, err := o.Analyze(context.Background(), testInput(), "")
	require.Error(t, err)
	assert.Equal(t, []string{"gemini-2.5-pro"}, provider.calls, "no other candidate may be tried")
}

func TestAnalyzeExhaustionAggregatesErrors(t *testing.T) {
	provider := &scriptedProvider{
		family: "gemini",
		errors: map[string]error{
			"gemini-2.5-pro":   &QuotaError{Model: "gemini-2.5-pro", Status: 429, Err: errors.New("quota exceeded")},
			"gemini-2.5-flash": &QuotaError{Model: "gemini-2.5-flash", Status: 403, Err: errors.New("rate limit reached")},
		},
	}
	o := &Orchestrator{Routing: testTable(), Providers: map[string]Provider{"gemini": provider}}

	_, err := o.Analyze(context.Background(), testInput(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini-2.5-pro")
	assert.Contains(t, err.Error(), "gemini-2.5-flash")
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Contains(t, err.Error(), "rate limit reached")
}

func TestAnalyzeRejectsNonJSONResponse(t *testing.T) {
	provider := &scriptedProvider{
		family:    "gemini",
		responses: map[string]string{"gemini-2.5-pro": "I could not produce JSON, sorry."},
	}
	o := &Orchestrator{Routing: testTable(), Providers: map[string]Provider{"gemini": provider}}

	_, err := o.Analyze(context.Background(), testInput(), "")
	require.Error(t, err)
	var fatal *FatalError
	assert.ErrorAs(t, err, &fatal)
}

func TestAnalyzeRoutesPreferredAlias(t *testing.T) {
	claude := &scriptedProvider{
		family:    "anthropic",
		responses: map[string]string{"claude-sonnet-4-5": `{"title":"t","comment":"c","patches":[]}`},
	}
	gemini := &scriptedProvider{family: "gemini"}
	o := &Orchestrator{Routing: testTable(), Providers: map[string]Provider{"gemini": gemini, "anthropic": claude}}

	result, err := o.Analyze(context.Background(), testInput(), "sonnet-4.5")
	require.NoError(t, err)
	assert.Equal(t, "claude-sonnet-4-5", result.ModelUsed)
	assert.Empty(t, gemini.calls)
}

func TestAnalyzeUnknownAliasFailsClosedToDefault(t *testing.T) {
	gemini := &scriptedProvider{
		family:    "gemini",
		responses: map[string]string{"gemini-2.5-pro": `{"title":"t","comment":"c","patches":[]}`},
	}
	o := &Orchestrator{Routing: testTable(), Providers: map[string]Provider{"gemini": gemini}}

	result, err := o.Analyze(context.Background(), testInput(), "made-up-model")
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-pro", result.ModelUsed)
}

func TestCandidatesDeduplicated(t *testing.T) {
	table := testTable()
	candidates := table.Candidates(Route{Provider: "gemini", Model: "gemini-2.5-pro"})
	assert.Equal(t, []string{"gemini-2.5-pro", "gemini-2.5-flash"}, candidates)
}
