package comments

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayModelName(t *testing.T) {
	tests := []struct {
		model string
		want  string
	}{
		{"gpt-5", "OpenAI GPT"},
		{"openai/o3", "OpenAI GPT"},
		{"gemini-2.5-pro", "Google Gemini"},
		{"Google-Gemini-Flash", "Google Gemini"},
		{"claude-sonnet-4-5", "Anthropic Claude"},
		{"anthropic.claude-v2", "Anthropic Claude"},
		{"sonnet-4.5", "Anthropic Claude"},
		{"llama-3-70b", "unknown model"},
		{"", "unknown model"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DisplayModelName(tt.model), tt.model)
	}
}

func TestClean(t *testing.T) {
	in := "Fixed SQL injection #PR_corrigido (link sera inserido pelo bot)\n\n\n\nUse parameterized queries."
	got := Clean(in)
	assert.NotContains(t, got, "#PR_corrigido")
	assert.NotContains(t, got, "link sera inserido")
	assert.NotContains(t, got, "\n\n\n")
	assert.Contains(t, got, "parameterized queries")
}

func TestComposedBodies(t *testing.T) {
	noFindings := NoFindings("gemini-2.5-pro")
	assert.Contains(t, noFindings, "No vulnerabilities found")
	assert.Contains(t, noFindings, "Google Gemini")

	opened := FixOpened("https://github.com/o/r/pull/2", "SQLi found in db.ts", "claude-sonnet-4-5")
	assert.Contains(t, opened, "https://github.com/o/r/pull/2")
	assert.Contains(t, opened, "SQLi found in db.ts")
	assert.Contains(t, opened, "Anthropic Claude")

	explanation := FixExplanation("https://github.com/o/r/pull/1", "SQLi found in db.ts")
	assert.Contains(t, explanation, "https://github.com/o/r/pull/1")
	assert.Contains(t, explanation, "SQLi found in db.ts")

	failed := FixFailed("gpt-5")
	assert.Contains(t, failed, "could not be created")
	assert.Contains(t, failed, "OpenAI GPT")

	assert.Contains(t, AnalysisFailed(), "could not analyze")
	assert.Contains(t, Summary(3), "3 file(s)")
}
