package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
bot:
  branch_prefix: "auto-fix/"
  sentinel_markers:
    - "#PR_corrigido"
  actions:
    - opened
ai:
  default_provider: gemini
  default_model: gemini-2.5-pro
  temperature: 0.2
  routing:
    - alias: sonnet-4.5
      provider: anthropic
      model: claude-sonnet-4-5
  fallbacks:
    gemini:
      - gemini-2.5-pro
pull_requests:
  base_policy: head
  title_fallback: "#PR_corrigido"
`

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "auto-fix/", cfg.Bot.BranchPrefix)
	assert.Equal(t, []string{"#PR_corrigido"}, cfg.Bot.SentinelMarkers)
	assert.Equal(t, "gemini", cfg.AI.DefaultProvider)
	assert.InDelta(t, 0.2, cfg.AI.Temperature, 0.001)
	require.Len(t, cfg.AI.Routing, 1)
	assert.Equal(t, "anthropic", cfg.AI.Routing[0].Provider)
	assert.Equal(t, []string{"gemini-2.5-pro"}, cfg.AI.Fallbacks["gemini"])
	assert.Equal(t, "head", cfg.PullRequests.BasePolicy)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
