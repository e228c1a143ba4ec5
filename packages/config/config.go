package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Bot          BotConfig          `yaml:"bot"`
	AI           AIConfig           `yaml:"ai"`
	PullRequests PullRequestsConfig `yaml:"pull_requests"`
	Labels       []LabelConfig      `yaml:"labels"`
}

// BotConfig identifies the bot's own artifacts so its pull requests
// never re-trigger analysis
type BotConfig struct {
	BranchPrefix        string   `yaml:"branch_prefix"`
	BranchPrefixVariant string   `yaml:"branch_prefix_variant"`
	BotLoginSuffix      string   `yaml:"bot_login_suffix"`
	SentinelMarkers     []string `yaml:"sentinel_markers"`
	Actions             []string `yaml:"actions"`
}

// AIConfig contains model routing and generation settings
type AIConfig struct {
	DefaultProvider string              `yaml:"default_provider"`
	DefaultModel    string              `yaml:"default_model"`
	Temperature     float32             `yaml:"temperature"`
	MaxOutputTokens int32               `yaml:"max_output_tokens"`
	Routing         []RouteConfig       `yaml:"routing"`
	Fallbacks       map[string][]string `yaml:"fallbacks"`
}

// RouteConfig maps one public model alias to a provider and concrete model.
// Aliases missing from the table fail closed to the default provider/model.
type RouteConfig struct {
	Alias    string `yaml:"alias"`
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
}

// PullRequestsConfig contains fix-PR configuration
type PullRequestsConfig struct {
	// BasePolicy selects the commit the fix branch starts from:
	// "head" (the reviewed change) or "base" (the target branch).
	BasePolicy    string `yaml:"base_policy"`
	TitleFallback string `yaml:"title_fallback"`
}

// LabelConfig represents a GitHub label seeded on installation
type LabelConfig struct {
	Name        string `yaml:"name"`
	Color       string `yaml:"color"`
	Description string `yaml:"description"`
}

var globalConfig *Config

// LoadConfig loads configuration from the specified file
func LoadConfig(configPath string) (*Config, error) {
	// If no path provided, use default
	if configPath == "" {
		configPath = "config/development.yaml"
	}

	// Check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	// Read the config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set global config
	globalConfig = &config

	return &config, nil
}

// GetConfig returns the global configuration instance
func GetConfig() *Config {
	if globalConfig == nil {
		// Try to load default config
		config, err := LoadConfig("")
		if err != nil {
			panic(fmt.Sprintf("Failed to load configuration: %v", err))
		}
		return config
	}
	return globalConfig
}
