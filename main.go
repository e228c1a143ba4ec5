package main

import (
	"context"
	"log/slog"
	"os"

	"autofix-agent/packages/config"
	"autofix-agent/packages/configstore"
	"autofix-agent/packages/handlers"

	"github.com/joho/godotenv"
	"github.com/swinton/go-probot/probot"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		slog.Error("No .env file found")
	}

	// Load private key
	loadPrivateKey()

	// Log app ID
	appID := os.Getenv("GITHUB_APP_ID")
	slog.Info("App ID: ", "appID", appID)

	// Load configuration
	if _, err := config.LoadConfig(os.Getenv("AUTOFIX_CONFIG")); err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Connect to the dashboard's bot config database (optional)
	store, err := configstore.Connect(context.Background(), os.Getenv("BOT_CONFIG_DB_URL"))
	if err != nil {
		slog.Error("Failed to connect to bot config database", "error", err)
		os.Exit(1)
	}
	handlers.Setup(store)

	// Register event handlers
	probot.HandleEvent("pull_request", handlers.HandlePullRequest)
	probot.HandleEvent("installation_repositories", handlers.HandleInstallations)
	probot.HandleEvent("issues", handlers.HandleIssues)

	// Start the bot
	probot.Start()
}

func loadPrivateKey() {
	keyPath := os.Getenv("GITHUB_APP_PRIVATE_KEY_PATH")
	if keyPath != "" {
		keyData, err := os.ReadFile(keyPath)
		if err != nil {
			slog.Error("Failed to read private key", "error", err)
		} else {
			os.Setenv("GITHUB_APP_PRIVATE_KEY", string(keyData))
			slog.Info("Private key loaded from", "keyPath", keyPath)
		}
	}
}
