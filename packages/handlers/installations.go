package handlers

import (
	"context"
	"log/slog"
	"strings"

	"autofix-agent/packages/config"

	"github.com/google/go-github/github"
	"github.com/swinton/go-probot/probot"
)

func HandleInstallations(ctx *probot.Context) error {
	event := ctx.Payload.(*github.InstallationRepositoriesEvent)
	action := event.GetAction()

	slog.Info("Installation Action:", "action", action)

	switch action {
	case "added":
		return handleRepositoriesAdded(ctx, event.RepositoriesAdded)
	case "removed":
		return handleRepositoriesRemoved(event.RepositoriesRemoved)
	}

	return nil
}

func handleRepositoriesAdded(ctx *probot.Context, repos []*github.Repository) error {
	for _, repo := range repos {
		fullName := repo.GetFullName()

		parts := strings.Split(fullName, "/")
		if len(parts) != 2 {
			slog.Error("Invalid repository full name", "fullName", fullName)
			continue
		}

		owner := parts[0]
		name := parts[1]

		slog.Info("Repository added", "fullName", fullName)

		if err := addReviewLabels(ctx, owner, name); err != nil {
			slog.Error("Failed to add labels", "repo", fullName, "error", err)
			continue
		}
	}
	return nil
}

func handleRepositoriesRemoved(repos []*github.Repository) error {
	for _, repo := range repos {
		// Labels can't be cleaned up since access to the repo is removed.
		slog.Info("Repository removed", "fullName", repo.GetFullName())
	}
	return nil
}

// addReviewLabels seeds the configured review labels on a newly installed
// repository. Labels that already exist are left untouched.
func addReviewLabels(ctx *probot.Context, owner, repo string) error {
	client := ctx.GitHub
	cfg := config.GetConfig()

	for _, lc := range cfg.Labels {
		label := &github.Label{
			Name:        github.String(lc.Name),
			Color:       github.String(lc.Color),
			Description: github.String(lc.Description),
		}

		_, _, err := client.Issues.GetLabel(context.Background(), owner, repo, label.GetName())
		if err != nil {
			_, _, err := client.Issues.CreateLabel(context.Background(), owner, repo, label)
			if err != nil {
				slog.Error("Failed to create label", "label", label.GetName(), "error", err)
				continue
			}
			slog.Info("Created label", "label", label.GetName(), "repo", owner+"/"+repo)
		} else {
			slog.Info("Label already exists", "label", label.GetName(), "repo", owner+"/"+repo)
		}
	}

	return nil
}
