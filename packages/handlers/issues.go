package handlers

import (
	"context"
	"log/slog"

	"github.com/google/go-github/github"
	"github.com/swinton/go-probot/probot"
)

func HandleIssues(ctx *probot.Context) error {
	event := ctx.Payload.(*github.IssuesEvent)
	action := event.GetAction()

	slog.Info("Issue Action:", "action", action, "issueNumber", event.GetIssue().GetNumber())

	if action != "opened" {
		slog.Info("Skipping action", "action", action)
		return nil
	}

	owner := event.GetRepo().GetOwner().GetLogin()
	repo := event.GetRepo().GetName()
	number := event.GetIssue().GetNumber()

	_, _, err := ctx.GitHub.Issues.CreateComment(context.Background(), owner, repo, number, &github.IssueComment{
		Body: github.String("Thanks for opening this issue!"),
	})
	if err != nil {
		slog.Error("Failed to post issue greeting", "repo", owner+"/"+repo, "issueNumber", number, "error", err)
		return err
	}
	return nil
}
