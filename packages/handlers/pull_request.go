package handlers

import (
	"context"
	"log/slog"
	"slices"

	"autofix-agent/packages/analysis"
	"autofix-agent/packages/autofix"
	"autofix-agent/packages/classifier"
	"autofix-agent/packages/comments"
	"autofix-agent/packages/config"
	"autofix-agent/packages/llm"

	"github.com/google/go-github/github"
	"github.com/swinton/go-probot/probot"
)

// Analyzer asks a language model for vulnerabilities in a pull request
type Analyzer interface {
	Analyze(ctx context.Context, input *analysis.Input, preferredModel string) (*llm.Result, error)
}

// FixBuilder turns patches into a branch, commit and pull request
type FixBuilder interface {
	Create(ctx context.Context, req autofix.Request) (*autofix.Result, error)
}

// IssuesAPI is the slice of the GitHub client used to post comments
type IssuesAPI interface {
	CreateComment(ctx context.Context, owner, repo string, number int, comment *github.IssueComment) (*github.IssueComment, *github.Response, error)
}

// ModelPreferences resolves the model list an installation configured
type ModelPreferences interface {
	PreferredModels(ctx context.Context, installationID int64) ([]string, error)
}

// Pipeline is the full review flow for one pull request event: classify,
// build the analysis input, run the model, and either comment or open a
// fix PR. All collaborators are interfaces so tests drive the whole flow
// with fakes.
type Pipeline struct {
	Rules         classifier.Rules
	Actions       []string
	BasePolicy    string
	TitleFallback string

	Inputs   *analysis.Builder
	Analyzer Analyzer
	Fixes    FixBuilder
	Issues   IssuesAPI
	Prefs    ModelPreferences
}

// Handle processes one pull request event end to end. Analysis and fix
// failures are reported as comments on the original PR and swallowed, so
// the webhook delivery is never retried for a model outage; only comment
// posting on an otherwise clean run surfaces an error.
func (p *Pipeline) Handle(ctx context.Context, event *github.PullRequestEvent) error {
	action := event.GetAction()
	if !slices.Contains(p.Actions, action) {
		slog.Info("Skipping action", "action", action)
		return nil
	}

	pr := event.GetPullRequest()
	owner := event.GetRepo().GetOwner().GetLogin()
	repo := event.GetRepo().GetName()
	number := pr.GetNumber()

	decision := classifier.Classify(classifier.NewActorSignal(event), p.Rules)
	if decision.Ignore {
		slog.Info("Ignoring bot-originated pull request",
			"repo", owner+"/"+repo,
			"prNumber", number,
			"reasons", decision.Reasons)
		return nil
	}

	slog.Info("Analyzing pull request", "repo", owner+"/"+repo, "prNumber", number, "action", action)

	input, err := p.Inputs.Build(ctx, analysis.Request{
		Owner:   owner,
		Repo:    repo,
		Number:  number,
		Title:   pr.GetTitle(),
		BaseRef: pr.GetBase().GetRef(),
		HeadRef: pr.GetHead().GetRef(),
		HeadSha: pr.GetHead().GetSHA(),
	})
	if err != nil {
		slog.Error("Failed to build analysis input", "prNumber", number, "error", err)
		p.comment(ctx, owner, repo, number, comments.AnalysisFailed())
		return nil
	}

	result, err := p.Analyzer.Analyze(ctx, input, p.preferredModel(ctx, event))
	if err != nil {
		slog.Error("Analysis failed", "prNumber", number, "error", err)
		p.comment(ctx, owner, repo, number, comments.AnalysisFailed())
		return nil
	}

	patches := llm.NormalizePatches(result.Patches, input)
	if len(patches) == 0 {
		slog.Info("No vulnerabilities found", "prNumber", number, "model", result.ModelUsed)
		return p.commentErr(ctx, owner, repo, number, comments.NoFindings(result.ModelUsed))
	}

	slog.Info("Vulnerabilities found", "prNumber", number, "patches", len(patches), "model", result.ModelUsed)

	explanation := result.Comment
	if explanation == "" {
		explanation = comments.Summary(len(patches))
	}
	title := result.Title
	if title == "" {
		title = p.TitleFallback
	}

	fix, err := p.Fixes.Create(ctx, autofix.Request{
		Owner:   owner,
		Repo:    repo,
		Number:  number,
		BaseRef: pr.GetBase().GetRef(),
		BaseSha: p.baseSha(pr),
		Title:   title,
		Body:    comments.FixExplanation(pr.GetHTMLURL(), explanation),
		Patches: patches,
	})
	if err != nil {
		slog.Error("Failed to create fix pull request", "prNumber", number, "error", err)
		return p.commentErr(ctx, owner, repo, number, comments.FixFailed(result.ModelUsed))
	}

	slog.Info("Fix pull request created",
		"prNumber", number,
		"fixPRNumber", fix.PullRequestNumber,
		"branch", fix.BranchName)

	p.comment(ctx, owner, repo, fix.PullRequestNumber, comments.FixExplanation(pr.GetHTMLURL(), explanation))
	return p.commentErr(ctx, owner, repo, number, comments.FixOpened(fix.PullRequestURL, explanation, result.ModelUsed))
}

// baseSha selects the commit the fix branch starts from. Branching from the
// head commit keeps the fix reviewable as a delta on top of the change
// being reviewed.
func (p *Pipeline) baseSha(pr *github.PullRequest) string {
	if p.BasePolicy == "base" {
		return pr.GetBase().GetSHA()
	}
	return pr.GetHead().GetSHA()
}

// preferredModel returns the installation's first configured model, or the
// empty string when nothing is configured or the lookup fails.
func (p *Pipeline) preferredModel(ctx context.Context, event *github.PullRequestEvent) string {
	if p.Prefs == nil {
		return ""
	}
	models, err := p.Prefs.PreferredModels(ctx, event.GetInstallation().GetID())
	if err != nil {
		slog.Error("Failed to load model preferences", "installationID", event.GetInstallation().GetID(), "error", err)
		return ""
	}
	if len(models) == 0 {
		return ""
	}
	return models[0]
}

func (p *Pipeline) comment(ctx context.Context, owner, repo string, number int, body string) {
	if err := p.commentErr(ctx, owner, repo, number, body); err != nil {
		slog.Error("Failed to post comment", "repo", owner+"/"+repo, "number", number, "error", err)
	}
}

func (p *Pipeline) commentErr(ctx context.Context, owner, repo string, number int, body string) error {
	_, _, err := p.Issues.CreateComment(ctx, owner, repo, number, &github.IssueComment{
		Body: github.String(body),
	})
	return err
}

var modelPrefs ModelPreferences

// Setup stores process-wide handler dependencies that are not derivable
// from the webhook context.
func Setup(prefs ModelPreferences) {
	modelPrefs = prefs
}

// HandlePullRequest adapts a webhook delivery to the pipeline
func HandlePullRequest(ctx *probot.Context) error {
	event := ctx.Payload.(*github.PullRequestEvent)
	return newPipeline(ctx.GitHub).Handle(context.Background(), event)
}

func newPipeline(client *github.Client) *Pipeline {
	cfg := config.GetConfig()
	return &Pipeline{
		Rules: classifier.Rules{
			BranchPrefix:        cfg.Bot.BranchPrefix,
			BranchPrefixVariant: cfg.Bot.BranchPrefixVariant,
			BotLoginSuffix:      cfg.Bot.BotLoginSuffix,
			SentinelMarkers:     cfg.Bot.SentinelMarkers,
		},
		Actions:       cfg.Bot.Actions,
		BasePolicy:    cfg.PullRequests.BasePolicy,
		TitleFallback: cfg.PullRequests.TitleFallback,
		Inputs: &analysis.Builder{
			Pulls: client.PullRequests,
			Repos: client.Repositories,
		},
		Analyzer: llm.NewOrchestrator(cfg),
		Fixes: &autofix.Builder{
			Git:          client.Git,
			Pulls:        client.PullRequests,
			BranchPrefix: cfg.Bot.BranchPrefix,
		},
		Issues: client.Issues,
		Prefs:  modelPrefs,
	}
}
