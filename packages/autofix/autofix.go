package autofix

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"autofix-agent/packages/llm"

	"github.com/google/go-github/github"
	"golang.org/x/sync/errgroup"
)

// GitAPI is the slice of the GitHub Git Data service the builder needs
type GitAPI interface {
	CreateRef(ctx context.Context, owner, repo string, ref *github.Reference) (*github.Reference, *github.Response, error)
	GetCommit(ctx context.Context, owner, repo, sha string) (*github.Commit, *github.Response, error)
	CreateBlob(ctx context.Context, owner, repo string, blob *github.Blob) (*github.Blob, *github.Response, error)
	CreateTree(ctx context.Context, owner, repo string, baseTree string, entries []github.TreeEntry) (*github.Tree, *github.Response, error)
	CreateCommit(ctx context.Context, owner, repo string, commit *github.Commit) (*github.Commit, *github.Response, error)
	UpdateRef(ctx context.Context, owner, repo string, ref *github.Reference, force bool) (*github.Reference, *github.Response, error)
}

// PullRequestsAPI is the slice of the GitHub client used to open the fix PR
type PullRequestsAPI interface {
	Create(ctx context.Context, owner, repo string, pull *github.NewPullRequest) (*github.PullRequest, *github.Response, error)
}

// Builder materializes a set of full-file replacements as a new branch,
// commit and pull request.
type Builder struct {
	Git          GitAPI
	Pulls        PullRequestsAPI
	BranchPrefix string
	// Now supplies the branch uniqueness token; defaults to time.Now
	Now func() time.Time
}

// Request carries the patches and the PR they were produced for
type Request struct {
	Owner   string
	Repo    string
	Number  int
	BaseRef string
	// BaseSha is the commit the fix branch starts from (the reviewed PR's
	// head commit under the default policy)
	BaseSha string
	Title   string
	Body    string
	Patches []llm.Patch
}

// Result describes the created branch and pull request. It is written once
// per successful run; a re-run always mints a fresh branch name.
type Result struct {
	BranchName        string
	CommitSha         string
	PullRequestURL    string
	PullRequestNumber int
}

// Create runs the Git Data sequence: branch ref, base commit lookup, one
// blob per patch, tree, commit, forced ref update, pull request. Any step
// failing aborts the attempt; already-created objects are left behind as
// harmless unreachable orphans.
func (b *Builder) Create(ctx context.Context, req Request) (*Result, error) {
	if len(req.Patches) == 0 {
		return nil, errors.New("no patches to commit")
	}

	now := b.Now
	if now == nil {
		now = time.Now
	}
	branchName := fmt.Sprintf("%spr-%d-%d", b.BranchPrefix, req.Number, now().UnixMilli())

	slog.Info("Creating auto-fix branch", "branch", branchName, "base", req.BaseSha)

	newRef := &github.Reference{
		Ref:    github.String("refs/heads/" + branchName),
		Object: &github.GitObject{SHA: github.String(req.BaseSha)},
	}
	if _, _, err := b.Git.CreateRef(ctx, req.Owner, req.Repo, newRef); err != nil {
		return nil, fmt.Errorf("failed to create branch %s: %w", branchName, err)
	}

	baseCommit, _, err := b.Git.GetCommit(ctx, req.Owner, req.Repo, req.BaseSha)
	if err != nil {
		return nil, fmt.Errorf("failed to get base commit %s: %w", req.BaseSha, err)
	}

	// Blob creations are independent, so they run concurrently; a single
	// failure aborts the whole attempt.
	entries := make([]github.TreeEntry, len(req.Patches))
	g, gctx := errgroup.WithContext(ctx)
	for i, patch := range req.Patches {
		g.Go(func() error {
			blob, _, err := b.Git.CreateBlob(gctx, req.Owner, req.Repo, &github.Blob{
				Content:  github.String(patch.PatchedContent),
				Encoding: github.String("utf-8"),
			})
			if err != nil {
				return fmt.Errorf("failed to create blob for %s: %w", patch.Filename, err)
			}
			entries[i] = github.TreeEntry{
				Path: github.String(patch.Filename),
				Mode: github.String("100644"),
				Type: github.String("blob"),
				SHA:  blob.SHA,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tree, _, err := b.Git.CreateTree(ctx, req.Owner, req.Repo, baseCommit.GetTree().GetSHA(), entries)
	if err != nil {
		return nil, fmt.Errorf("failed to create tree: %w", err)
	}

	commit, _, err := b.Git.CreateCommit(ctx, req.Owner, req.Repo, &github.Commit{
		Message: github.String(fmt.Sprintf("fix: security auto-fix for PR #%d", req.Number)),
		Tree:    &github.Tree{SHA: tree.SHA},
		Parents: []github.Commit{{SHA: github.String(req.BaseSha)}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create commit: %w", err)
	}

	// The branch was created moments ago with no history to preserve, and
	// force lets a reused ref name be moved safely.
	updatedRef := &github.Reference{
		Ref:    github.String("refs/heads/" + branchName),
		Object: &github.GitObject{SHA: commit.SHA},
	}
	if _, _, err := b.Git.UpdateRef(ctx, req.Owner, req.Repo, updatedRef, true); err != nil {
		return nil, fmt.Errorf("failed to update ref %s: %w", branchName, err)
	}

	pull, _, err := b.Pulls.Create(ctx, req.Owner, req.Repo, &github.NewPullRequest{
		Title: github.String(req.Title),
		Head:  github.String(branchName),
		Base:  github.String(req.BaseRef),
		Body:  github.String(req.Body),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pull request: %w", err)
	}

	slog.Info("Auto-fix pull request created",
		"branch", branchName,
		"commit", commit.GetSHA(),
		"prNumber", pull.GetNumber(),
		"prURL", pull.GetHTMLURL())

	return &Result{
		BranchName:        branchName,
		CommitSha:         commit.GetSHA(),
		PullRequestURL:    pull.GetHTMLURL(),
		PullRequestNumber: pull.GetNumber(),
	}, nil
}
