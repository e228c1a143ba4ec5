package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/go-github/github"
	"golang.org/x/sync/errgroup"
)

// FileChange is one changed file in the pull request. Content is nil when
// the file was removed or its content could not be fetched; consumers must
// treat nil as "unavailable", not as an empty file.
type FileChange struct {
	Filename  string
	Status    string
	Additions int
	Deletions int
	Patch     string
	Content   *string
}

// Input is the aggregate handed to the LLM orchestrator. Files preserves
// the order of the file-listing call.
type Input struct {
	Repo    string
	Number  int
	Title   string
	BaseRef string
	HeadRef string
	HeadSha string
	Files   []FileChange
}

// Request identifies the pull request to build an Input for
type Request struct {
	Owner   string
	Repo    string
	Number  int
	Title   string
	BaseRef string
	HeadRef string
	HeadSha string
}

// PullRequestsAPI is the slice of the GitHub client used to list PR files
type PullRequestsAPI interface {
	ListFiles(ctx context.Context, owner, repo string, number int, opt *github.ListOptions) ([]*github.CommitFile, *github.Response, error)
}

// RepositoriesAPI is the slice of the GitHub client used to read file content
type RepositoriesAPI interface {
	GetContents(ctx context.Context, owner, repo, path string, opt *github.RepositoryContentGetOptions) (*github.RepositoryContent, []*github.RepositoryContent, *github.Response, error)
}

// Builder assembles the analysis input from the hosting API
type Builder struct {
	Pulls PullRequestsAPI
	Repos RepositoriesAPI
}

// Build lists the changed files and fetches content for every non-removed
// file at the head commit. Content fetches run concurrently; a failed fetch
// degrades that one file to nil content instead of aborting the build.
func (b *Builder) Build(ctx context.Context, req Request) (*Input, error) {
	files, _, err := b.Pulls.ListFiles(ctx, req.Owner, req.Repo, req.Number, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list pull request files: %w", err)
	}

	ref := req.HeadSha
	if ref == "" {
		ref = req.HeadRef
	}

	changes := make([]FileChange, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, file := range files {
		changes[i] = FileChange{
			Filename:  file.GetFilename(),
			Status:    file.GetStatus(),
			Additions: file.GetAdditions(),
			Deletions: file.GetDeletions(),
			Patch:     file.GetPatch(),
		}

		if file.GetStatus() == "removed" || file.GetFilename() == "" {
			continue
		}

		path := file.GetFilename()
		g.Go(func() error {
			changes[i].Content = b.fetchContent(gctx, req.Owner, req.Repo, path, ref)
			return nil
		})
	}
	// Every goroutine returns nil; Wait is only the join point.
	_ = g.Wait()

	return &Input{
		Repo:    req.Owner + "/" + req.Repo,
		Number:  req.Number,
		Title:   req.Title,
		BaseRef: req.BaseRef,
		HeadRef: req.HeadRef,
		HeadSha: req.HeadSha,
		Files:   changes,
	}, nil
}

// fetchContent reads one file at the given ref. Directory listings,
// non-file payloads and decode failures all collapse to nil.
func (b *Builder) fetchContent(ctx context.Context, owner, repo, path, ref string) *string {
	file, _, _, err := b.Repos.GetContents(ctx, owner, repo, path, &github.RepositoryContentGetOptions{Ref: ref})
	if err != nil {
		slog.Warn("Could not fetch file content", "path", path, "ref", ref, "error", err)
		return nil
	}
	if file == nil || file.GetType() != "file" {
		// Path resolved to a directory or another non-file payload
		return nil
	}

	content, err := file.GetContent()
	if err != nil {
		slog.Warn("Could not decode file content", "path", path, "error", err)
		return nil
	}
	return &content
}
