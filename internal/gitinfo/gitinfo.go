// Package gitinfo provides best-effort enrichment of discovered projects with
// their current git HEAD commit. Unlike a full clone/fetch client, it only
// ever opens repositories that already exist on disk.
package gitinfo

import (
	"time"

	"github.com/go-git/go-git/v5"

	hgerrors "github.com/dialecticianai/hegel-pm-sub000/internal/foundation/errors"
)

// Head describes the current HEAD commit of a project's working copy.
type Head struct {
	CommitHash string    `json:"commit_hash"`
	Branch     string    `json:"branch,omitempty"`
	Author     string    `json:"author,omitempty"`
	Message    string    `json:"message,omitempty"`
	CommitTime time.Time `json:"commit_time"`
}

// ReadHead opens projectPath as a git repository and returns its current
// HEAD commit. Any failure (not a repository, detached worktree oddities,
// corrupted refs) is classified CategoryGit and is always non-fatal to the
// caller: discovery degrades the project's GitHead field to absent rather
// than aborting the scan.
func ReadHead(projectPath string) (*Head, error) {
	repo, err := git.PlainOpenWithOptions(projectPath, &git.PlainOpenOptions{DetectDotGit: false})
	if err != nil {
		return nil, hgerrors.WrapError(err, hgerrors.CategoryGit, "open repository").
			WithContext("path", projectPath).Build()
	}

	ref, err := repo.Head()
	if err != nil {
		return nil, hgerrors.WrapError(err, hgerrors.CategoryGit, "resolve HEAD").
			WithContext("path", projectPath).Build()
	}

	commit, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, hgerrors.WrapError(err, hgerrors.CategoryGit, "read HEAD commit").
			WithContext("path", projectPath).Build()
	}

	head := &Head{
		CommitHash: ref.Hash().String(),
		Author:     commit.Author.Name,
		Message:    firstLine(commit.Message),
		CommitTime: commit.Author.When,
	}
	if ref.Name().IsBranch() {
		head.Branch = ref.Name().Short()
	}

	return head, nil
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
