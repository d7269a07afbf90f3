package gitinfo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

func initRepoWithCommit(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello\n"), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("README.md")
	require.NoError(t, err)

	sig := &object.Signature{Name: "Test Author", Email: "test@example.com", When: time.Now()}
	_, err = wt.Commit("initial commit\n\nbody text", &git.CommitOptions{Author: sig})
	require.NoError(t, err)

	return dir
}

func TestReadHeadReturnsCommitMetadata(t *testing.T) {
	dir := initRepoWithCommit(t)

	head, err := ReadHead(dir)
	require.NoError(t, err)
	require.NotEmpty(t, head.CommitHash)
	require.Equal(t, "Test Author", head.Author)
	require.Equal(t, "initial commit", head.Message)
}

func TestReadHeadNonRepositoryIsError(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadHead(dir)
	require.Error(t, err)
}

func TestFirstLineTruncatesAtNewline(t *testing.T) {
	require.Equal(t, "first", firstLine("first\nsecond\nthird"))
	require.Equal(t, "onlyline", firstLine("onlyline"))
}
