package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// InitGitRepo initializes a git repository in dir with one commit on main.
func InitGitRepo(t *testing.T, dir string) *gogit.Repository {
	t.Helper()

	repo, err := gogit.PlainInitWithOptions(dir, &gogit.PlainInitOptions{
		InitOptions: gogit.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName("main")},
	})
	require.NoError(t, err, "failed to init git repo")

	CreateCommit(t, repo, "README.md", "# Test Project\n")
	return repo
}

// CreateCommit writes filename into the worktree and commits it.
func CreateCommit(t *testing.T, repo *gogit.Repository, filename, content string) plumbing.Hash {
	t.Helper()

	wt, err := repo.Worktree()
	require.NoError(t, err)

	path := filepath.Join(wt.Filesystem.Root(), filename)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, err = wt.Add(filename)
	require.NoError(t, err, "failed to git add %s", filename)

	hash, err := wt.Commit("Add "+filename, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "Test User",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err, "failed to commit %s", filename)
	return hash
}

// CreateBranch creates branch at HEAD and checks it out.
func CreateBranch(t *testing.T, repo *gogit.Repository, branch string) {
	t.Helper()

	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, wt.Checkout(&gogit.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Create: true,
	}), "failed to create branch %s", branch)
}

// DetachHead checks out the HEAD commit directly.
func DetachHead(t *testing.T, repo *gogit.Repository) {
	t.Helper()

	head, err := repo.Head()
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, wt.Checkout(&gogit.CheckoutOptions{Hash: head.Hash()}))
}
