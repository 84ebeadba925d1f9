package git

import (
	"context"
	stderrors "errors"
	"sort"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/grovetools/preflight/errors"
)

// Repository answers branch questions about the working tree at dir.
type Repository struct {
	dir string
}

// Ensure it implements the interface
var _ RepositoryProvider = (*Repository)(nil)

// NewRepository creates a Repository for dir or any of its parents.
func NewRepository(dir string) *Repository {
	return &Repository{dir: dir}
}

func (r *Repository) open() (*gogit.Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(r.dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errors.NotARepository(r.dir, err)
	}
	return repo, nil
}

// IsGitRepo checks if the directory is inside a git repository
func (r *Repository) IsGitRepo(ctx context.Context) bool {
	_, err := r.open()
	return err == nil
}

// Root returns the top-level directory of the working tree.
func (r *Repository) Root(ctx context.Context) (string, error) {
	repo, err := r.open()
	if err != nil {
		return "", err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", errors.NotARepository(r.dir, err)
	}
	return wt.Filesystem.Root(), nil
}

// CurrentBranch returns the short name of the checked out branch. A fresh
// repository without commits still reports the branch HEAD points at.
func (r *Repository) CurrentBranch(ctx context.Context) (string, error) {
	repo, err := r.open()
	if err != nil {
		return "", err
	}

	head, err := repo.Head()
	if stderrors.Is(err, plumbing.ErrReferenceNotFound) {
		ref, symErr := repo.Reference(plumbing.HEAD, false)
		if symErr == nil && ref.Type() == plumbing.SymbolicReference && ref.Target().IsBranch() {
			return ref.Target().Short(), nil
		}
	}
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeGitNotRepo, "failed to resolve HEAD").
			WithDetail("dir", r.dir)
	}

	if !head.Name().IsBranch() {
		return "", errors.DetachedHead(head.Hash().String())
	}
	return head.Name().Short(), nil
}

// ListBranches returns the local branch names, sorted.
func (r *Repository) ListBranches(ctx context.Context) ([]string, error) {
	repo, err := r.open()
	if err != nil {
		return nil, err
	}

	iter, err := repo.Branches()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeGitNotRepo, "failed to list branches")
	}
	defer iter.Close()

	var branches []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		branches = append(branches, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeGitNotRepo, "failed to list branches")
	}
	sort.Strings(branches)
	return branches, nil
}
