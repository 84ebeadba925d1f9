package git

import "context"

// HookProvider defines the interface for git hook operations
type HookProvider interface {
	InstallHooks(ctx context.Context, repoPath string, triggers []string) error
	UninstallHooks(ctx context.Context, repoPath string) error
}

// RepositoryProvider defines the interface for repository queries
type RepositoryProvider interface {
	IsGitRepo(ctx context.Context) bool
	Root(ctx context.Context) (string, error)
	CurrentBranch(ctx context.Context) (string, error)
	ListBranches(ctx context.Context) ([]string, error)
}
