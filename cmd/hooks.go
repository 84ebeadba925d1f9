package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grovetools/preflight/cli"
	"github.com/grovetools/preflight/errors"
	"github.com/grovetools/preflight/git"
)

func (a *App) repoRoot(ctx context.Context) (string, error) {
	if !a.Repo.IsGitRepo(ctx) {
		return "", errors.NotARepository(a.Dir, nil)
	}
	return a.Repo.Root(ctx)
}

// install writes the git hooks for every trigger the active configuration uses.
func (a *App) install(ctx context.Context, cmd *cobra.Command) error {
	logger := cli.GetLogger(cmd)
	opts := cli.GetOptions(cmd)
	pretty := a.pretty()

	root, err := a.repoRoot(ctx)
	if err != nil {
		return err
	}

	file, source, err := a.store(opts.ConfigFile, logger).Load()
	if err != nil {
		return err
	}

	triggers := file.Preflight.Triggers()
	if len(triggers) == 0 {
		pretty.WarnPretty("No profile has a run_when trigger, no hooks installed")
		return nil
	}

	if err := a.Hooks.InstallHooks(ctx, root, triggers); err != nil {
		return err
	}

	hooks := make([]string, 0, len(triggers))
	for _, trigger := range triggers {
		name, _ := git.HookName(trigger)
		hooks = append(hooks, name)
	}
	logger.WithField("source", source).WithField("hooks", hooks).Info("Hooks installed")
	pretty.Pass(fmt.Sprintf("Preflight installed: %s", strings.Join(hooks, ", ")))
	return nil
}

// uninstall removes the preflight hooks from the repository.
func (a *App) uninstall(ctx context.Context, cmd *cobra.Command) error {
	logger := cli.GetLogger(cmd)

	root, err := a.repoRoot(ctx)
	if err != nil {
		return err
	}
	if err := a.Hooks.UninstallHooks(ctx, root); err != nil {
		return err
	}

	logger.WithField("repo", root).Info("Hooks removed")
	a.pretty().Pass("Preflight grounded, hooks removed")
	return nil
}
