package cmd

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/grovetools/preflight/checks"
	"github.com/grovetools/preflight/cli"
	"github.com/grovetools/preflight/config"
	"github.com/grovetools/preflight/prompt"
)

// configure walks through the configuration wizard and saves the result,
// replacing the profiles of the chosen scope. [tools] and extension tables
// already in that file are kept.
func (a *App) configure(ctx context.Context, cmd *cobra.Command) error {
	logger := cli.GetLogger(cmd)
	store := a.store("", logger)

	scopeName, err := a.Prompter.Select(ctx, "Do you want to make a global or local config?",
		[]string{string(config.ScopeGlobal), string(config.ScopeLocal)})
	if err != nil {
		return err
	}
	scope := config.Scope(scopeName)

	complete := a.branchCompleter(ctx, logger)

	var profiles config.ProfileSet
	for {
		profile, err := a.askProfile(ctx, complete)
		if err != nil {
			return err
		}
		profiles = append(profiles, profile)

		more, err := a.Prompter.Confirm(ctx, "Do you want to add another configuration?",
			"Choose 'yes' to create another configuration.")
		if err != nil {
			return err
		}
		if !more {
			break
		}
	}

	file, err := store.LoadScope(scope)
	if err != nil {
		logger.WithError(err).Warn("Existing configuration unreadable, replacing it")
		file = nil
	}
	if file == nil {
		file = &config.File{}
	}
	file.Preflight = profiles

	path, err := store.Save(file, scope)
	if err != nil {
		return err
	}
	a.pretty().Pass(fmt.Sprintf("Saved %s configuration to %s", scope, path))
	return nil
}

func (a *App) askProfile(ctx context.Context, complete prompt.Completer) (config.Profile, error) {
	var profile config.Profile
	var err error

	profile.Checks, err = a.Prompter.MultiSelect(ctx, "Select checks to run:", checks.Names(), true)
	if err != nil {
		return profile, err
	}

	profile.RunWhen, err = a.Prompter.MultiSelect(ctx, "Select when to run checks:", config.Triggers, false)
	if err != nil {
		return profile, err
	}

	branches, err := a.Prompter.Input(ctx, "Choose branches to run checks on (space separated list):",
		"Leave blank to run on any branch", complete)
	if err != nil {
		return profile, err
	}
	profile.Branches = prompt.ParseList(branches)

	profile.Autofix, err = a.Prompter.Confirm(ctx, "Enable autofix functionality?",
		"Where possible, this will enable you to automatically apply suggestions")
	if err != nil {
		return profile, err
	}

	profile.Override, err = a.Prompter.Confirm(ctx, "Enable override functionality?",
		"This will allow you to override Preflight on failed checks")
	if err != nil {
		return profile, err
	}

	if profile.RunWhen == nil {
		profile.RunWhen = []string{}
	}
	return profile, nil
}

// branchCompleter suggests the local branches of the current repository.
// Outside a repository there is nothing to suggest.
func (a *App) branchCompleter(ctx context.Context, logger *logrus.Entry) prompt.Completer {
	if !a.Repo.IsGitRepo(ctx) {
		return nil
	}
	branches, err := a.Repo.ListBranches(ctx)
	if err != nil {
		logger.WithError(err).Debug("Branch suggestions unavailable")
		return nil
	}
	return prompt.NewBranchCompleter(branches).Complete
}
