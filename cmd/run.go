package cmd

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/grovetools/preflight/checks"
	"github.com/grovetools/preflight/cli"
	"github.com/grovetools/preflight/engine"
	"github.com/grovetools/preflight/errors"
)

// run executes the configured profiles for hook. An empty hook runs them all.
func (a *App) run(ctx context.Context, cmd *cobra.Command, hook string) error {
	logger := cli.GetLogger(cmd)
	opts := cli.GetOptions(cmd)

	store := a.store(opts.ConfigFile, logger)
	file, source, err := store.Load()
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"source":   source,
		"profiles": len(file.Preflight),
		"hook":     hook,
	}).Debug("Configuration loaded")

	tool, err := a.toolFor(file)
	if err != nil {
		return err
	}

	pretty := a.pretty()
	pretty.Heading("🛫 Running Preflight Checks...")

	runner := checks.NewRunner(tool, pretty).WithLogger(logger.WithField("component", "checks"))
	orchestrator := engine.NewOrchestrator(runner, a.Repo, a.Prompter, pretty).
		WithLogger(logger.WithField("component", "engine"))

	report, err := orchestrator.Execute(ctx, file.Preflight, hook)
	if err != nil {
		return err
	}

	if report.Failed() {
		return errors.ChecksFailed(report.FailedChecks())
	}
	pretty.Pass("Preflight checks complete, cleared for takeoff")
	return nil
}
