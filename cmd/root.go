package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/grovetools/preflight/cli"
	"github.com/grovetools/preflight/git"
	"github.com/grovetools/preflight/pkg/profiling"
)

const rootLong = `Preflight runs a configurable checklist of Rust project checks
(fmt, clippy, test, check_tests, check_examples, check_benches,
unused_deps, secrets) before a commit or push.

Without an action flag every configured profile runs once. The installed
git hooks call preflight with --hook so only the profiles for that event
run. Configuration is read from ./.preflight.toml, falling back to the
global preflight.toml and then to a built-in default.`

// NewRootCmd creates the preflight command for app.
func NewRootCmd(app *App) *cobra.Command {
	cmd := cli.NewStandardCommand("preflight", "Run checks before your code takes off")
	cmd.Long = rootLong
	cmd.Args = cobra.NoArgs
	cmd.SetOut(app.Out)
	cmd.SetErr(app.Err)

	flags := cmd.Flags()
	flags.Bool("init", false, "Install git hooks for the triggers used by the active configuration")
	flags.Bool("ground", false, "Remove preflight git hooks and restore any hooks they replaced")
	flags.Bool("config", false, "Create or replace a configuration interactively")
	flags.Bool("checklist", false, "Show the active checklist")
	flags.String("hook", "", "Run only profiles triggered by this git event (commit or push)")
	flags.String("format", "table", "Checklist output format (table, json, yaml)")
	cmd.MarkFlagsMutuallyExclusive("init", "ground", "config", "checklist", "hook")

	profiler := profiling.NewCobraProfiler(app.Err)
	profiler.AddFlags(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		flags := cmd.Flags()

		switch {
		case flagSet(cmd, "init"):
			return app.install(ctx, cmd)
		case flagSet(cmd, "ground"):
			return app.uninstall(ctx, cmd)
		case flagSet(cmd, "config"):
			return app.configure(ctx, cmd)
		case flagSet(cmd, "checklist"):
			format, _ := flags.GetString("format")
			return app.checklist(cmd, format)
		}

		hook, _ := flags.GetString("hook")
		if hook == "" {
			hook = hookFromArgv0(app.Argv0)
		}
		defer profiler.Summary()
		return app.run(ctx, cmd, hook)
	}

	cmd.AddCommand(cli.NewVersionCommand("preflight"))
	cmd.AddCommand(newPathsCmd(app))
	cli.SetStyledHelp(cmd)
	return cmd
}

func flagSet(cmd *cobra.Command, name string) bool {
	v, _ := cmd.Flags().GetBool(name)
	return v
}

// hookFromArgv0 infers the trigger when preflight is invoked through a file
// named after a git hook, e.g. a pre-push symlink.
func hookFromArgv0(argv0 string) string {
	if argv0 == "" {
		return ""
	}
	trigger, _ := git.TriggerForHook(filepath.Base(argv0))
	return trigger
}
