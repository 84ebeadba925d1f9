package cmd

import (
	"github.com/spf13/cobra"

	"github.com/grovetools/preflight/cli"
	"github.com/grovetools/preflight/tui/checklist"
)

// checklist prints the active profiles. --json wins over --format.
func (a *App) checklist(cmd *cobra.Command, format string) error {
	logger := cli.GetLogger(cmd)
	opts := cli.GetOptions(cmd)

	if opts.JSONOutput {
		format = string(checklist.FormatJSON)
	}
	f, err := checklist.ParseFormat(format)
	if err != nil {
		return err
	}

	store := a.store(opts.ConfigFile, logger)
	file, source, err := store.Load()
	if err != nil {
		return err
	}

	doc := checklist.NewDocument(file, source, store.SourcePath(source))
	return checklist.NewRenderer(a.Out).Render(doc, f)
}
