package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/grovetools/preflight/cli"
)

// PathsOutput lists where preflight looks for configuration.
type PathsOutput struct {
	ConfigDir    string `json:"config_dir"`
	GlobalConfig string `json:"global_config"`
	LocalConfig  string `json:"local_config"`
	Active       string `json:"active"`
	ActivePath   string `json:"active_path,omitempty"`
}

func newPathsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Print the configuration paths preflight uses",
		Long: `Print the configuration paths preflight uses.

The output is JSON:
- config_dir: directory holding the global configuration
- global_config: global preflight.toml
- local_config: .preflight.toml of the current directory
- active: which of them is in effect (local, global, file or default)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.GetOptions(cmd)
			store := app.store(opts.ConfigFile, cli.GetLogger(cmd))

			_, source, err := store.Load()
			if err != nil {
				return err
			}

			output := PathsOutput{
				ConfigDir:    filepath.Dir(store.GlobalPath()),
				GlobalConfig: store.GlobalPath(),
				LocalConfig:  store.LocalPath(),
				Active:       string(source),
				ActivePath:   store.SourcePath(source),
			}

			jsonData, err := json.MarshalIndent(output, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal paths to JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
			return nil
		},
	}

	return cmd
}
