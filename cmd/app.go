// Package cmd wires the preflight command line onto the engine.
package cmd

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/preflight/checks"
	"github.com/grovetools/preflight/config"
	"github.com/grovetools/preflight/git"
	"github.com/grovetools/preflight/logging"
	"github.com/grovetools/preflight/prompt"
	"github.com/grovetools/preflight/util/pathutil"
)

// App holds the collaborators of one preflight invocation. Tests replace
// them with fakes; NewApp returns the real ones.
type App struct {
	Dir    string
	Out    io.Writer
	Err    io.Writer
	Argv0  string
	Binary string

	Prompter prompt.Prompter
	Repo     git.RepositoryProvider
	Hooks    git.HookProvider

	// Tool replaces the cargo toolchain when set.
	Tool checks.Tool

	// GlobalConfig replaces the global configuration path when set.
	GlobalConfig string
}

// NewApp builds the App for the current process.
func NewApp() (*App, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	binary, err := os.Executable()
	if err != nil {
		binary = "preflight"
	}
	return &App{
		Dir:      dir,
		Out:      os.Stdout,
		Err:      os.Stderr,
		Argv0:    os.Args[0],
		Binary:   binary,
		Prompter: prompt.NewHuhPrompter(),
		Repo:     git.NewRepository(dir),
		Hooks:    git.NewHookManager(binary),
	}, nil
}

func (a *App) store(configFile string, logger *logrus.Entry) *config.Store {
	store := config.NewStore(a.Dir).WithLogger(logger)
	if a.GlobalConfig != "" {
		store = store.WithGlobalPath(a.GlobalConfig)
	}
	if configFile != "" {
		if expanded, err := pathutil.Expand(configFile); err == nil {
			configFile = expanded
		}
		store = store.WithExplicitPath(configFile)
	}
	return store
}

func (a *App) pretty() *logging.PrettyLogger {
	return logging.NewPrettyLoggerWithWriter(a.Out)
}

// toolFor returns the injected tool, or the cargo toolchain with the
// configuration's [tools] overrides applied.
func (a *App) toolFor(file *config.File) (checks.Tool, error) {
	if a.Tool != nil {
		return a.Tool, nil
	}
	toolchain := checks.NewToolchain(a.Dir)
	if err := toolchain.ApplyOverrides(file.Tools); err != nil {
		return nil, err
	}
	return toolchain, nil
}
