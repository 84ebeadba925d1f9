package checks

import (
	"context"
	"fmt"
	"strings"

	"github.com/grovetools/preflight/command"
	"github.com/grovetools/preflight/config"
	"github.com/grovetools/preflight/errors"
)

// Result is what a tool reported for one check or fix.
type Result struct {
	Success bool
	Output  string
}

// Tool runs the external programs behind the check vocabulary.
type Tool interface {
	Check(ctx context.Context, id ID) (Result, error)
	Fix(ctx context.Context, id ID) (Result, error)
	CanFix(id ID) bool
}

// Stream selects which output stream of a tool is reported.
type Stream string

const (
	StreamStdout Stream = "stdout"
	StreamStderr Stream = "stderr"
)

// Spec describes how one check is run and fixed.
type Spec struct {
	Command []string
	Fix     []string
	FixEnv  []string
	Capture Stream
	// EchoStderr prepends stderr to the captured stdout.
	EchoStderr bool
}

// DefaultSpecs returns the cargo-based commands for each check. Secrets has
// no command: it is scanned in-process unless overridden.
func DefaultSpecs() map[ID]Spec {
	return map[ID]Spec{
		Fmt: {
			Command:    []string{"cargo", "fmt", "--", "--check"},
			Fix:        []string{"cargo", "fmt"},
			Capture:    StreamStdout,
			EchoStderr: true,
		},
		Clippy: {
			Command: []string{"cargo", "clippy", "--", "-D", "warnings"},
			Fix:     []string{"cargo", "clippy", "--fix", "--allow-dirty"},
			FixEnv:  []string{"__CARGO_FIX_YOLO=1"},
			Capture: StreamStderr,
		},
		Test:          {Command: []string{"cargo", "test"}, Capture: StreamStdout},
		CheckTests:    {Command: []string{"cargo", "check", "--tests"}, Capture: StreamStdout},
		CheckExamples: {Command: []string{"cargo", "check", "--examples"}, Capture: StreamStdout},
		CheckBenches:  {Command: []string{"cargo", "check", "--benches"}, Capture: StreamStdout},
		UnusedDeps:    {Command: []string{"cargo", "shear"}, Capture: StreamStdout},
		Secrets:       {Capture: StreamStdout},
	}
}

// SecretScanner scans a directory tree for committed credentials.
type SecretScanner interface {
	Scan(ctx context.Context, root string) (Result, error)
}

// Toolchain is the default Tool: subprocesses built through
// command.SafeBuilder plus an in-process secret scanner.
type Toolchain struct {
	dir     string
	builder *command.SafeBuilder
	specs   map[ID]Spec
	secrets SecretScanner
}

// ToolchainOption customises a Toolchain.
type ToolchainOption func(*Toolchain)

// WithExecutor swaps the process executor, mostly for tests.
func WithExecutor(exec command.Executor) ToolchainOption {
	return func(t *Toolchain) {
		t.builder = command.NewSafeBuilderWithExecutor(exec).InDir(t.dir)
	}
}

// WithSecretScanner replaces the gitleaks scanner.
func WithSecretScanner(s SecretScanner) ToolchainOption {
	return func(t *Toolchain) {
		t.secrets = s
	}
}

// NewToolchain creates a Toolchain running every command in dir.
func NewToolchain(dir string, opts ...ToolchainOption) *Toolchain {
	t := &Toolchain{
		dir:     dir,
		builder: command.NewSafeBuilder().InDir(dir),
		specs:   DefaultSpecs(),
		secrets: NewGitleaksScanner(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ApplyOverrides merges [tools.<check>] tables from the configuration.
func (t *Toolchain) ApplyOverrides(tools map[string]config.ToolConfig) error {
	for name, tc := range tools {
		ref := Parse(name)
		if !ref.Known() {
			return errors.New(errors.ErrCodeConfigValidation,
				fmt.Sprintf("tool override for unknown check %q", name)).
				WithDetail("check", name)
		}
		spec := t.specs[ref.ID]
		if len(tc.Command) > 0 {
			spec.Command = append([]string(nil), tc.Command...)
			spec.EchoStderr = false
		}
		if len(tc.Fix) > 0 {
			spec.Fix = append([]string(nil), tc.Fix...)
			spec.FixEnv = nil
		}
		if tc.Capture != "" {
			spec.Capture = Stream(tc.Capture)
		}
		t.specs[ref.ID] = spec
	}
	return nil
}

// Spec returns the effective spec for id.
func (t *Toolchain) Spec(id ID) (Spec, bool) {
	spec, ok := t.specs[id]
	return spec, ok
}

// Check runs the check command for id.
func (t *Toolchain) Check(ctx context.Context, id ID) (Result, error) {
	spec, ok := t.specs[id]
	if !ok {
		return Result{}, errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("no tool for check %q", id))
	}
	if len(spec.Command) == 0 && id == Secrets {
		return t.secrets.Scan(ctx, t.dir)
	}
	return t.run(ctx, spec.Command, nil, spec)
}

// CanFix reports whether id has a fixer.
func (t *Toolchain) CanFix(id ID) bool {
	spec, ok := t.specs[id]
	return ok && len(spec.Fix) > 0
}

// Fix runs the fixer for id. Checks without a fixer report a failed result.
func (t *Toolchain) Fix(ctx context.Context, id ID) (Result, error) {
	if !t.CanFix(id) {
		return Result{Output: fmt.Sprintf("no autofix available for %s", id)}, nil
	}
	spec := t.specs[id]
	return t.run(ctx, spec.Fix, spec.FixEnv, spec)
}

func (t *Toolchain) run(ctx context.Context, argv, env []string, spec Spec) (Result, error) {
	cmd, err := t.builder.Build(ctx, argv...)
	if err != nil {
		return Result{}, errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid tool command")
	}
	res, err := cmd.WithEnv(env...).Run()
	if err != nil {
		return Result{}, err
	}
	return Result{Success: res.Success, Output: captured(res, spec)}, nil
}

func captured(res command.Result, spec Spec) string {
	if spec.Capture == StreamStderr {
		return res.Stderr
	}
	if spec.EchoStderr && strings.TrimSpace(res.Stderr) != "" {
		return strings.TrimRight(res.Stderr, "\n") + "\n" + res.Stdout
	}
	return res.Stdout
}
