package command

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/grovetools/preflight/errors"
)

// SafeBuilder builds tool invocations rooted in one working directory.
type SafeBuilder struct {
	dir      string
	executor Executor
}

// NewSafeBuilder creates a new SafeBuilder instance with a RealExecutor
func NewSafeBuilder() *SafeBuilder {
	return NewSafeBuilderWithExecutor(&RealExecutor{})
}

// NewSafeBuilderWithExecutor creates a new SafeBuilder with a custom Executor
func NewSafeBuilderWithExecutor(exec Executor) *SafeBuilder {
	return &SafeBuilder{executor: exec}
}

// InDir sets the working directory of every command built afterwards.
func (sb *SafeBuilder) InDir(dir string) *SafeBuilder {
	sb.dir = dir
	return sb
}

// Command is a validated, not yet started invocation.
type Command struct {
	ctx      context.Context
	argv     []string
	env      []string
	dir      string
	executor Executor
}

// Result is what a finished process left behind.
type Result struct {
	Success  bool
	ExitCode int
	Stdout   string
	Stderr   string
}

// Build creates a new command with validation
func (sb *SafeBuilder) Build(ctx context.Context, argv ...string) (*Command, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, fmt.Errorf("command name cannot be empty")
	}
	for _, arg := range argv {
		if strings.ContainsRune(arg, 0) {
			return nil, fmt.Errorf("argument contains NUL byte: %q", arg)
		}
	}

	return &Command{
		ctx:      ctx,
		argv:     append([]string(nil), argv...),
		dir:      sb.dir,
		executor: sb.executor,
	}, nil
}

// WithEnv adds KEY=VALUE pairs on top of the inherited environment.
func (c *Command) WithEnv(kv ...string) *Command {
	c.env = append(c.env, kv...)
	return c
}

// String renders the command line for logs.
func (c *Command) String() string {
	return strings.Join(c.argv, " ")
}

// Exec creates and returns an exec.Cmd
func (c *Command) Exec() *exec.Cmd {
	cmd := c.executor.CommandContext(c.ctx, c.argv[0], c.argv[1:]...) //nolint:gosec // argv comes from preflight configuration
	if c.dir != "" {
		cmd.Dir = c.dir
	}
	if len(c.env) > 0 {
		cmd.Env = append(os.Environ(), c.env...)
	}
	return cmd
}

// Run executes the command to completion and captures both streams.
// A non-zero exit is reported in Result, not as an error; the error is
// reserved for processes that could not be started at all.
func (c *Command) Run() (Result, error) {
	cmd := c.Exec()
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err == nil {
		result.Success = true
		return result, nil
	}

	if exitErr, ok := err.(*exec.ExitError); ok && c.ctx.Err() == nil {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	if c.ctx.Err() != nil {
		return result, errors.CommandFailed(c.String(), c.ctx.Err())
	}
	return result, errors.CommandNotFound(c.argv, err)
}
