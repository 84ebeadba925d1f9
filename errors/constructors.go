package errors

import (
	"fmt"
	"os/exec"
	"strings"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *PreflightError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(path string, err error) *PreflightError {
	return Wrap(err, ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", path)).
		WithDetail("path", path)
}

// ConfigValidation creates a schema validation error
func ConfigValidation(path string, err error) *PreflightError {
	return Wrap(err, ErrCodeConfigValidation, fmt.Sprintf("configuration failed validation: %s", path)).
		WithDetail("path", path)
}

// InvalidHook reports a trigger name that has no git hook
func InvalidHook(hook string) *PreflightError {
	return New(ErrCodeHookInvalid, fmt.Sprintf("invalid hook in config: %s", hook)).
		WithDetail("hook", hook)
}

// CommandNotFound creates an error for a tool that could not be spawned
func CommandNotFound(argv []string, err error) *PreflightError {
	cmd := strings.Join(argv, " ")
	return Wrap(err, ErrCodeCommandNotFound, fmt.Sprintf("could not start: %s", cmd)).
		WithDetail("command", cmd)
}

// CommandFailed creates a command execution failure error
func CommandFailed(cmd string, err error) *PreflightError {
	pErr := Wrap(err, ErrCodeCommandFailed, fmt.Sprintf("command failed: %s", cmd)).
		WithDetail("command", cmd)

	if exitErr, ok := err.(*exec.ExitError); ok {
		pErr = pErr.WithDetail("exitCode", exitErr.ExitCode())
	}

	return pErr
}

// NotARepository reports a directory outside any git working tree
func NotARepository(dir string, err error) *PreflightError {
	return Wrap(err, ErrCodeGitNotRepo, fmt.Sprintf("not a git repository: %s", dir)).
		WithDetail("dir", dir)
}

// DetachedHead reports a HEAD that does not point at a branch
func DetachedHead(ref string) *PreflightError {
	return New(ErrCodeGitDetached, "HEAD is not on a branch").
		WithDetail("ref", ref)
}

// ChecksFailed summarises a run that ended with unrecovered failures
func ChecksFailed(failed []string) *PreflightError {
	return New(ErrCodeChecksFailed, fmt.Sprintf("preflight failed: %s", strings.Join(failed, ", "))).
		WithDetail("failed", failed)
}

// PromptCancelled wraps a dismissed interactive prompt
func PromptCancelled(title string, err error) *PreflightError {
	return Wrap(err, ErrCodePromptCancelled, fmt.Sprintf("prompt cancelled: %s", title))
}
