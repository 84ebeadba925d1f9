package git

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/grovetools/preflight/config"
	"github.com/grovetools/preflight/errors"
)

const hookMarker = "preflight git hook"

// backupSuffix is appended to a foreign hook moved aside by InstallHooks.
const backupSuffix = ".pre-preflight"

const hookScriptTemplate = `#!/bin/sh
# preflight git hook - {{.HookName}}
# Auto-generated by preflight --init, do not edit directly

PREFLIGHT_BIN="{{.Binary}}"

if ! command -v "$PREFLIGHT_BIN" >/dev/null 2>&1; then
    echo "preflight not found. Skipping {{.HookName}} hook."
    exit 0
fi

# Prompts need a terminal; git hooks run with stdin detached.
if (exec < /dev/tty) 2>/dev/null; then
    exec "$PREFLIGHT_BIN" --hook {{.Trigger}} < /dev/tty
fi
exec "$PREFLIGHT_BIN" --hook {{.Trigger}}
`

var hookTemplate = template.Must(template.New("hook").Parse(hookScriptTemplate))

// HookName maps a trigger to the git hook that fires it.
func HookName(trigger string) (string, error) {
	switch trigger {
	case config.TriggerCommit:
		return "pre-commit", nil
	case config.TriggerPush:
		return "pre-push", nil
	default:
		return "", errors.InvalidHook(trigger)
	}
}

// TriggerForHook is the inverse of HookName.
func TriggerForHook(hookName string) (string, bool) {
	for _, trigger := range config.Triggers {
		if name, _ := HookName(trigger); name == hookName {
			return trigger, true
		}
	}
	return "", false
}

// HookManager manages the git hooks that run preflight
type HookManager struct {
	binary string
}

// Ensure it implements the interface
var _ HookProvider = (*HookManager)(nil)

// NewHookManager creates a hook manager whose scripts exec binary.
func NewHookManager(binary string) *HookManager {
	if binary == "" {
		binary = "preflight"
	}
	return &HookManager{binary: binary}
}

// InstallHooks writes one hook script per trigger. Every trigger is checked
// before anything is written.
func (m *HookManager) InstallHooks(ctx context.Context, repoPath string, triggers []string) error {
	hookNames := make(map[string]string, len(triggers))
	for _, trigger := range triggers {
		name, err := HookName(trigger)
		if err != nil {
			return err
		}
		hookNames[trigger] = name
	}

	hooksDir := filepath.Join(repoPath, ".git", "hooks")
	if err := os.MkdirAll(hooksDir, 0755); err != nil {
		return errors.Wrap(err, errors.ErrCodeHookInstall, "create hooks directory").
			WithDetail("dir", hooksDir)
	}

	for _, trigger := range triggers {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := m.installHook(hooksDir, hookNames[trigger], trigger); err != nil {
			return errors.Wrap(err, errors.ErrCodeHookInstall, fmt.Sprintf("install %s hook", hookNames[trigger]))
		}
	}

	return nil
}

// UninstallHooks removes preflight hooks and restores any hook that was
// moved aside when they were installed.
func (m *HookManager) UninstallHooks(ctx context.Context, repoPath string) error {
	hooksDir := filepath.Join(repoPath, ".git", "hooks")

	for _, trigger := range config.Triggers {
		hookName, _ := HookName(trigger)
		hookPath := filepath.Join(hooksDir, hookName)

		if !m.IsPreflightHook(hookPath) {
			continue
		}
		if err := os.Remove(hookPath); err != nil && !os.IsNotExist(err) {
			return errors.Wrap(err, errors.ErrCodeHookInstall, fmt.Sprintf("remove %s hook", hookName))
		}

		backupPath := hookPath + backupSuffix
		if _, err := os.Stat(backupPath); err == nil {
			if err := os.Rename(backupPath, hookPath); err != nil {
				return errors.Wrap(err, errors.ErrCodeHookInstall, fmt.Sprintf("restore %s hook", hookName))
			}
		}
	}

	return nil
}

// installHook installs a single git hook
func (m *HookManager) installHook(hooksDir, hookName, trigger string) error {
	hookPath := filepath.Join(hooksDir, hookName)

	if _, err := os.Stat(hookPath); err == nil && !m.IsPreflightHook(hookPath) {
		if err := os.Rename(hookPath, hookPath+backupSuffix); err != nil {
			return fmt.Errorf("backup existing hook: %w", err)
		}
	}

	var buf bytes.Buffer
	data := struct {
		HookName string
		Binary   string
		Trigger  string
	}{
		HookName: hookName,
		Binary:   m.binary,
		Trigger:  trigger,
	}
	if err := hookTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("execute template: %w", err)
	}

	// #nosec G306 - Git hooks need to be executable
	if err := os.WriteFile(hookPath, buf.Bytes(), 0755); err != nil {
		return fmt.Errorf("write hook file: %w", err)
	}

	return nil
}

// IsPreflightHook checks if a hook file was written by preflight
func (m *HookManager) IsPreflightHook(hookPath string) bool {
	content, err := os.ReadFile(hookPath)
	if err != nil {
		return false
	}
	return bytes.Contains(content, []byte(hookMarker))
}
