package command

import (
	"context"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grovetools/preflight/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestBuildValidation(t *testing.T) {
	sb := NewSafeBuilder()

	_, err := sb.Build(context.Background())
	assert.Error(t, err, "empty argv")

	_, err = sb.Build(context.Background(), "")
	assert.Error(t, err, "empty command name")

	_, err = sb.Build(context.Background(), "cargo", "fmt\x00")
	assert.Error(t, err, "NUL byte")

	cmd, err := sb.Build(context.Background(), "cargo", "fmt", "--", "--check")
	require.NoError(t, err)
	assert.Equal(t, "cargo fmt -- --check", cmd.String())
}

func TestRunCapturesStreams(t *testing.T) {
	requireShell(t)

	cmd, err := NewSafeBuilder().Build(context.Background(), "sh", "-c", "echo out; echo err >&2")
	require.NoError(t, err)

	result, err := cmd.Run()
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "out\n", result.Stdout)
	assert.Equal(t, "err\n", result.Stderr)
}

func TestRunNonZeroExitIsNotAnError(t *testing.T) {
	requireShell(t)

	cmd, err := NewSafeBuilder().Build(context.Background(), "sh", "-c", "echo diff; exit 3")
	require.NoError(t, err)

	result, err := cmd.Run()
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 3, result.ExitCode)
	assert.Equal(t, "diff\n", result.Stdout)
}

func TestRunMissingBinary(t *testing.T) {
	cmd, err := NewSafeBuilder().Build(context.Background(), "preflight-no-such-tool-xyz")
	require.NoError(t, err)

	_, err = cmd.Run()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeCommandNotFound))
}

func TestRunDirAndEnv(t *testing.T) {
	requireShell(t)

	dir := t.TempDir()
	cmd, err := NewSafeBuilder().InDir(dir).Build(context.Background(), "sh", "-c", "pwd; echo $PREFLIGHT_TEST_VAR")
	require.NoError(t, err)

	result, err := cmd.WithEnv("PREFLIGHT_TEST_VAR=yolo").Run()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(result.Stdout), "\n")
	require.Len(t, lines, 2)
	resolved, _ := filepath.EvalSymlinks(dir)
	assert.Contains(t, []string{dir, resolved}, lines[0])
	assert.Equal(t, "yolo", lines[1])
}

type recordingExecutor struct {
	names []string
}

func (r *recordingExecutor) CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	r.names = append(r.names, name+" "+strings.Join(args, " "))
	return exec.CommandContext(ctx, "true")
}

func TestCustomExecutor(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true not available")
	}
	rec := &recordingExecutor{}
	cmd, err := NewSafeBuilderWithExecutor(rec).Build(context.Background(), "cargo", "test")
	require.NoError(t, err)

	result, err := cmd.Run()
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, []string{"cargo test"}, rec.names)
}
