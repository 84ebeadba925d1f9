package checks

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/preflight/config"
	"github.com/grovetools/preflight/errors"
	"github.com/grovetools/preflight/logging"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		want  ID
		known bool
	}{
		{"fmt", Fmt, true},
		{"clippy", Clippy, true},
		{"test", Test, true},
		{"check_tests", CheckTests, true},
		{"check_examples", CheckExamples, true},
		{"check_benches", CheckBenches, true},
		{"unused_deps", UnusedDeps, true},
		{"secrets", Secrets, true},
		{" fmt ", Fmt, true},
		{"Fmt", Unknown, false},
		{"lint", Unknown, false},
		{"", Unknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := Parse(tt.name)
			assert.Equal(t, tt.want, ref.ID)
			assert.Equal(t, tt.known, ref.Known())
			if !tt.known {
				assert.Equal(t, tt.name, ref.String())
			}
		})
	}
}

func TestVocabularyRoundTrip(t *testing.T) {
	names := Names()
	require.Len(t, names, 8)
	for _, id := range Vocabulary() {
		assert.Equal(t, id, Parse(id.String()).ID)
		assert.NotEqual(t, "Unknown", id.Label())
	}
}

func TestOutcomeSummary(t *testing.T) {
	assert.Equal(t, "Formatting preflight check passed", Pass(Parse("fmt")).Summary())
	assert.Equal(t, "Clippy preflight check failed", Fail(Parse("clippy"), "warn").Summary())
	assert.Contains(t, Invalid("lint").Summary(), `"lint"`)

	cancelled := OverrideCancelled(Fail(Parse("test"), "boom"))
	assert.Equal(t, ReasonOverrideCancelled, cancelled.Reason)
	assert.Equal(t, "boom", cancelled.Output)
	assert.Equal(t, "test", cancelled.Name())
}

// fakeTool scripts results per check id.
type fakeTool struct {
	results map[ID]Result
	fixes   map[ID]Result
	errs    map[ID]error
	ran     []ID
	fixed   []ID
}

func (f *fakeTool) Check(_ context.Context, id ID) (Result, error) {
	f.ran = append(f.ran, id)
	if err := f.errs[id]; err != nil {
		return Result{}, err
	}
	if res, ok := f.results[id]; ok {
		return res, nil
	}
	return Result{Success: true}, nil
}

func (f *fakeTool) Fix(_ context.Context, id ID) (Result, error) {
	f.fixed = append(f.fixed, id)
	return f.fixes[id], nil
}

func (f *fakeTool) CanFix(id ID) bool {
	_, ok := f.fixes[id]
	return ok
}

func newTestRunner(tool Tool) (*Runner, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	r := NewRunner(tool, logging.NewPrettyLoggerWithWriter(&buf)).
		WithLogger(logrus.NewEntry(logger))
	return r, &buf
}

func TestRunnerRun(t *testing.T) {
	tool := &fakeTool{results: map[ID]Result{
		Clippy: {Output: "warning: unused variable"},
	}}
	r, out := newTestRunner(tool)
	ctx := context.Background()

	res, err := r.Run(ctx, "fmt")
	require.NoError(t, err)
	assert.True(t, res.Passed())

	res, err = r.Run(ctx, "clippy")
	require.NoError(t, err)
	assert.False(t, res.Passed())
	assert.Equal(t, ReasonCheck, res.Reason)
	assert.Equal(t, "warning: unused variable", res.Output)

	text := out.String()
	assert.Contains(t, text, "[√] Formatting preflight check passed")
	assert.Contains(t, text, "[x] Clippy preflight check failed")
	assert.Contains(t, text, "warning: unused variable")
	assert.Less(t, strings.Index(text, "Formatting"), strings.Index(text, "Clippy"))
}

func TestRunnerRunUnknownDoesNotSpawn(t *testing.T) {
	tool := &fakeTool{}
	r, _ := newTestRunner(tool)

	res, err := r.Run(context.Background(), "lint")
	require.NoError(t, err)
	assert.Equal(t, ReasonInvalidCheck, res.Reason)
	assert.Equal(t, "lint", res.Output)
	assert.Empty(t, tool.ran)
}

func TestRunnerRunTransportError(t *testing.T) {
	tool := &fakeTool{errs: map[ID]error{
		Test: errors.CommandNotFound([]string{"cargo", "test"}, exec.ErrNotFound),
	}}
	r, _ := newTestRunner(tool)

	_, err := r.Run(context.Background(), "test")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeCommandNotFound))
}

func TestRunSequence(t *testing.T) {
	ctx := context.Background()

	t.Run("all pass", func(t *testing.T) {
		tool := &fakeTool{}
		r, _ := newTestRunner(tool)
		res, reached, err := r.RunSequence(ctx, []string{"fmt", "clippy", "test"}, 0)
		require.NoError(t, err)
		assert.True(t, res.Passed())
		assert.Equal(t, 3, reached)
		assert.Equal(t, []ID{Fmt, Clippy, Test}, tool.ran)
	})

	t.Run("fail fast", func(t *testing.T) {
		tool := &fakeTool{results: map[ID]Result{Clippy: {Output: "x"}}}
		r, _ := newTestRunner(tool)
		res, reached, err := r.RunSequence(ctx, []string{"fmt", "clippy", "test"}, 0)
		require.NoError(t, err)
		assert.False(t, res.Passed())
		assert.Equal(t, 1, reached)
		assert.Equal(t, []ID{Fmt, Clippy}, tool.ran)
	})

	t.Run("start index skips earlier checks", func(t *testing.T) {
		tool := &fakeTool{results: map[ID]Result{Fmt: {Output: "x"}}}
		r, _ := newTestRunner(tool)
		res, reached, err := r.RunSequence(ctx, []string{"fmt", "clippy", "test"}, 1)
		require.NoError(t, err)
		assert.True(t, res.Passed())
		assert.Equal(t, 3, reached)
		assert.Equal(t, []ID{Clippy, Test}, tool.ran)
	})

	t.Run("start past end", func(t *testing.T) {
		tool := &fakeTool{}
		r, _ := newTestRunner(tool)
		res, reached, err := r.RunSequence(ctx, []string{"fmt"}, 5)
		require.NoError(t, err)
		assert.True(t, res.Passed())
		assert.Equal(t, 1, reached)
		assert.Empty(t, tool.ran)
	})

	t.Run("invalid check stops the sequence", func(t *testing.T) {
		tool := &fakeTool{}
		r, _ := newTestRunner(tool)
		res, reached, err := r.RunSequence(ctx, []string{"fmt", "bogus", "test"}, 0)
		require.NoError(t, err)
		assert.Equal(t, ReasonInvalidCheck, res.Reason)
		assert.Equal(t, 1, reached)
		assert.Equal(t, []ID{Fmt}, tool.ran)
	})
}

func TestRunnerFix(t *testing.T) {
	ctx := context.Background()
	tool := &fakeTool{fixes: map[ID]Result{
		Fmt:    {Success: true},
		Clippy: {Output: "cannot fix"},
	}}
	r, out := newTestRunner(tool)

	res, err := r.Fix(ctx, "fmt")
	require.NoError(t, err)
	assert.True(t, res.Passed())

	res, err = r.Fix(ctx, "clippy")
	require.NoError(t, err)
	assert.Equal(t, ReasonCheck, res.Reason)
	assert.Equal(t, "cannot fix", res.Output)

	res, err = r.Fix(ctx, "test")
	require.NoError(t, err)
	assert.Equal(t, ReasonInvalidCheck, res.Reason)
	assert.Contains(t, res.Output, "no autofix")

	assert.Equal(t, []ID{Fmt, Clippy}, tool.fixed)
	assert.Contains(t, out.String(), "Formatting autofix applied")
	assert.Contains(t, out.String(), "cannot fix")
}

// scriptExecutor maps an argv line to a shell snippet.
type scriptExecutor struct {
	scripts map[string]string
	calls   []string
}

func (s *scriptExecutor) CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	line := strings.TrimSpace(name + " " + strings.Join(args, " "))
	s.calls = append(s.calls, line)
	script, ok := s.scripts[line]
	if !ok {
		script = "exit 0"
	}
	return exec.CommandContext(ctx, "sh", "-c", script)
}

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestToolchainCapture(t *testing.T) {
	requireShell(t)
	ex := &scriptExecutor{scripts: map[string]string{
		"cargo fmt -- --check":             "echo 'Diff in main.rs'; echo 'warning: edition' >&2; exit 1",
		"cargo clippy -- -D warnings":      "echo 'ignored'; echo 'error: unused import' >&2; exit 101",
		"cargo check --tests":              "exit 0",
		"cargo clippy --fix --allow-dirty": "test \"$__CARGO_FIX_YOLO\" = 1",
	}}
	tc := NewToolchain(t.TempDir(), WithExecutor(ex))
	ctx := context.Background()

	res, err := tc.Check(ctx, Fmt)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "warning: edition\nDiff in main.rs\n", res.Output)

	res, err = tc.Check(ctx, Clippy)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "error: unused import\n", res.Output)

	res, err = tc.Check(ctx, CheckTests)
	require.NoError(t, err)
	assert.True(t, res.Success)

	assert.True(t, tc.CanFix(Clippy))
	res, err = tc.Fix(ctx, Clippy)
	require.NoError(t, err)
	assert.True(t, res.Success, "fix should see __CARGO_FIX_YOLO")

	assert.False(t, tc.CanFix(Test))
	res, err = tc.Fix(ctx, Test)
	require.NoError(t, err)
	assert.False(t, res.Success)
}

func TestToolchainOverrides(t *testing.T) {
	requireShell(t)
	ex := &scriptExecutor{scripts: map[string]string{
		"make lint": "echo 'lint failed' >&2; exit 2",
	}}
	tc := NewToolchain(t.TempDir(), WithExecutor(ex))
	require.NoError(t, tc.ApplyOverrides(map[string]config.ToolConfig{
		"clippy": {Command: []string{"make", "lint"}},
		"test":   {Fix: []string{"make", "fix-tests"}, Capture: "stderr"},
	}))

	res, err := tc.Check(context.Background(), Clippy)
	require.NoError(t, err)
	assert.Equal(t, "lint failed\n", res.Output)
	assert.True(t, tc.CanFix(Test))

	spec, ok := tc.Spec(Test)
	require.True(t, ok)
	assert.Equal(t, StreamStderr, spec.Capture)
	assert.Equal(t, []string{"cargo", "test"}, spec.Command)

	err = tc.ApplyOverrides(map[string]config.ToolConfig{"lint": {Command: []string{"x"}}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigValidation))
}

type stubScanner struct {
	result Result
	root   string
}

func (s *stubScanner) Scan(_ context.Context, root string) (Result, error) {
	s.root = root
	return s.result, nil
}

func TestToolchainSecretsUsesScanner(t *testing.T) {
	dir := t.TempDir()
	scanner := &stubScanner{result: Result{Output: "found 1 potential secret(s)"}}
	tc := NewToolchain(dir, WithSecretScanner(scanner), WithExecutor(&scriptExecutor{}))

	res, err := tc.Check(context.Background(), Secrets)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, dir, scanner.root)
}

func TestRunnerSecretScanErrorIsRecoverable(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "gone")
	tc := NewToolchain(dir, WithExecutor(&scriptExecutor{}))
	r, _ := newTestRunner(tc)

	res, err := r.Run(context.Background(), "secrets")
	require.NoError(t, err)
	assert.False(t, res.Passed())
	assert.Equal(t, ReasonCheck, res.Reason)
	assert.Contains(t, res.Output, "secret scan failed")
}
