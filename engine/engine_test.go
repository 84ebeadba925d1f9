package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/preflight/checks"
	"github.com/grovetools/preflight/config"
	"github.com/grovetools/preflight/errors"
	"github.com/grovetools/preflight/logging"
)

var failing = checks.Result{Output: "boom"}

// scriptedTool returns queued results per check; the last result repeats
// and an empty queue passes.
type scriptedTool struct {
	results map[checks.ID][]checks.Result
	fixes   map[checks.ID]checks.Result
	errs    map[checks.ID]error
	ran     []string
	fixed   []string
}

func newScriptedTool() *scriptedTool {
	return &scriptedTool{
		results: map[checks.ID][]checks.Result{},
		fixes:   map[checks.ID]checks.Result{},
		errs:    map[checks.ID]error{},
	}
}

func (s *scriptedTool) Check(_ context.Context, id checks.ID) (checks.Result, error) {
	s.ran = append(s.ran, id.String())
	if err := s.errs[id]; err != nil {
		return checks.Result{}, err
	}
	queue := s.results[id]
	if len(queue) == 0 {
		return checks.Result{Success: true}, nil
	}
	if len(queue) > 1 {
		s.results[id] = queue[1:]
	}
	return queue[0], nil
}

func (s *scriptedTool) Fix(_ context.Context, id checks.ID) (checks.Result, error) {
	s.fixed = append(s.fixed, id.String())
	return s.fixes[id], nil
}

func (s *scriptedTool) CanFix(id checks.ID) bool {
	_, ok := s.fixes[id]
	return ok
}

type answer struct {
	yes bool
	err error
}

type scriptedConfirmer struct {
	answers []answer
	titles  []string
}

func (s *scriptedConfirmer) Confirm(_ context.Context, title, _ string) (bool, error) {
	s.titles = append(s.titles, title)
	if len(s.answers) == 0 {
		return false, fmt.Errorf("unexpected prompt: %s", title)
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a.yes, a.err
}

type fakeBranches struct {
	branch string
	err    error
	calls  int
}

func (f *fakeBranches) CurrentBranch(context.Context) (string, error) {
	f.calls++
	return f.branch, f.err
}

func quietLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

type harness struct {
	tool     *scriptedTool
	confirm  *scriptedConfirmer
	branches *fakeBranches
	out      *bytes.Buffer
	orch     *Orchestrator
	recovery *Recovery
}

func newHarness(answers ...answer) *harness {
	h := &harness{
		tool:     newScriptedTool(),
		confirm:  &scriptedConfirmer{answers: answers},
		branches: &fakeBranches{branch: "main"},
		out:      &bytes.Buffer{},
	}
	pretty := logging.NewPrettyLoggerWithWriter(h.out)
	runner := checks.NewRunner(h.tool, pretty).WithLogger(quietLogger())
	h.orch = NewOrchestrator(runner, h.branches, h.confirm, pretty).WithLogger(quietLogger())
	h.recovery = h.orch.recovery
	return h
}

func profile(checkNames ...string) config.Profile {
	return config.Profile{
		RunWhen:  []string{config.TriggerCommit},
		Branches: []string{},
		Checks:   checkNames,
	}
}

func TestBranchGate(t *testing.T) {
	ctx := context.Background()
	pretty := logging.NewPrettyLoggerWithWriter(&bytes.Buffer{})

	t.Run("empty list applies without lookup", func(t *testing.T) {
		lookup := &fakeBranches{branch: "dev"}
		gate := NewBranchGate(lookup, pretty, quietLogger())
		assert.True(t, gate.Applies(ctx, nil))
		assert.True(t, gate.Applies(ctx, []string{}))
		assert.Zero(t, lookup.calls)
	})

	t.Run("membership", func(t *testing.T) {
		gate := NewBranchGate(&fakeBranches{branch: "dev"}, pretty, quietLogger())
		assert.True(t, gate.Applies(ctx, []string{"main", "dev"}))
		assert.False(t, gate.Applies(ctx, []string{"main"}))
	})

	t.Run("lookup failure fails open with a warning", func(t *testing.T) {
		var buf bytes.Buffer
		lookup := &fakeBranches{err: errors.DetachedHead("abc123")}
		gate := NewBranchGate(lookup, logging.NewPrettyLoggerWithWriter(&buf), quietLogger())
		assert.True(t, gate.Applies(ctx, []string{"main"}))
		assert.Contains(t, buf.String(), "Could not determine the current branch")
	})
}

func TestLocate(t *testing.T) {
	names := []string{"fmt", "clippy", "test", "fmt", "bogus"}

	i, ok := Locate(names, checks.Fail(checks.Parse("test"), "x"))
	require.True(t, ok)
	assert.Equal(t, 2, i)

	i, ok = Locate(names, checks.Fail(checks.Parse("fmt"), "x"))
	require.True(t, ok)
	assert.Equal(t, 0, i, "first index wins")

	i, ok = Locate(names, checks.Invalid("bogus"))
	require.True(t, ok)
	assert.Equal(t, 4, i)

	_, ok = Locate(names, checks.Fail(checks.Parse("secrets"), "x"))
	assert.False(t, ok)

	_, ok = Locate(names, checks.OverrideCancelled(checks.Fail(checks.Parse("fmt"), "x")))
	assert.False(t, ok)

	_, ok = Locate(names, checks.Pass(checks.Parse("fmt")))
	assert.False(t, ok)

	i, ok = LocateFrom(names, checks.Fail(checks.Parse("fmt"), "x"), 1)
	require.True(t, ok)
	assert.Equal(t, 3, i)

	_, ok = LocateFrom(names, checks.Fail(checks.Parse("fmt"), "x"), 10)
	assert.False(t, ok)
}

func TestRecovery(t *testing.T) {
	ctx := context.Background()
	failed := checks.Fail(checks.Parse("fmt"), "diff")

	t.Run("no flags terminates without prompting", func(t *testing.T) {
		h := newHarness()
		decision, out, err := h.recovery.Recover(ctx, profile("fmt"), 0, failed)
		require.NoError(t, err)
		assert.Equal(t, Terminate, decision)
		assert.Equal(t, failed, out)
		assert.Empty(t, h.confirm.titles)
	})

	t.Run("autofix accepted and fixed retries", func(t *testing.T) {
		h := newHarness(answer{yes: true})
		h.tool.fixes[checks.Fmt] = checks.Result{Success: true}
		p := profile("fmt")
		p.Autofix = true

		decision, _, err := h.recovery.Recover(ctx, p, 0, failed)
		require.NoError(t, err)
		assert.Equal(t, Retry, decision)
		assert.Equal(t, []string{"fmt"}, h.tool.fixed)
	})

	t.Run("failed fix falls through to override", func(t *testing.T) {
		h := newHarness(answer{yes: true}, answer{yes: true})
		h.tool.fixes[checks.Fmt] = checks.Result{Output: "fixer broke"}
		p := profile("fmt")
		p.Autofix, p.Override = true, true

		decision, _, err := h.recovery.Recover(ctx, p, 0, failed)
		require.NoError(t, err)
		assert.Equal(t, Skip, decision)
		assert.Len(t, h.confirm.titles, 2)
		assert.Contains(t, h.out.String(), "fixer broke")
	})

	t.Run("failed fix without override terminates", func(t *testing.T) {
		h := newHarness(answer{yes: true})
		h.tool.fixes[checks.Fmt] = checks.Result{Output: "fixer broke"}
		p := profile("fmt")
		p.Autofix = true

		decision, out, err := h.recovery.Recover(ctx, p, 0, failed)
		require.NoError(t, err)
		assert.Equal(t, Terminate, decision)
		assert.Equal(t, checks.ReasonCheck, out.Reason)
	})

	t.Run("missing fixer falls through to override", func(t *testing.T) {
		h := newHarness(answer{yes: true}, answer{yes: true})
		p := profile("test")
		p.Autofix, p.Override = true, true

		decision, _, err := h.recovery.Recover(ctx, p, 0, checks.Fail(checks.Parse("test"), "x"))
		require.NoError(t, err)
		assert.Equal(t, Skip, decision)
		assert.Empty(t, h.tool.fixed)
		assert.Contains(t, h.out.String(), "no autofix available for test")
	})

	t.Run("autofix prompt cancelled terminates", func(t *testing.T) {
		h := newHarness(answer{err: errors.PromptCancelled("fix", nil)})
		p := profile("fmt")
		p.Autofix, p.Override = true, true

		decision, out, err := h.recovery.Recover(ctx, p, 0, failed)
		require.NoError(t, err)
		assert.Equal(t, Terminate, decision)
		assert.Equal(t, failed, out)
		assert.Len(t, h.confirm.titles, 1)
	})

	t.Run("autofix declined then override declined", func(t *testing.T) {
		h := newHarness(answer{yes: false}, answer{yes: false})
		p := profile("fmt")
		p.Autofix, p.Override = true, true

		decision, out, err := h.recovery.Recover(ctx, p, 0, failed)
		require.NoError(t, err)
		assert.Equal(t, Terminate, decision)
		assert.Equal(t, checks.ReasonOverrideCancelled, out.Reason)
		assert.Equal(t, "diff", out.Output)
		assert.Empty(t, h.tool.fixed)
	})

	t.Run("override accepted skips", func(t *testing.T) {
		h := newHarness(answer{yes: true})
		p := profile("fmt")
		p.Override = true

		decision, _, err := h.recovery.Recover(ctx, p, 0, failed)
		require.NoError(t, err)
		assert.Equal(t, Skip, decision)
		assert.Equal(t, []string{"Do you want to override fmt preflight check?"}, h.confirm.titles)
	})

	t.Run("override cancelled terminates", func(t *testing.T) {
		h := newHarness(answer{err: errors.PromptCancelled("override", nil)})
		p := profile("fmt")
		p.Override = true

		decision, out, err := h.recovery.Recover(ctx, p, 0, failed)
		require.NoError(t, err)
		assert.Equal(t, Terminate, decision)
		assert.Equal(t, checks.ReasonOverrideCancelled, out.Reason)
	})
}

func TestExecuteHookFiltering(t *testing.T) {
	h := newHarness()
	pushOnly := profile("test")
	pushOnly.RunWhen = []string{config.TriggerPush}
	pushOnly.Branches = []string{"main"}
	set := config.ProfileSet{profile("fmt"), pushOnly}

	report, err := h.orch.Execute(context.Background(), set, config.TriggerCommit)
	require.NoError(t, err)
	assert.False(t, report.Failed())
	assert.Equal(t, []string{"fmt"}, h.tool.ran)
	assert.Zero(t, h.branches.calls, "filtered profiles never look up the branch")
	assert.Equal(t, ProfilePassed, report.Profiles[0].Status)
	assert.Equal(t, ProfileNotSelected, report.Profiles[1].Status)
}

func TestExecuteManualRunsAllProfiles(t *testing.T) {
	h := newHarness()
	pushOnly := profile("test")
	pushOnly.RunWhen = []string{config.TriggerPush}

	report, err := h.orch.Execute(context.Background(), config.ProfileSet{profile("fmt"), pushOnly}, "")
	require.NoError(t, err)
	assert.False(t, report.Failed())
	assert.Equal(t, []string{"fmt", "test"}, h.tool.ran)
	assert.Contains(t, h.out.String(), "Running all defined preflight checks")
}

func TestExecuteBranchGating(t *testing.T) {
	h := newHarness()
	h.branches.branch = "feature/x"
	gated := profile("fmt")
	gated.Branches = []string{"main"}

	report, err := h.orch.Execute(context.Background(), config.ProfileSet{gated, profile("test")}, config.TriggerCommit)
	require.NoError(t, err)
	assert.Equal(t, ProfileSkipped, report.Profiles[0].Status)
	assert.Equal(t, []string{"test"}, h.tool.ran)
}

func TestExecuteProfilesAreIndependent(t *testing.T) {
	h := newHarness()
	h.tool.results[checks.Fmt] = []checks.Result{failing}

	report, err := h.orch.Execute(context.Background(),
		config.ProfileSet{profile("fmt", "clippy"), profile("test")}, config.TriggerCommit)
	require.NoError(t, err)
	assert.True(t, report.Failed())
	assert.Equal(t, []string{"fmt", "test"}, h.tool.ran)
	assert.Equal(t, []string{"fmt"}, report.FailedChecks())
	assert.Equal(t, ProfilePassed, report.Profiles[1].Status)
}

func TestExecuteAutofixResumesAtFailedCheck(t *testing.T) {
	h := newHarness(answer{yes: true})
	h.tool.results[checks.Clippy] = []checks.Result{failing, {Success: true}}
	h.tool.fixes[checks.Clippy] = checks.Result{Success: true}
	p := profile("fmt", "clippy", "test")
	p.Autofix = true

	report, err := h.orch.Execute(context.Background(), config.ProfileSet{p}, config.TriggerCommit)
	require.NoError(t, err)
	assert.False(t, report.Failed())
	assert.Equal(t, []string{"fmt", "clippy", "clippy", "test"}, h.tool.ran)
	assert.Equal(t, []string{"clippy"}, report.Profiles[0].Fixed)
}

func TestExecuteOverrideSkipsFailedCheck(t *testing.T) {
	h := newHarness(answer{yes: true})
	h.tool.results[checks.Clippy] = []checks.Result{failing}
	p := profile("fmt", "clippy", "test")
	p.Override = true

	report, err := h.orch.Execute(context.Background(), config.ProfileSet{p}, config.TriggerCommit)
	require.NoError(t, err)
	assert.False(t, report.Failed())
	assert.Equal(t, []string{"fmt", "clippy", "test"}, h.tool.ran)
	assert.Equal(t, []string{"clippy"}, report.Profiles[0].Overridden)
}

func TestExecuteAutofixDeclinedThenOverrideAccepted(t *testing.T) {
	h := newHarness(answer{yes: false}, answer{yes: true})
	h.tool.results[checks.Clippy] = []checks.Result{failing}
	h.tool.fixes[checks.Clippy] = checks.Result{Success: true}
	p := profile("fmt", "clippy", "test")
	p.Autofix, p.Override = true, true

	report, err := h.orch.Execute(context.Background(), config.ProfileSet{p}, config.TriggerCommit)
	require.NoError(t, err)
	assert.False(t, report.Failed())
	assert.Equal(t, []string{"fmt", "clippy", "test"}, h.tool.ran)
	assert.Empty(t, h.tool.fixed)
	assert.Equal(t, []string{"clippy"}, report.Profiles[0].Overridden)
	assert.Empty(t, report.Profiles[0].Fixed)
	assert.Len(t, h.confirm.titles, 2)
}

func TestExecuteRecoveryAppliesToLaterFailures(t *testing.T) {
	h := newHarness(answer{yes: true}, answer{yes: true})
	h.tool.results[checks.Fmt] = []checks.Result{failing}
	h.tool.results[checks.Test] = []checks.Result{failing}
	p := profile("fmt", "clippy", "test")
	p.Override = true

	report, err := h.orch.Execute(context.Background(), config.ProfileSet{p}, config.TriggerCommit)
	require.NoError(t, err)
	assert.False(t, report.Failed())
	assert.Equal(t, []string{"fmt", "test"}, report.Profiles[0].Overridden)
}

func TestExecuteRepeatedCheckDoesNotRewind(t *testing.T) {
	h := newHarness(answer{yes: true}, answer{yes: true})
	h.tool.results[checks.Fmt] = []checks.Result{{Success: true}, failing}
	p := profile("fmt", "clippy", "fmt")
	p.Override = true

	report, err := h.orch.Execute(context.Background(), config.ProfileSet{p}, config.TriggerCommit)
	require.NoError(t, err)
	assert.False(t, report.Failed())
	assert.Equal(t, []string{"fmt", "clippy", "fmt"}, h.tool.ran)
	assert.Len(t, h.confirm.titles, 1)
}

func TestExecuteInvalidCheck(t *testing.T) {
	h := newHarness()
	report, err := h.orch.Execute(context.Background(),
		config.ProfileSet{profile("fmt", "bogus", "test")}, config.TriggerCommit)
	require.NoError(t, err)
	assert.True(t, report.Failed())
	assert.Equal(t, []string{"bogus"}, report.FailedChecks())
	assert.Equal(t, []string{"fmt"}, h.tool.ran)
}

func TestExecuteTransportErrorAborts(t *testing.T) {
	h := newHarness()
	h.tool.errs[checks.Fmt] = errors.CommandNotFound([]string{"cargo", "fmt"}, exec.ErrNotFound)

	_, err := h.orch.Execute(context.Background(),
		config.ProfileSet{profile("fmt"), profile("test")}, config.TriggerCommit)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeCommandNotFound))
	assert.Equal(t, []string{"fmt"}, h.tool.ran)
}

func TestExecuteInvalidHook(t *testing.T) {
	h := newHarness()
	_, err := h.orch.Execute(context.Background(), config.ProfileSet{profile("fmt")}, "merge")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeHookInvalid))
	assert.Empty(t, h.tool.ran)
}
