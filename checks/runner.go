package checks

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/preflight/logging"
	"github.com/grovetools/preflight/pkg/profiling"
)

// Runner executes checks by name through a Tool and prints one status line
// per attempted check. It holds no per-run state.
type Runner struct {
	tool   Tool
	pretty *logging.PrettyLogger
	logger *logrus.Entry
}

// NewRunner creates a Runner that reports to pretty.
func NewRunner(tool Tool, pretty *logging.PrettyLogger) *Runner {
	return &Runner{
		tool:   tool,
		pretty: pretty,
		logger: logging.NewLogger("checks"),
	}
}

// WithLogger replaces the structured logger.
func (r *Runner) WithLogger(logger *logrus.Entry) *Runner {
	r.logger = logger
	return r
}

// Run executes a single check. A failing check is a failed Outcome; the
// error is reserved for tools that could not be started.
func (r *Runner) Run(ctx context.Context, name string) (Outcome, error) {
	ref := Parse(name)
	if !ref.Known() {
		out := Invalid(name)
		r.logger.WithField("check", name).Warn("Unknown check in configuration")
		r.pretty.Fail(out.Summary())
		return out, nil
	}

	span := profiling.Start("check " + ref.String())
	start := time.Now()
	res, err := r.tool.Check(ctx, ref.ID)
	span.Stop()
	log := r.logger.WithFields(logrus.Fields{
		"check":    ref.String(),
		"duration": time.Since(start).Round(time.Millisecond).String(),
	})
	if err != nil {
		log.WithError(err).Error("Check could not be run")
		return Outcome{}, err
	}

	if res.Success {
		out := Pass(ref)
		log.Debug("Check passed")
		r.pretty.Pass(out.Summary())
		return out, nil
	}

	out := Fail(ref, res.Output)
	log.Info("Check failed")
	r.pretty.Fail(out.Summary())
	r.pretty.Code(out.Output)
	return out, nil
}

// RunSequence runs names[start:] in order and stops at the first failure.
// reached is the index it stopped at, or len(names) when every check passed.
func (r *Runner) RunSequence(ctx context.Context, names []string, start int) (Outcome, int, error) {
	if start < 0 {
		start = 0
	}
	for i := start; i < len(names); i++ {
		out, err := r.Run(ctx, names[i])
		if err != nil {
			return out, i, err
		}
		if !out.Passed() {
			return out, i, nil
		}
	}
	return Outcome{Status: StatusPassed}, len(names), nil
}

// Fix runs the autofix for name. Names without a fixer come back as an
// invalid-check failure carrying an explanation.
func (r *Runner) Fix(ctx context.Context, name string) (Outcome, error) {
	ref := Parse(name)
	if !ref.Known() || !r.tool.CanFix(ref.ID) {
		out := Invalid(name)
		out.Output = fmt.Sprintf("no autofix available for %s", name)
		r.logger.WithField("check", name).Debug("No fixer for check")
		return out, nil
	}

	r.logger.WithField("check", ref.String()).Info("Applying autofix")
	res, err := r.tool.Fix(ctx, ref.ID)
	if err != nil {
		r.logger.WithError(err).WithField("check", ref.String()).Error("Autofix could not be run")
		return Outcome{}, err
	}
	if !res.Success {
		out := Fail(ref, res.Output)
		r.pretty.Fail(fmt.Sprintf("%s autofix failed", ref.ID.Label()))
		r.pretty.Code(out.Output)
		return out, nil
	}

	r.pretty.Fixed(fmt.Sprintf("%s autofix applied", ref.ID.Label()))
	return Pass(ref), nil
}
