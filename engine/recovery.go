package engine

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/preflight/checks"
	"github.com/grovetools/preflight/config"
	"github.com/grovetools/preflight/logging"
)

// Confirmer asks a yes/no question. A cancelled prompt returns an error.
type Confirmer interface {
	Confirm(ctx context.Context, title, description string) (bool, error)
}

// CheckRunner is the part of checks.Runner the engine drives.
type CheckRunner interface {
	RunSequence(ctx context.Context, names []string, start int) (checks.Outcome, int, error)
	Fix(ctx context.Context, name string) (checks.Outcome, error)
}

// Decision is what recovery chose after a failure.
type Decision int

const (
	// Terminate ends the profile with the failure unrecovered.
	Terminate Decision = iota
	// Retry re-runs the failed check after a successful fix.
	Retry
	// Skip continues with the check after the failed one.
	Skip
)

func (d Decision) String() string {
	switch d {
	case Retry:
		return "retry"
	case Skip:
		return "skip"
	default:
		return "terminate"
	}
}

// Recovery turns a failed check into a resume decision using the profile's
// autofix and override flags.
type Recovery struct {
	runner  CheckRunner
	confirm Confirmer
	pretty  *logging.PrettyLogger
	logger  *logrus.Entry
}

// NewRecovery creates a Recovery.
func NewRecovery(runner CheckRunner, confirm Confirmer, pretty *logging.PrettyLogger, logger *logrus.Entry) *Recovery {
	return &Recovery{runner: runner, confirm: confirm, pretty: pretty, logger: logger}
}

// Recover decides what happens after profile.Checks[index] failed with
// failed. The returned outcome is the one to report when the decision is
// Terminate. The error is only set for tools that could not be started.
func (r *Recovery) Recover(ctx context.Context, profile config.Profile, index int, failed checks.Outcome) (Decision, checks.Outcome, error) {
	name := profile.Checks[index]
	log := r.logger.WithFields(logrus.Fields{"check": name, "index": index})

	if !profile.Autofix && !profile.Override {
		log.Debug("No recovery configured")
		return Terminate, failed, nil
	}

	if profile.Autofix {
		ok, err := r.confirm.Confirm(ctx,
			fmt.Sprintf("Do you want to automatically apply %s suggestions?", name),
			"This applies changes to your dirty workspace and re-runs the check. No will skip to override or fail the check.")
		if err != nil {
			log.WithError(err).Warn("Autofix prompt cancelled")
			r.pretty.WarnPretty("Autofix prompt cancelled")
			return Terminate, failed, nil
		}
		if ok {
			fixed, err := r.runner.Fix(ctx, name)
			if err != nil {
				return Terminate, failed, err
			}
			if fixed.Passed() {
				log.Info("Autofix applied, re-running check")
				return Retry, failed, nil
			}
			if fixed.Reason == checks.ReasonInvalidCheck {
				r.pretty.WarnPretty(fixed.Output)
			}
			log.Info("Autofix did not succeed")
		}
	}

	if !profile.Override {
		return Terminate, failed, nil
	}

	ok, err := r.confirm.Confirm(ctx,
		fmt.Sprintf("Do you want to override %s preflight check?", name),
		fmt.Sprintf("This will skip %s and continue preflight checks", name))
	if err != nil {
		log.WithError(err).Warn("Override prompt cancelled")
		return Terminate, checks.OverrideCancelled(failed), nil
	}
	if !ok {
		log.Info("Override declined")
		return Terminate, checks.OverrideCancelled(failed), nil
	}

	log.Warn("Check overridden")
	r.pretty.WarnPretty(fmt.Sprintf("    [!] Skipping %s preflight check", name))
	return Skip, failed, nil
}
