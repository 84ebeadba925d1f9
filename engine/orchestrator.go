package engine

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/preflight/checks"
	"github.com/grovetools/preflight/config"
	"github.com/grovetools/preflight/errors"
	"github.com/grovetools/preflight/logging"
	"github.com/grovetools/preflight/pkg/profiling"
)

// Cursor is the resume point of a profile run.
type Cursor struct {
	Profile int
	Index   int
}

// ProfileStatus is how one profile ended.
type ProfileStatus int

const (
	ProfileNotSelected ProfileStatus = iota
	ProfileSkipped
	ProfilePassed
	ProfileFailed
)

func (s ProfileStatus) String() string {
	switch s {
	case ProfileSkipped:
		return "skipped"
	case ProfilePassed:
		return "passed"
	case ProfileFailed:
		return "failed"
	default:
		return "not_selected"
	}
}

// ProfileResult records one profile of a run.
type ProfileResult struct {
	Index      int
	Profile    config.Profile
	Status     ProfileStatus
	Outcome    checks.Outcome
	Fixed      []string
	Overridden []string
}

// Report is the result of Execute.
type Report struct {
	Hook     string
	Profiles []ProfileResult
}

// Failed reports whether any profile ended with an unrecovered failure.
func (r Report) Failed() bool {
	for _, p := range r.Profiles {
		if p.Status == ProfileFailed {
			return true
		}
	}
	return false
}

// FailedChecks lists the failing check of every failed profile.
func (r Report) FailedChecks() []string {
	var failed []string
	for _, p := range r.Profiles {
		if p.Status == ProfileFailed {
			failed = append(failed, p.Outcome.Name())
		}
	}
	return failed
}

// Orchestrator runs a profile set for one hook event.
type Orchestrator struct {
	runner   CheckRunner
	gate     *BranchGate
	recovery *Recovery
	pretty   *logging.PrettyLogger
	logger   *logrus.Entry
}

// NewOrchestrator wires the engine collaborators together.
func NewOrchestrator(runner CheckRunner, lookup BranchLookup, confirm Confirmer, pretty *logging.PrettyLogger) *Orchestrator {
	logger := logging.NewLogger("engine")
	return &Orchestrator{
		runner:   runner,
		gate:     NewBranchGate(lookup, pretty, logger),
		recovery: NewRecovery(runner, confirm, pretty, logger),
		pretty:   pretty,
		logger:   logger,
	}
}

// WithLogger replaces the structured logger of the orchestrator and its
// collaborators.
func (o *Orchestrator) WithLogger(logger *logrus.Entry) *Orchestrator {
	o.logger = logger
	o.gate.logger = logger
	o.recovery.logger = logger
	return o
}

// Execute runs every profile selected by hook. An empty hook is a manual run
// and selects all profiles. Profiles run independently; only a tool that
// cannot be started aborts the run with an error.
func (o *Orchestrator) Execute(ctx context.Context, set config.ProfileSet, hook string) (Report, error) {
	report := Report{Hook: hook}
	if hook != "" && !isTrigger(hook) {
		return report, errors.InvalidHook(hook)
	}

	if hook == "" {
		o.pretty.Heading("Running all defined preflight checks...")
	} else {
		o.pretty.Heading(fmt.Sprintf("Running %s preflight checks...", hook))
	}

	for i, profile := range set {
		result := ProfileResult{Index: i, Profile: profile}
		log := o.logger.WithFields(logrus.Fields{"profile": i, "hook": hook})

		if hook != "" && !profile.RunsOn(hook) {
			log.Debug("Profile not selected for hook")
			report.Profiles = append(report.Profiles, result)
			continue
		}

		if !o.gate.Applies(ctx, profile.Branches) {
			log.Info("Branch not included in profile, skipping")
			o.pretty.Muted(fmt.Sprintf("Branch not included in preflight profile %d, skipping", i+1))
			result.Status = ProfileSkipped
			report.Profiles = append(report.Profiles, result)
			continue
		}

		if len(set) > 1 {
			o.pretty.InfoPretty(fmt.Sprintf("Profile %d: %s", i+1, strings.Join(profile.Checks, ", ")))
		}
		span := profiling.Start(fmt.Sprintf("profile %d", i+1))
		err := o.runProfile(ctx, Cursor{Profile: i}, &result)
		span.Stop()
		if err != nil {
			report.Profiles = append(report.Profiles, result)
			return report, err
		}
		report.Profiles = append(report.Profiles, result)
	}

	if report.Failed() {
		o.pretty.ErrorPretty("Preflight checks failed", nil)
	}
	return report, nil
}

// runProfile drives one profile from cur until it passes or recovery gives up.
func (o *Orchestrator) runProfile(ctx context.Context, cur Cursor, result *ProfileResult) error {
	profile := result.Profile
	log := o.logger.WithField("profile", cur.Profile)

	for {
		outcome, reached, err := o.runner.RunSequence(ctx, profile.Checks, cur.Index)
		if err != nil {
			result.Status = ProfileFailed
			return err
		}
		if outcome.Passed() {
			result.Status = ProfilePassed
			return nil
		}

		index, ok := Locate(profile.Checks, outcome)
		if ok && index != reached {
			// Repeated check names: the copy the sequence stopped at wins.
			if at, found := LocateFrom(profile.Checks, outcome, reached); found && at == reached {
				index = at
			}
		}
		if !ok {
			log.WithFields(logrus.Fields{
				"check":   outcome.Name(),
				"reached": reached,
			}).Warn("Failure did not map to a configured check")
			result.Status = ProfileFailed
			result.Outcome = outcome
			return nil
		}

		decision, final, err := o.recovery.Recover(ctx, profile, index, outcome)
		if err != nil {
			result.Status = ProfileFailed
			result.Outcome = outcome
			return err
		}
		log.WithFields(logrus.Fields{
			"check":    outcome.Name(),
			"decision": decision.String(),
		}).Debug("Recovery decided")

		switch decision {
		case Retry:
			result.Fixed = append(result.Fixed, profile.Checks[index])
			cur.Index = index
		case Skip:
			result.Overridden = append(result.Overridden, profile.Checks[index])
			cur.Index = index + 1
		default:
			result.Status = ProfileFailed
			result.Outcome = final
			return nil
		}
	}
}

func isTrigger(hook string) bool {
	return slices.Contains(config.Triggers, hook)
}
