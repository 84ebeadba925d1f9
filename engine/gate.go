// Package engine orchestrates preflight profiles: it selects the profiles for
// a hook, runs their checks in order, and recovers from failures through
// autofix or override prompts.
package engine

import (
	"context"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/preflight/logging"
)

// BranchLookup reports the branch checked out in the working tree.
type BranchLookup interface {
	CurrentBranch(ctx context.Context) (string, error)
}

// BranchGate decides whether a profile applies to the current branch.
type BranchGate struct {
	lookup BranchLookup
	pretty *logging.PrettyLogger
	logger *logrus.Entry
}

// NewBranchGate creates a gate backed by lookup.
func NewBranchGate(lookup BranchLookup, pretty *logging.PrettyLogger, logger *logrus.Entry) *BranchGate {
	return &BranchGate{lookup: lookup, pretty: pretty, logger: logger}
}

// Applies reports whether a profile restricted to branches should run. An
// empty list matches every branch. When the branch cannot be determined
// the profile runs and a warning is printed.
func (g *BranchGate) Applies(ctx context.Context, branches []string) bool {
	if len(branches) == 0 {
		return true
	}

	current, err := g.lookup.CurrentBranch(ctx)
	if err != nil {
		g.logger.WithError(err).Warn("Could not determine current branch")
		g.pretty.WarnPretty("Could not determine the current branch, running checks anyway")
		return true
	}

	applies := slices.Contains(branches, current)
	g.logger.WithFields(logrus.Fields{
		"branch":   current,
		"branches": branches,
		"applies":  applies,
	}).Debug("Evaluated branch gate")
	return applies
}
