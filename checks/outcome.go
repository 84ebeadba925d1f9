package checks

import "fmt"

// Status is the pass/fail state of an outcome.
type Status int

const (
	StatusPassed Status = iota
	StatusFailed
)

// Reason says why an outcome failed.
type Reason int

const (
	ReasonNone Reason = iota
	// ReasonCheck is an ordinary tool failure for a known check.
	ReasonCheck
	// ReasonInvalidCheck is a configured name outside the vocabulary.
	ReasonInvalidCheck
	// ReasonOverrideCancelled is a failure the user refused to skip.
	ReasonOverrideCancelled
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonCheck:
		return "check"
	case ReasonInvalidCheck:
		return "invalid_check"
	case ReasonOverrideCancelled:
		return "override_cancelled"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// Outcome is the result of running, or fixing, one check. It is a value,
// not an error: failing checks are an expected part of a run.
type Outcome struct {
	Status Status
	Reason Reason
	Check  Ref
	Output string
}

// Pass builds a passed outcome for ref.
func Pass(ref Ref) Outcome {
	return Outcome{Status: StatusPassed, Check: ref}
}

// Fail builds a failed outcome for a known check with the captured output.
func Fail(ref Ref, output string) Outcome {
	return Outcome{Status: StatusFailed, Reason: ReasonCheck, Check: ref, Output: output}
}

// Invalid builds the outcome for a name outside the vocabulary. The name is
// also the output so it is printed with the failure.
func Invalid(name string) Outcome {
	return Outcome{
		Status: StatusFailed,
		Reason: ReasonInvalidCheck,
		Check:  Ref{ID: Unknown, Name: name},
		Output: name,
	}
}

// OverrideCancelled wraps a failure the user declined to override.
func OverrideCancelled(failed Outcome) Outcome {
	return Outcome{
		Status: StatusFailed,
		Reason: ReasonOverrideCancelled,
		Check:  failed.Check,
		Output: failed.Output,
	}
}

// Passed reports whether the outcome is a pass.
func (o Outcome) Passed() bool {
	return o.Status == StatusPassed
}

// Name is the configured name the outcome maps back to: the canonical id for
// known checks, the literal text for invalid ones.
func (o Outcome) Name() string {
	return o.Check.String()
}

// Summary is the one-line status text for the outcome.
func (o Outcome) Summary() string {
	switch {
	case o.Passed():
		return fmt.Sprintf("%s preflight check passed", o.Check.ID.Label())
	case o.Reason == ReasonInvalidCheck:
		return fmt.Sprintf("Invalid preflight check: %q", o.Check.Name)
	case o.Reason == ReasonOverrideCancelled:
		return fmt.Sprintf("%s preflight check failed and was not overridden", o.Check.ID.Label())
	default:
		return fmt.Sprintf("%s preflight check failed", o.Check.ID.Label())
	}
}
