package engine

import "github.com/grovetools/preflight/checks"

// Locate returns the index of the first configured check that produced
// outcome. Known checks match by id, so " fmt " and "fmt" are the same
// entry; invalid checks match their literal name. Passed and
// override-cancelled outcomes never match.
func Locate(names []string, outcome checks.Outcome) (int, bool) {
	if outcome.Passed() || outcome.Reason == checks.ReasonOverrideCancelled {
		return -1, false
	}
	for i, name := range names {
		if outcome.Check.Known() {
			if checks.Parse(name).ID == outcome.Check.ID {
				return i, true
			}
			continue
		}
		if name == outcome.Check.Name {
			return i, true
		}
	}
	return -1, false
}

// LocateFrom is Locate restricted to names[start:]; the returned index is
// relative to the full list.
func LocateFrom(names []string, outcome checks.Outcome, start int) (int, bool) {
	if start < 0 {
		start = 0
	}
	if start >= len(names) {
		return -1, false
	}
	i, ok := Locate(names[start:], outcome)
	if !ok {
		return -1, false
	}
	return start + i, true
}
