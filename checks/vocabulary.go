// Package checks runs individual preflight checks and reports typed outcomes.
package checks

import "strings"

// ID identifies a check in the closed vocabulary preflight knows how to run.
type ID int

const (
	Unknown ID = iota
	Fmt
	Clippy
	Test
	CheckTests
	CheckExamples
	CheckBenches
	UnusedDeps
	Secrets
)

var idNames = map[ID]string{
	Fmt:           "fmt",
	Clippy:        "clippy",
	Test:          "test",
	CheckTests:    "check_tests",
	CheckExamples: "check_examples",
	CheckBenches:  "check_benches",
	UnusedDeps:    "unused_deps",
	Secrets:       "secrets",
}

var idLabels = map[ID]string{
	Fmt:           "Formatting",
	Clippy:        "Clippy",
	Test:          "Tests",
	CheckTests:    "Check tests",
	CheckExamples: "Check examples",
	CheckBenches:  "Check benches",
	UnusedDeps:    "Unused dependencies",
	Secrets:       "Secrets",
}

// String returns the configuration name of the check, e.g. "fmt".
func (id ID) String() string {
	if name, ok := idNames[id]; ok {
		return name
	}
	return "unknown"
}

// Label is the human name used in status lines.
func (id ID) Label() string {
	if label, ok := idLabels[id]; ok {
		return label
	}
	return "Unknown"
}

// Vocabulary lists every known check in the order the wizard offers them.
func Vocabulary() []ID {
	return []ID{Fmt, Clippy, Test, UnusedDeps, Secrets, CheckTests, CheckExamples, CheckBenches}
}

// Names returns the configuration names of Vocabulary.
func Names() []string {
	ids := Vocabulary()
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.String()
	}
	return names
}

// Ref is a parsed check name. Unknown names keep the literal text so
// failures can point back at the offending config entry.
type Ref struct {
	ID   ID
	Name string
}

// Parse resolves name against the vocabulary. Matching is exact apart from
// surrounding whitespace.
func Parse(name string) Ref {
	trimmed := strings.TrimSpace(name)
	for id, n := range idNames {
		if n == trimmed {
			return Ref{ID: id, Name: n}
		}
	}
	return Ref{ID: Unknown, Name: name}
}

// Known reports whether the reference names a vocabulary check.
func (r Ref) Known() bool {
	return r.ID != Unknown
}

// String returns the canonical name for known checks and the literal text
// otherwise.
func (r Ref) String() string {
	if r.Known() {
		return r.ID.String()
	}
	return r.Name
}
