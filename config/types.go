package config

import (
	"fmt"
	"slices"

	"github.com/mitchellh/mapstructure"
)

// Trigger names a git event that can start a preflight run.
const (
	TriggerCommit = "commit"
	TriggerPush   = "push"
)

// Triggers lists every supported trigger in hook-installation order.
var Triggers = []string{TriggerCommit, TriggerPush}

// Profile is one `[[preflight]]` entry: which checks to run, when, on which
// branches, and how to recover from a failure.
type Profile struct {
	RunWhen  []string `toml:"run_when" mapstructure:"run_when" json:"run_when" yaml:"run_when" jsonschema:"description=Git events that trigger this profile (commit, push)"`
	Branches []string `toml:"branches" mapstructure:"branches" json:"branches" yaml:"branches" jsonschema:"description=Branches this profile is limited to; empty means any branch"`
	Checks   []string `toml:"checks" mapstructure:"checks" json:"checks" yaml:"checks" jsonschema:"required,minItems=1,description=Checks to run in order"`
	Autofix  bool     `toml:"autofix" mapstructure:"autofix" json:"autofix" yaml:"autofix" jsonschema:"description=Offer to apply automatic fixes for failing checks"`
	Override bool     `toml:"override" mapstructure:"override" json:"override" yaml:"override" jsonschema:"description=Allow skipping a failing check and continuing"`
}

// RunsOn reports whether hook is one of the profile's triggers.
func (p Profile) RunsOn(hook string) bool {
	return slices.Contains(p.RunWhen, hook)
}

func (p *Profile) normalize() {
	if p.RunWhen == nil {
		p.RunWhen = []string{}
	}
	if p.Branches == nil {
		p.Branches = []string{}
	}
}

// ProfileSet is the ordered collection of profiles for one invocation.
type ProfileSet []Profile

// Triggers returns the distinct triggers used across the set, in Triggers order.
func (s ProfileSet) Triggers() []string {
	var used []string
	for _, trigger := range Triggers {
		for _, p := range s {
			if p.RunsOn(trigger) {
				used = append(used, trigger)
				break
			}
		}
	}
	return used
}

// ToolConfig overrides the command line behind a check.
type ToolConfig struct {
	Command []string `toml:"command,omitempty" mapstructure:"command" json:"command,omitempty" yaml:"command,omitempty" jsonschema:"description=Command and arguments that run the check"`
	Fix     []string `toml:"fix,omitempty" mapstructure:"fix" json:"fix,omitempty" yaml:"fix,omitempty" jsonschema:"description=Command and arguments that apply the autofix"`
	Capture string   `toml:"capture,omitempty" mapstructure:"capture" json:"capture,omitempty" yaml:"capture,omitempty" jsonschema:"enum=stdout,enum=stderr,description=Stream shown when the check fails"`
}

// File is the on-disk shape of .preflight.toml.
type File struct {
	Preflight ProfileSet            `toml:"preflight" mapstructure:"preflight" json:"preflight" yaml:"preflight" jsonschema:"description=Preflight profiles in declaration order"`
	Tools     map[string]ToolConfig `toml:"tools,omitempty" mapstructure:"tools" json:"tools,omitempty" yaml:"tools,omitempty" jsonschema:"description=Per-check command overrides"`

	// Extensions holds top-level tables owned by other packages, e.g. [logging].
	Extensions map[string]interface{} `toml:"-" mapstructure:",remain" json:"-" yaml:"-"`
}

// DefaultProfile is the profile used when no configuration exists.
func DefaultProfile() Profile {
	return Profile{
		RunWhen:  []string{TriggerPush},
		Branches: []string{},
		Checks:   []string{"fmt", "test"},
		Autofix:  true,
		Override: false,
	}
}

// Default returns the configuration used when neither a local nor a global
// file exists.
func Default() *File {
	return &File{Preflight: ProfileSet{DefaultProfile()}}
}

// UnmarshalExtension decodes the extension table key into target.
// A missing key leaves target untouched.
func (f *File) UnmarshalExtension(key string, target interface{}) error {
	raw, ok := f.Extensions[key]
	if !ok {
		return nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("decode [%s]: %w", key, err)
	}
	return nil
}
