package profiling

import (
	"io"

	"github.com/spf13/cobra"
)

// CobraProfiler adds a --timing flag to a command tree.
type CobraProfiler struct {
	timing bool
	out    io.Writer
}

// NewCobraProfiler creates a profiler that prints its summary to out.
func NewCobraProfiler(out io.Writer) *CobraProfiler {
	return &CobraProfiler{out: out}
}

// AddFlags registers --timing on cmd and enables the profiler before it runs.
// The caller prints the tree with Summary, which also works when the command
// fails.
func (p *CobraProfiler) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVar(&p.timing, "timing", false, "Print how long each profile and check took")
	cmd.PersistentPreRun = p.PreRun
}

// PreRun enables the package profiler when --timing is set.
func (p *CobraProfiler) PreRun(cmd *cobra.Command, args []string) {
	if p.timing {
		Enable()
	}
}

// Summary prints the timing tree if --timing was set.
func (p *CobraProfiler) Summary() {
	if p.timing {
		Summarize(p.out)
	}
}
