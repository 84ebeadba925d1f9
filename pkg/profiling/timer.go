// Package profiling records how long each profile and check of a run took
// and prints the tree when --timing is set.
package profiling

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Stopper ends a span started with Start.
type Stopper interface {
	Stop()
}

type span struct {
	name     string
	start    time.Time
	duration time.Duration
	children []*span
	profiler *Profiler
}

// Stop completes the span.
func (s *span) Stop() {
	s.profiler.endSpan(s)
}

// Profiler keeps a stack of open spans. Spans started while another is open
// become its children.
type Profiler struct {
	mu      sync.Mutex
	enabled bool
	now     func() time.Time
	root    *span
	stack   []*span
}

// NewProfiler returns a disabled profiler.
func NewProfiler() *Profiler {
	return &Profiler{now: time.Now}
}

var defaultProfiler = NewProfiler()

// Enable turns on the package profiler.
func Enable() { defaultProfiler.Enable() }

// Start opens a span on the package profiler.
func Start(name string) Stopper { return defaultProfiler.Start(name) }

// Summarize writes the package profiler's tree to w.
func Summarize(w io.Writer) { defaultProfiler.Summarize(w) }

// Enable starts the session. Calling it again has no effect.
func (p *Profiler) Enable() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.enabled {
		return
	}
	p.enabled = true
	p.root = &span{name: "total", start: p.now(), profiler: p}
	p.stack = []*span{p.root}
}

// Start opens a span named name. It is a no-op until Enable is called.
func (p *Profiler) Start(name string) Stopper {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled {
		return noopStopper{}
	}
	parent := p.stack[len(p.stack)-1]
	s := &span{name: name, start: p.now(), profiler: p}
	parent.children = append(parent.children, s)
	p.stack = append(p.stack, s)
	return s
}

func (p *Profiler) endSpan(s *span) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s.duration = p.now().Sub(s.start)
	for i := len(p.stack) - 1; i > 0; i-- {
		if p.stack[i] == s {
			p.stack = p.stack[:i]
			return
		}
	}
}

// Summarize writes every span with its duration and share of the total.
func (p *Profiler) Summarize(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled {
		return
	}
	total := p.now().Sub(p.root.start)

	fmt.Fprintf(w, "\n--- Timing (%v) ---\n", total.Round(time.Millisecond))
	for _, child := range p.root.children {
		printSpan(w, child, 0, total)
	}
}

func printSpan(w io.Writer, s *span, depth int, total time.Duration) {
	percentage := 0.0
	if total > 0 {
		percentage = float64(s.duration) / float64(total) * 100
	}
	fmt.Fprintf(w, "%s- %s (%v, %.1f%%)\n",
		strings.Repeat("  ", depth), s.name, s.duration.Round(time.Millisecond), percentage)
	for _, child := range s.children {
		printSpan(w, child, depth+1, total)
	}
}

type noopStopper struct{}

func (noopStopper) Stop() {}
