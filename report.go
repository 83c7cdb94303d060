package featcheck

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Reporter receives progress notices while features are checked.
//
// Every check produces exactly one Start followed by one End.
type Reporter interface {
	// Start announces a check, e.g. "Checking for libbpf".
	Start(msg string)
	// End reports the result of the check started last.
	End(msg string, sev Severity)
}

// NopReporter discards all notices.
type NopReporter struct{}

func (NopReporter) Start(string)         {}
func (NopReporter) End(string, Severity) {}

type multiReporter []Reporter

// MultiReporter returns a Reporter that forwards every notice to each of rs.
func MultiReporter(rs ...Reporter) Reporter {
	var out multiReporter
	for _, r := range rs {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

func (m multiReporter) Start(msg string) {
	for _, r := range m {
		r.Start(msg)
	}
}

func (m multiReporter) End(msg string, sev Severity) {
	for _, r := range m {
		r.End(msg, sev)
	}
}

// Notice is one check as seen by a [Recorder].
type Notice struct {
	Start    string
	End      string
	Severity Severity
}

// Recorder keeps notices in memory.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Start(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, Notice{Start: msg})
}

func (r *Recorder) End(msg string, sev Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		r.notices = append(r.notices, Notice{})
	}
	last := &r.notices[len(r.notices)-1]
	last.End = msg
	last.Severity = sev
}

// Notices returns a copy of the recorded notices.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

// DefaultColumn is the width the start notice is padded to by [ConsoleReporter].
const DefaultColumn = 40

// ConsoleReporter writes one line per check:
//
//	Checking for libbpf                     : yes
//
// Skip reasons are rendered yellow and failures red when w is a terminal.
type ConsoleReporter struct {
	w      io.Writer
	column int
	warn   lipgloss.Style
	fail   lipgloss.Style
}

// NewConsoleReporter returns a ConsoleReporter writing to w. A column of
// zero or less selects [DefaultColumn].
func NewConsoleReporter(w io.Writer, column int) *ConsoleReporter {
	if column <= 0 {
		column = DefaultColumn
	}
	renderer := lipgloss.NewRenderer(w)
	return &ConsoleReporter{
		w:      w,
		column: column,
		warn:   renderer.NewStyle().Foreground(lipgloss.Color("3")),
		fail:   renderer.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
}

func (c *ConsoleReporter) Start(msg string) {
	pad := c.column - lipgloss.Width(msg)
	if pad < 1 {
		pad = 1
	}
	fmt.Fprint(c.w, msg+strings.Repeat(" ", pad)+": ")
}

func (c *ConsoleReporter) End(msg string, sev Severity) {
	switch sev {
	case SeverityWarn:
		msg = c.warn.Render(msg)
	case SeverityError:
		msg = c.fail.Render(msg)
	}
	fmt.Fprintln(c.w, msg)
}
