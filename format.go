package featcheck

import (
	"fmt"
	"strings"
)

// String returns a human-readable summary of the run.
func (r *Result) String() string {
	var b strings.Builder

	if r.TargetOS != "" {
		fmt.Fprintf(&b, "Target: %s\n", r.TargetOS)
		b.WriteString("\n")
	}

	b.WriteString("Features:\n")
	for _, o := range r.Outcomes {
		writeOutcome(&b, "  "+o.Feature, o)
	}
	b.WriteString("\n")
	b.WriteString(r.Summary())

	return b.String()
}

// Summary returns the outcome counts and the satisfied identifiers.
func (r *Result) Summary() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Enabled: %d, skipped: %d, failed: %d\n",
		r.Count(OutcomeEnabled), r.Count(OutcomeSkipped), r.Count(OutcomeFailed))
	if r.Satisfied != nil && r.Satisfied.Len() > 0 {
		fmt.Fprintf(&b, "Satisfied: %s\n", strings.Join(r.Satisfied.Sorted(), ", "))
	}

	return b.String()
}

func writeOutcome(b *strings.Builder, name string, o Outcome) {
	switch o.Kind {
	case OutcomeEnabled:
		fmt.Fprintf(b, "%s: yes\n", name)
	default:
		fmt.Fprintf(b, "%s: %s (%s)\n", name, o.Kind, o.Reason)
	}
}
