package manifest

import (
	"fmt"
	"slices"
	"strings"
)

// TargetOSPrefix marks identifiers seeded from the target platform
// rather than declared in the manifest.
const TargetOSPrefix = "os_"

// Warning is a lint finding about a feature's dependencies. None of
// these stop a run; they flag dependencies that cannot behave as written.
type Warning struct {
	Feature string
	Message string
}

func (w Warning) String() string {
	return w.Feature + ": " + w.Message
}

// Lint reports dependency references that can never be satisfied in
// declaration order, plus self and contradictory references.
func (m *Manifest) Lint() []Warning {
	index := make(map[string]int, len(m.Features))
	for i, e := range m.Features {
		if _, ok := index[e.Name]; !ok {
			index[e.Name] = i
		}
	}

	var warnings []Warning
	warn := func(feature, format string, args ...any) {
		warnings = append(warnings, Warning{Feature: feature, Message: fmt.Sprintf(format, args...)})
	}

	for i, e := range m.Features {
		for _, ref := range []struct {
			field string
			ids   []string
		}{{"deps", e.Deps}, {"deps_neg", e.DepsNeg}} {
			for _, id := range ref.ids {
				at, declared := index[id]
				switch {
				case id == e.Name:
					warn(e.Name, "%s references the feature itself", ref.field)
				case declared && at > i:
					warn(e.Name, "%s references %q, declared later", ref.field, id)
				case !declared && !strings.HasPrefix(id, TargetOSPrefix):
					warn(e.Name, "%s references unknown feature %q", ref.field, id)
				}
			}
		}

		for _, id := range e.Deps {
			if slices.Contains(e.DepsNeg, id) {
				warn(e.Name, "%q is in both deps and deps_neg", id)
			}
		}
	}

	return warnings
}
