package featcheck

import (
	"context"
	"fmt"
)

// Detector is the autodetection capability of a [Feature].
//
// Detect reports whether the capability behind the feature identified by id
// is available. A non-nil error means the probe itself could not run, which
// is different from the capability being absent.
type Detector interface {
	Detect(ctx context.Context, id string) (bool, error)
}

// DetectFunc adapts a plain function to the [Detector] interface.
type DetectFunc func(ctx context.Context, id string) (bool, error)

// Detect calls f(ctx, id).
func (f DetectFunc) Detect(ctx context.Context, id string) (bool, error) {
	return f(ctx, id)
}

// Feature is a named, independently toggleable unit of build configuration.
type Feature struct {
	// Name is the unique identifier of the feature.
	Name string
	// Desc is a human-readable description, used only for reporting.
	Desc string
	// Deps lists identifiers that must all be satisfied before this feature is probed.
	Deps []string
	// DepsNeg lists identifiers that suppress this feature once all of them are satisfied.
	DepsNeg []string
	// Detect probes the feature's underlying capability.
	Detect Detector
}

// OptionName returns the name of the toggle that can disable f.
func (f Feature) OptionName() string {
	return OptionName(f.Name)
}

// OptionName derives the toggle name for the feature identifier id.
func OptionName(id string) string {
	return "enable_" + id
}

// FeatureError represents an error that prevented a feature from being checked.
type FeatureError struct {
	Feature string
	Reason  string
	Err     error
}

func (e *FeatureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("feature %s: %s: %v", e.Feature, e.Reason, e.Err)
	}
	return fmt.Sprintf("feature %s: %s", e.Feature, e.Reason)
}

func (e *FeatureError) Unwrap() error {
	return e.Err
}

// Toggle is the tri-state value of a feature option.
type Toggle int

const (
	// ToggleUnset means the option was not given; the feature is not disabled.
	ToggleUnset Toggle = iota
	// ToggleOn means the feature was explicitly enabled.
	ToggleOn
	// ToggleOff means the feature was explicitly disabled.
	ToggleOff
)

func (t Toggle) String() string {
	switch t {
	case ToggleUnset:
		return "unset"
	case ToggleOn:
		return "on"
	case ToggleOff:
		return "off"
	default:
		return fmt.Sprintf("Toggle(%d)", t)
	}
}

// Options looks up feature toggles by option name (see [OptionName]).
// Options that are not defined must return [ToggleUnset].
type Options interface {
	Toggle(name string) Toggle
}

// Toggles is an [Options] backed by a map keyed by option name.
// The zero value is ready to use and leaves every option unset.
type Toggles map[string]Toggle

// Toggle returns the toggle stored under name, or [ToggleUnset].
func (t Toggles) Toggle(name string) Toggle {
	return t[name]
}

// Enable marks the feature identified by id as explicitly enabled.
func (t *Toggles) Enable(id string) {
	t.set(id, ToggleOn)
}

// Disable marks the feature identified by id as explicitly disabled.
func (t *Toggles) Disable(id string) {
	t.set(id, ToggleOff)
}

func (t *Toggles) set(id string, v Toggle) {
	if *t == nil {
		*t = Toggles{}
	}
	(*t)[OptionName(id)] = v
}

// OutcomeKind classifies the result of checking a feature.
type OutcomeKind int

const (
	// OutcomeEnabled means autodetection succeeded and the feature is satisfied.
	OutcomeEnabled OutcomeKind = iota
	// OutcomeSkipped means the feature was disabled or suppressed by its negative dependencies.
	OutcomeSkipped
	// OutcomeFailed means a positive dependency was missing or autodetection returned false.
	OutcomeFailed
)

var outcomeKindNames = map[OutcomeKind]string{
	OutcomeEnabled: "enabled",
	OutcomeSkipped: "skipped",
	OutcomeFailed:  "failed",
}

func (k OutcomeKind) String() string {
	if name, ok := outcomeKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("OutcomeKind(%d)", k)
}

// MarshalText encodes k by name.
func (k OutcomeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name produced by [OutcomeKind.MarshalText].
func (k *OutcomeKind) UnmarshalText(text []byte) error {
	for kind, name := range outcomeKindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown outcome kind %q", text)
}

// Outcome is the result of checking one feature.
type Outcome struct {
	Feature string      `json:"feature"`
	Kind    OutcomeKind `json:"kind"`
	Reason  string      `json:"reason,omitempty"`
}

// Enabled returns the outcome of a feature whose autodetection succeeded.
func Enabled(id string) Outcome {
	return Outcome{Feature: id, Kind: OutcomeEnabled}
}

// Skipped returns the outcome of a feature that was not probed.
func Skipped(id, reason string) Outcome {
	return Outcome{Feature: id, Kind: OutcomeSkipped, Reason: reason}
}

// Failed returns the outcome of a feature that is unavailable.
func Failed(id, reason string) Outcome {
	return Outcome{Feature: id, Kind: OutcomeFailed, Reason: reason}
}

// Message returns the text of the terminal notice for o.
func (o Outcome) Message() string {
	if o.Kind == OutcomeEnabled {
		return "yes"
	}
	return o.Reason
}

// Severity returns the display severity of the terminal notice for o.
func (o Outcome) Severity() Severity {
	switch o.Kind {
	case OutcomeSkipped:
		return SeverityWarn
	case OutcomeFailed:
		return SeverityError
	default:
		return SeverityNormal
	}
}

func (o Outcome) String() string {
	return fmt.Sprintf("%s: %s (%s)", o.Feature, o.Kind, o.Message())
}

// Severity is the visual marker attached to a terminal notice.
type Severity int

const (
	// SeverityNormal is used for successful checks and informational notices.
	SeverityNormal Severity = iota
	// SeverityWarn is used for skipped features.
	SeverityWarn
	// SeverityError is used for failed features.
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityNormal:
		return "normal"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("Severity(%d)", s)
	}
}
