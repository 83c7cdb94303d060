package featcheck

import (
	"context"
	"runtime"
)

// resolveConfig holds the configuration for a resolve operation.
type resolveConfig struct {
	options   Options
	reporter  Reporter
	satisfied *SatisfiedSet
	targetOS  string
}

// Option configures [Resolve].
type Option func(*resolveConfig)

// WithOptions sets the source of feature toggles.
func WithOptions(o Options) Option {
	return func(c *resolveConfig) {
		c.options = o
	}
}

// WithReporter sets the sink for progress notices.
func WithReporter(r Reporter) Option {
	return func(c *resolveConfig) {
		c.reporter = r
	}
}

// WithSatisfied makes [Resolve] read and extend s instead of a fresh set.
// Use it to carry satisfied features across several runs; s must not be
// shared by concurrent runs.
func WithSatisfied(s *SatisfiedSet) Option {
	return func(c *resolveConfig) {
		c.satisfied = s
	}
}

// WithTargetOS seeds the satisfied set with os_<target> before any feature
// is checked (see [SeedTargetOS]).
func WithTargetOS(target string) Option {
	return func(c *resolveConfig) {
		c.targetOS = target
	}
}

// Result is the outcome of a configuration run.
type Result struct {
	// TargetOS is the seeded os_<target> identifier, empty if none.
	TargetOS string `json:"target_os,omitempty"`
	// Outcomes holds one entry per checked feature, in input order.
	Outcomes []Outcome `json:"outcomes"`
	// Satisfied is the set at the end of the run.
	Satisfied *SatisfiedSet `json:"satisfied"`
}

// Outcome returns the outcome recorded for the feature id.
// Returns false as the second value if id was not checked.
func (r *Result) Outcome(id string) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Feature == id {
			return o, true
		}
	}
	return Outcome{}, false
}

// Names returns the features that resolved to kind, in input order.
func (r *Result) Names(kind OutcomeKind) []string {
	var names []string
	for _, o := range r.Outcomes {
		if o.Kind == kind {
			names = append(names, o.Feature)
		}
	}
	return names
}

// Count returns how many features resolved to kind.
func (r *Result) Count(kind OutcomeKind) int {
	return len(r.Names(kind))
}

// Resolve checks features in input order. Every feature sees the
// satisfied identifiers of the features before it and is checked once.
//
// Skipped and failed features never stop the run. A detector error does:
// Resolve then returns the outcomes gathered so far together with a
// *[FeatureError].
func Resolve(ctx context.Context, features []Feature, opts ...Option) (*Result, error) {
	cfg := &resolveConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.satisfied == nil {
		cfg.satisfied = NewSatisfiedSet()
	}
	if cfg.reporter == nil {
		cfg.reporter = NopReporter{}
	}

	res := &Result{
		Outcomes:  make([]Outcome, 0, len(features)),
		Satisfied: cfg.satisfied,
	}
	if cfg.targetOS != "" {
		res.TargetOS = SeedTargetOS(cfg.satisfied, cfg.targetOS, cfg.reporter)
	}

	checker := NewChecker(cfg.satisfied, cfg.options, cfg.reporter)
	for _, f := range features {
		o, err := checker.Check(ctx, f)
		if err != nil {
			return res, err
		}
		res.Outcomes = append(res.Outcomes, o)
	}
	return res, nil
}

// SeedTargetOS reports the deployment target and adds its os_<target>
// identifier to s. It returns the identifier.
func SeedTargetOS(s *SatisfiedSet, target string, r Reporter) string {
	id := "os_" + target
	if r == nil {
		r = NopReporter{}
	}
	r.Start("Detected target OS:")
	r.End(id, SeverityNormal)
	s.Add(id)
	return id
}

// HostOS returns the operating system featcheck is running on, in the form
// used by [WithTargetOS].
func HostOS() string {
	return runtime.GOOS
}
