package featcheck

import (
	"context"
	"strings"
)

// Checker runs the gating pipeline for single features against a shared
// [SatisfiedSet].
type Checker struct {
	satisfied *SatisfiedSet
	options   Options
	reporter  Reporter
}

// NewChecker returns a Checker bound to satisfied. A nil options leaves
// every feature enabled and a nil reporter discards notices.
func NewChecker(satisfied *SatisfiedSet, options Options, reporter Reporter) *Checker {
	if satisfied == nil {
		satisfied = NewSatisfiedSet()
	}
	if options == nil {
		options = Toggles(nil)
	}
	if reporter == nil {
		reporter = NopReporter{}
	}
	return &Checker{satisfied: satisfied, options: options, reporter: reporter}
}

// Satisfied returns the set the checker reads and updates.
func (c *Checker) Satisfied() *SatisfiedSet {
	return c.satisfied
}

// Check evaluates f in four stages: disabled toggle, positive dependencies,
// negative dependencies and autodetection. The first stage reaching a
// terminal outcome ends the pipeline. Only a successful autodetection adds
// f.Name to the satisfied set.
//
// A *[FeatureError] is returned when the autodetection itself fails or f
// has no [Detector]; the outcome is then meaningless.
func (c *Checker) Check(ctx context.Context, f Feature) (Outcome, error) {
	c.reporter.Start("Checking for " + f.Desc)

	for _, stage := range []func(Feature) (Outcome, bool){
		c.checkDisabled,
		c.checkDependencies,
		c.checkNegativeDependencies,
	} {
		if o, done := stage(f); done {
			c.reporter.End(o.Message(), o.Severity())
			return o, nil
		}
	}

	o, err := c.checkAutodetect(ctx, f)
	if err != nil {
		c.reporter.End("error: "+err.Error(), SeverityError)
		return Outcome{}, err
	}
	c.reporter.End(o.Message(), o.Severity())
	return o, nil
}

func (c *Checker) checkDisabled(f Feature) (Outcome, bool) {
	if c.options.Toggle(f.OptionName()) == ToggleOff {
		return Skipped(f.Name, "disabled"), true
	}
	return Outcome{}, false
}

func (c *Checker) checkDependencies(f Feature) (Outcome, bool) {
	if len(f.Deps) == 0 || c.satisfied.ContainsAll(f.Deps) {
		return Outcome{}, false
	}
	missing := c.satisfied.Missing(f.Deps)
	return Failed(f.Name, strings.Join(missing, ", ")+" not found"), true
}

// checkNegativeDependencies skips f only when every negative dependency is
// satisfied; a partial overlap lets the pipeline continue.
func (c *Checker) checkNegativeDependencies(f Feature) (Outcome, bool) {
	if len(f.DepsNeg) == 0 || !c.satisfied.ContainsAll(f.DepsNeg) {
		return Outcome{}, false
	}
	found := c.satisfied.Intersect(f.DepsNeg)
	return Skipped(f.Name, strings.Join(found, ", ")+" found"), true
}

func (c *Checker) checkAutodetect(ctx context.Context, f Feature) (Outcome, error) {
	if f.Detect == nil {
		return Outcome{}, &FeatureError{Feature: f.Name, Reason: "no autodetection function"}
	}
	ok, err := f.Detect.Detect(ctx, f.Name)
	if err != nil {
		return Outcome{}, &FeatureError{Feature: f.Name, Reason: "autodetection failed", Err: err}
	}
	if !ok {
		return Failed(f.Name, "no"), nil
	}
	c.satisfied.Add(f.Name)
	return Enabled(f.Name), nil
}
