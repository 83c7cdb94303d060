// Package featcheck decides which optional features of a build are enabled.
//
// A configuration run walks a declarative, ordered list of [Feature] values.
// Each feature is checked once, in order, against a [SatisfiedSet] holding
// the identifiers of the features enabled before it. Later features can
// therefore depend on earlier ones, never the other way around.
//
// # Gating
//
// [Checker.Check] evaluates a feature in four stages and stops at the first
// terminal outcome:
//   - disabled: the toggle named [OptionName] is explicitly off → skipped
//   - dependencies: some of Deps are not satisfied → failed ("a, b not found")
//   - negative dependencies: all of DepsNeg are satisfied → skipped ("a found")
//   - autodetection: the [Detector] returns true → enabled, otherwise failed ("no")
//
// Negative dependencies only suppress a feature once the whole list is
// satisfied; a partial overlap does not.
//
// # Quick Start
//
//	features := []featcheck.Feature{
//	    {Name: "libbpf", Desc: "libbpf", Detect: detect.Command()},
//	    {Name: "bpf-tools", Desc: "BPF tools", Deps: []string{"libbpf", "os_linux"}, Detect: ...},
//	}
//	toggles := featcheck.Toggles{}
//	toggles.Disable("bpf-tools")
//
//	res, err := featcheck.Resolve(ctx, features,
//	    featcheck.WithTargetOS(featcheck.HostOS()),
//	    featcheck.WithOptions(toggles),
//	    featcheck.WithReporter(featcheck.NewConsoleReporter(os.Stdout, 0)),
//	)
//	if err != nil {
//	    var fe *featcheck.FeatureError
//	    if errors.As(err, &fe) {
//	        log.Fatalf("%s: %s", fe.Feature, fe.Reason)
//	    }
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Satisfied.Contains("libbpf"))
//
// # Satisfied Set Lifetime
//
// [Resolve] creates a fresh [SatisfiedSet] per call unless one is passed
// with [WithSatisfied]. A set is not safe for concurrent use.
package featcheck
