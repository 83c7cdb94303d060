package detect

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/leodido/featcheck"
)

var (
	// ErrUnsupportedPlatform is returned by probes that need Linux.
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	// ErrUnknownKind is returned when a [Spec] names no registered detector.
	ErrUnknownKind = errors.New("unknown detector kind")
)

// Spec declares an autodetection capability.
type Spec struct {
	// Kind selects the detector, e.g. "pkgconfig" or "kconfig".
	Kind string `yaml:"kind" toml:"kind" json:"kind" validate:"required"`
	// Args are the kind-specific arguments.
	Args []string `yaml:"args,omitempty" toml:"args,omitempty" json:"args,omitempty"`
	// Checks are the nested specs of the "all" and "any" kinds.
	Checks []Spec `yaml:"checks,omitempty" toml:"checks,omitempty" json:"checks,omitempty" validate:"omitempty,dive"`
}

// SpecError reports a [Spec] that could not be built.
type SpecError struct {
	Kind string
	Err  error
}

func (e *SpecError) Error() string {
	return fmt.Sprintf("detector %q: %v", e.Kind, e.Err)
}

func (e *SpecError) Unwrap() error {
	return e.Err
}

// Builder creates a detector from its spec.
type Builder func(r *Registry, spec Spec) (featcheck.Detector, error)

// Registry maps detector kinds to builders.
type Registry struct {
	builders map[string]Builder
}

// NewRegistry returns a Registry holding every built-in kind.
func NewRegistry() *Registry {
	r := &Registry{builders: map[string]Builder{}}
	r.Register("true", noArgs(True))
	r.Register("false", noArgs(False))
	r.Register("env", buildEnv)
	r.Register("file", atLeastOne(File))
	r.Register("command", variadic(Command))
	r.Register("pkgconfig", variadic(PkgConfig))
	r.Register("sysctl", atLeastOne(Sysctl))
	r.Register("all", buildComposite(All))
	r.Register("any", buildComposite(Any))
	r.Register("kconfig", buildKernelConfig)
	r.Register("program-type", buildProgramType)
	r.Register("map-type", buildMapType)
	r.Register("program-helper", buildProgramHelper)
	r.Register("elf", buildELF)
	r.Register("lsm", atLeastOne(LSM))
	r.Register("capability", buildCapability)
	return r
}

// Register adds or replaces the builder for kind.
func (r *Registry) Register(kind string, b Builder) {
	r.builders[kind] = b
}

// Kinds returns the registered kinds in lexical order.
func (r *Registry) Kinds() []string {
	return slices.Sorted(maps.Keys(r.builders))
}

// Build creates the detector declared by spec.
func (r *Registry) Build(spec Spec) (featcheck.Detector, error) {
	b, ok := r.builders[spec.Kind]
	if !ok {
		return nil, &SpecError{Kind: spec.Kind, Err: ErrUnknownKind}
	}
	d, err := b(r, spec)
	if err != nil {
		var se *SpecError
		if errors.As(err, &se) {
			return nil, err
		}
		return nil, &SpecError{Kind: spec.Kind, Err: err}
	}
	return d, nil
}

func noArgs(fn func() featcheck.Detector) Builder {
	return func(_ *Registry, spec Spec) (featcheck.Detector, error) {
		if len(spec.Args) > 0 {
			return nil, fmt.Errorf("takes no arguments, got %d", len(spec.Args))
		}
		return fn(), nil
	}
}

func variadic(fn func(...string) featcheck.Detector) Builder {
	return func(_ *Registry, spec Spec) (featcheck.Detector, error) {
		return fn(spec.Args...), nil
	}
}

func atLeastOne(fn func(...string) featcheck.Detector) Builder {
	return func(_ *Registry, spec Spec) (featcheck.Detector, error) {
		if len(spec.Args) == 0 {
			return nil, errors.New("requires at least one argument")
		}
		return fn(spec.Args...), nil
	}
}

func buildEnv(_ *Registry, spec Spec) (featcheck.Detector, error) {
	switch len(spec.Args) {
	case 1:
		return Env(spec.Args[0]), nil
	case 2:
		return EnvEquals(spec.Args[0], spec.Args[1]), nil
	default:
		return nil, fmt.Errorf("requires NAME or NAME VALUE, got %d arguments", len(spec.Args))
	}
}

func buildComposite(fn func(...featcheck.Detector) featcheck.Detector) Builder {
	return func(r *Registry, spec Spec) (featcheck.Detector, error) {
		if len(spec.Args) > 0 {
			return nil, errors.New("takes nested checks, not arguments")
		}
		ds := make([]featcheck.Detector, 0, len(spec.Checks))
		for _, nested := range spec.Checks {
			d, err := r.Build(nested)
			if err != nil {
				return nil, err
			}
			ds = append(ds, d)
		}
		return fn(ds...), nil
	}
}
