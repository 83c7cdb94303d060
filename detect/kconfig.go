package detect

import (
	"bufio"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/leodido/featcheck"
)

// ErrNoKernelConfig is returned when no kernel config source is available.
var ErrNoKernelConfig = errors.New("no kernel config found")

// ConfigValue represents a kernel configuration option's state.
type ConfigValue int

const (
	// ConfigNotSet means the option is not set or not found.
	ConfigNotSet ConfigValue = iota
	// ConfigModule means the option is set to =m (module).
	ConfigModule
	// ConfigBuiltin means the option is set to =y (built-in).
	ConfigBuiltin
)

// IsEnabled returns true if the config option is set (either =m or =y).
func (v ConfigValue) IsEnabled() bool {
	return v == ConfigModule || v == ConfigBuiltin
}

func (v ConfigValue) String() string {
	switch v {
	case ConfigNotSet:
		return "not set"
	case ConfigModule:
		return "m"
	case ConfigBuiltin:
		return "y"
	default:
		return fmt.Sprintf("ConfigValue(%d)", v)
	}
}

// Kconfig holds parsed kernel configuration values.
type Kconfig struct {
	raw map[string]ConfigValue
}

// NewKconfig creates a Kconfig from a raw config map keyed without the
// CONFIG_ prefix. The map is copied.
func NewKconfig(raw map[string]ConfigValue) *Kconfig {
	copied := make(map[string]ConfigValue, len(raw))
	for k, v := range raw {
		copied[k] = v
	}
	return &Kconfig{raw: copied}
}

// Get returns the ConfigValue for a kernel config key.
// The key should not include the CONFIG_ prefix.
func (kc *Kconfig) Get(key string) ConfigValue {
	if kc == nil || kc.raw == nil {
		return ConfigNotSet
	}
	return kc.raw[key]
}

// readKconfigFile parses one kernel config file, gunzipping paths ending
// in .gz.
func readKconfigFile(path string) (*Kconfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if !strings.HasSuffix(path, ".gz") {
		return parseConfig(f)
	}
	gr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defer gr.Close()
	return parseConfig(gr)
}

// firstKconfig parses the first readable candidate, in order.
func firstKconfig(candidates func() ([]string, error)) (*Kconfig, error) {
	paths, err := candidates()
	if err != nil {
		return nil, err
	}
	errs := make([]error, 0, len(paths))
	for _, path := range paths {
		kc, err := readKconfigFile(path)
		if err == nil {
			return kc, nil
		}
		errs = append(errs, err)
	}
	return nil, fmt.Errorf("%w: %w", ErrNoKernelConfig, errors.Join(errs...))
}

// parseConfig extracts CONFIG_* entries with =y (builtin) or =m (module)
// values. Other values (strings, numbers) are ignored.
func parseConfig(r io.Reader) (*Kconfig, error) {
	raw := make(map[string]ConfigValue)
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || !strings.HasPrefix(line, "CONFIG_") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimPrefix(key, "CONFIG_")

		switch value {
		case "y":
			raw[key] = ConfigBuiltin
		case "m":
			raw[key] = ConfigModule
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return NewKconfig(raw), nil
}

// The running kernel's config does not change, so it is read at most once.
var (
	cachedKconfig *Kconfig
	kconfigErr    error
	kconfigLoaded bool
	kconfigMu     sync.Mutex
)

func loadKconfig() (*Kconfig, error) {
	kconfigMu.Lock()
	defer kconfigMu.Unlock()

	if !kconfigLoaded {
		cachedKconfig, kconfigErr = firstKconfig(kernelConfigPaths)
		kconfigLoaded = true
	}
	return cachedKconfig, kconfigErr
}

// ResetKernelConfigCache forces the next kernel config detector to re-read
// the running kernel's configuration.
func ResetKernelConfigCache() {
	kconfigMu.Lock()
	defer kconfigMu.Unlock()
	cachedKconfig, kconfigErr, kconfigLoaded = nil, nil, false
}

type kconfigRequirement struct {
	key  string
	want string // "", "y", "m" or "n"
}

func (r kconfigRequirement) satisfiedBy(kc *Kconfig) bool {
	v := kc.Get(r.key)
	switch r.want {
	case "y":
		return v == ConfigBuiltin
	case "m":
		return v == ConfigModule
	case "n":
		return v == ConfigNotSet
	default:
		return v.IsEnabled()
	}
}

func parseKconfigRequirement(s string) (kconfigRequirement, error) {
	key, want, _ := strings.Cut(strings.TrimSpace(s), "=")
	key = strings.TrimPrefix(key, "CONFIG_")
	if key == "" {
		return kconfigRequirement{}, fmt.Errorf("empty kernel config key in %q", s)
	}
	switch want {
	case "", "y", "m", "n":
	default:
		return kconfigRequirement{}, fmt.Errorf("kernel config %s: unsupported value %q (want y, m or n)", key, want)
	}
	return kconfigRequirement{key: key, want: want}, nil
}

// KernelConfig returns a detector satisfied when the running kernel's
// configuration meets every requirement. A requirement is a key, with or
// without the CONFIG_ prefix, optionally followed by =y (built-in), =m
// (module) or =n (not set); a bare key accepts =y and =m.
//
// A kernel without a readable configuration satisfies no requirement.
func KernelConfig(reqs ...string) (featcheck.Detector, error) {
	return kernelConfigWith(loadKconfig, reqs...)
}

func kernelConfigWith(load func() (*Kconfig, error), reqs ...string) (featcheck.Detector, error) {
	if len(reqs) == 0 {
		return nil, errors.New("requires at least one kernel config key")
	}
	parsed := make([]kconfigRequirement, 0, len(reqs))
	for _, s := range reqs {
		r, err := parseKconfigRequirement(s)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, r)
	}

	return featcheck.DetectFunc(func(context.Context, string) (bool, error) {
		kc, err := load()
		if errors.Is(err, ErrNoKernelConfig) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		for _, r := range parsed {
			if !r.satisfiedBy(kc) {
				return false, nil
			}
		}
		return true, nil
	}), nil
}

func buildKernelConfig(_ *Registry, spec Spec) (featcheck.Detector, error) {
	return KernelConfig(spec.Args...)
}
