package detect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leodido/featcheck"
)

// Linux capability numbers from <linux/capability.h>.
var capabilities = map[string]uintptr{
	"CAP_CHOWN":              0,
	"CAP_DAC_OVERRIDE":       1,
	"CAP_NET_BIND_SERVICE":   10,
	"CAP_NET_ADMIN":          12,
	"CAP_NET_RAW":            13,
	"CAP_IPC_LOCK":           14,
	"CAP_SYS_MODULE":         16,
	"CAP_SYS_PTRACE":         19,
	"CAP_SYS_ADMIN":          21,
	"CAP_SYS_RESOURCE":       24,
	"CAP_PERFMON":            38, // kernel 5.8+
	"CAP_BPF":                39, // kernel 5.8+
	"CAP_CHECKPOINT_RESTORE": 40,
}

func parseCapability(name string) (uintptr, error) {
	key := strings.ToUpper(strings.TrimSpace(name))
	if !strings.HasPrefix(key, "CAP_") {
		key = "CAP_" + key
	}
	c, ok := capabilities[key]
	if !ok {
		return 0, fmt.Errorf("unknown capability %q", name)
	}
	return c, nil
}

// Capability returns a detector satisfied when the current process has
// every named capability (e.g. "CAP_BPF" or "bpf") in its effective set.
func Capability(names ...string) (featcheck.Detector, error) {
	if len(names) == 0 {
		return nil, errors.New("requires at least one capability")
	}
	caps := make([]uintptr, 0, len(names))
	for _, name := range names {
		c, err := parseCapability(name)
		if err != nil {
			return nil, err
		}
		caps = append(caps, c)
	}
	return capabilityDetector(caps), nil
}

func buildCapability(_ *Registry, spec Spec) (featcheck.Detector, error) {
	return Capability(spec.Args...)
}

// sysctlPath maps "net.core.bpf_jit_enable" to its file under root.
// Names containing a slash are taken as paths relative to root.
func sysctlPath(root, name string) string {
	name = strings.TrimSpace(name)
	if strings.HasPrefix(name, "/") {
		return name
	}
	if !strings.Contains(name, "/") {
		name = strings.ReplaceAll(name, ".", "/")
	}
	return strings.TrimSuffix(root, "/") + "/" + name
}
