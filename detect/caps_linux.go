//go:build linux

package detect

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/leodido/featcheck"
)

const defaultSysctlRoot = "/proc/sys"

// Overridden in tests.
var sysctlRoot = defaultSysctlRoot

func capabilityDetector(caps []uintptr) featcheck.Detector {
	return featcheck.DetectFunc(func(context.Context, string) (bool, error) {
		effective, err := effectiveCapabilities()
		if err != nil {
			return false, fmt.Errorf("read process capabilities: %w", err)
		}
		for _, c := range caps {
			if effective&(1<<c) == 0 {
				return false, nil
			}
		}
		return true, nil
	})
}

// effectiveCapabilities returns the effective capability set of the
// current process as a bitmask.
func effectiveCapabilities() (uint64, error) {
	hdr := unix.CapUserHeader{Version: unix.LINUX_CAPABILITY_VERSION_3}
	var data [2]unix.CapUserData
	if err := unix.Capget(&hdr, &data[0]); err != nil {
		return 0, err
	}
	return uint64(data[0].Effective) | uint64(data[1].Effective)<<32, nil
}

// Sysctl returns a detector satisfied when every named sysctl
// (e.g. "net.core.bpf_jit_enable") holds a non-zero value.
// A sysctl that does not exist is not satisfied.
func Sysctl(names ...string) featcheck.Detector {
	return featcheck.DetectFunc(func(context.Context, string) (bool, error) {
		for _, name := range names {
			ok, err := sysctlNonZero(sysctlPath(sysctlRoot, name))
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	})
}

// sysctlNonZero reads a sysctl file and reports whether its value is a
// non-zero integer.
func sysctlNonZero(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	val := strings.TrimSpace(string(data))
	return val != "0" && val != "", nil
}
