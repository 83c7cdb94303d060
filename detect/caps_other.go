//go:build !linux

package detect

import "github.com/leodido/featcheck"

func capabilityDetector(_ []uintptr) featcheck.Detector {
	return unsupported("capability probe")
}

// Sysctl returns a detector satisfied when every named sysctl
// (e.g. "net.core.bpf_jit_enable") holds a non-zero value.
// On non-Linux platforms it always fails with [ErrUnsupportedPlatform].
func Sysctl(_ ...string) featcheck.Detector {
	return unsupported("sysctl probe")
}
