//go:build !linux

package detect

import (
	"context"
	"fmt"

	"github.com/cilium/ebpf"
	"github.com/cilium/ebpf/asm"

	"github.com/leodido/featcheck"
)

func bpfTypesDetector(_ []ebpf.ProgramType, _ []ebpf.MapType) featcheck.Detector {
	return unsupported("eBPF probe")
}

func programHelperDetector(_ ebpf.ProgramType, _ []asm.BuiltinFunc) featcheck.Detector {
	return unsupported("eBPF probe")
}

// ELF returns a detector satisfied when the running kernel supports every
// program and map type used by the eBPF object file at path.
// On non-Linux platforms it always fails with [ErrUnsupportedPlatform].
func ELF(_ string) featcheck.Detector {
	return unsupported("eBPF probe")
}

func unsupported(what string) featcheck.Detector {
	return featcheck.DetectFunc(func(context.Context, string) (bool, error) {
		return false, fmt.Errorf("%s: %w", what, ErrUnsupportedPlatform)
	})
}
