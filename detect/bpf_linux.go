//go:build linux

package detect

import (
	"context"
	"errors"
	"fmt"

	"github.com/cilium/ebpf"
	"github.com/cilium/ebpf/asm"
	"github.com/cilium/ebpf/features"

	"github.com/leodido/featcheck"
)

// Overridden in tests.
var (
	haveProgramType   = features.HaveProgramType
	haveMapType       = features.HaveMapType
	haveProgramHelper = features.HaveProgramHelper
)

func bpfTypesDetector(pts []ebpf.ProgramType, mts []ebpf.MapType) featcheck.Detector {
	return featcheck.DetectFunc(func(context.Context, string) (bool, error) {
		return haveBPFTypes(pts, mts)
	})
}

// haveBPFTypes reports whether every type is supported. ErrNotSupported
// means unsupported; any other probe error is returned.
func haveBPFTypes(pts []ebpf.ProgramType, mts []ebpf.MapType) (bool, error) {
	for _, pt := range pts {
		if err := haveProgramType(pt); err != nil {
			if errors.Is(err, ebpf.ErrNotSupported) {
				return false, nil
			}
			return false, fmt.Errorf("probe program type %s: %w", pt, err)
		}
	}
	for _, mt := range mts {
		if err := haveMapType(mt); err != nil {
			if errors.Is(err, ebpf.ErrNotSupported) {
				return false, nil
			}
			return false, fmt.Errorf("probe map type %s: %w", mt, err)
		}
	}
	return true, nil
}

// ELF returns a detector satisfied when the running kernel supports every
// program and map type used by the eBPF object file at path.
func ELF(path string) featcheck.Detector {
	return featcheck.DetectFunc(func(context.Context, string) (bool, error) {
		spec, err := ebpf.LoadCollectionSpec(path)
		if err != nil {
			return false, fmt.Errorf("ELF %q: load collection spec: %w", path, err)
		}
		pts, mts, err := typesFromCollectionSpec(spec)
		if err != nil {
			return false, fmt.Errorf("ELF %q: %w", path, err)
		}
		return haveBPFTypes(pts, mts)
	})
}

func programHelperDetector(pt ebpf.ProgramType, fns []asm.BuiltinFunc) featcheck.Detector {
	return featcheck.DetectFunc(func(context.Context, string) (bool, error) {
		for _, fn := range fns {
			if err := haveProgramHelper(pt, fn); err != nil {
				if errors.Is(err, ebpf.ErrNotSupported) {
					return false, nil
				}
				return false, fmt.Errorf("probe helper %s for program type %s: %w", fn, pt, err)
			}
		}
		return true, nil
	})
}
