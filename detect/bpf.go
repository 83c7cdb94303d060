package detect

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/cilium/ebpf"
	"github.com/cilium/ebpf/asm"

	"github.com/leodido/featcheck"
)

var knownProgramTypes = []ebpf.ProgramType{
	ebpf.SocketFilter,
	ebpf.Kprobe,
	ebpf.SchedCLS,
	ebpf.SchedACT,
	ebpf.TracePoint,
	ebpf.XDP,
	ebpf.PerfEvent,
	ebpf.CGroupSKB,
	ebpf.CGroupSock,
	ebpf.SockOps,
	ebpf.SkSKB,
	ebpf.CGroupDevice,
	ebpf.SkMsg,
	ebpf.RawTracepoint,
	ebpf.CGroupSockAddr,
	ebpf.FlowDissector,
	ebpf.CGroupSysctl,
	ebpf.Tracing,
	ebpf.StructOps,
	ebpf.Extension,
	ebpf.LSM,
	ebpf.SkLookup,
	ebpf.Syscall,
}

var knownMapTypes = []ebpf.MapType{
	ebpf.Hash,
	ebpf.Array,
	ebpf.ProgramArray,
	ebpf.PerfEventArray,
	ebpf.PerCPUHash,
	ebpf.PerCPUArray,
	ebpf.StackTrace,
	ebpf.LRUHash,
	ebpf.LRUCPUHash,
	ebpf.LPMTrie,
	ebpf.ArrayOfMaps,
	ebpf.HashOfMaps,
	ebpf.DevMap,
	ebpf.SockMap,
	ebpf.CPUMap,
	ebpf.XSKMap,
	ebpf.SockHash,
	ebpf.Queue,
	ebpf.Stack,
	ebpf.RingBuf,
}

// normalizeTypeName makes "raw-tracepoint", "raw_tracepoint" and
// "RawTracepoint" compare equal.
func normalizeTypeName(name string) string {
	return strings.ToLower(strings.NewReplacer("-", "", "_", "").Replace(strings.TrimSpace(name)))
}

// ParseProgramType resolves an eBPF program type name such as "kprobe",
// "raw-tracepoint" or "LSM".
func ParseProgramType(name string) (ebpf.ProgramType, error) {
	want := normalizeTypeName(name)
	for _, pt := range knownProgramTypes {
		if normalizeTypeName(pt.String()) == want {
			return pt, nil
		}
	}
	return ebpf.UnspecifiedProgram, fmt.Errorf("unknown program type %q", name)
}

// ParseMapType resolves an eBPF map type name such as "hash" or "ringbuf".
func ParseMapType(name string) (ebpf.MapType, error) {
	want := normalizeTypeName(name)
	for _, mt := range knownMapTypes {
		if normalizeTypeName(mt.String()) == want {
			return mt, nil
		}
	}
	return ebpf.UnspecifiedMap, fmt.Errorf("unknown map type %q", name)
}

// ProgramType returns a detector satisfied when the running kernel supports
// every named eBPF program type.
func ProgramType(names ...string) (featcheck.Detector, error) {
	if len(names) == 0 {
		return nil, errors.New("requires at least one program type")
	}
	pts := make([]ebpf.ProgramType, 0, len(names))
	for _, name := range names {
		pt, err := ParseProgramType(name)
		if err != nil {
			return nil, err
		}
		pts = append(pts, pt)
	}
	return bpfTypesDetector(pts, nil), nil
}

// MapType returns a detector satisfied when the running kernel supports
// every named eBPF map type.
func MapType(names ...string) (featcheck.Detector, error) {
	if len(names) == 0 {
		return nil, errors.New("requires at least one map type")
	}
	mts := make([]ebpf.MapType, 0, len(names))
	for _, name := range names {
		mt, err := ParseMapType(name)
		if err != nil {
			return nil, err
		}
		mts = append(mts, mt)
	}
	return bpfTypesDetector(nil, mts), nil
}

// ParseHelper resolves an eBPF helper name. "map_lookup_elem",
// "bpf_map_lookup_elem" and "FnMapLookupElem" all name the same helper.
func ParseHelper(name string) (asm.BuiltinFunc, error) {
	want := normalizeHelperName(name)
	for fn := asm.BuiltinFunc(1); fn < maxHelperID; fn++ {
		if normalizeHelperName(fn.String()) == want {
			return fn, nil
		}
	}
	return 0, fmt.Errorf("unknown helper %q", name)
}

// maxHelperID bounds the helper IDs searched by [ParseHelper].
const maxHelperID = 512

func normalizeHelperName(name string) string {
	n := normalizeTypeName(name)
	for _, prefix := range []string{"fn", "bpf"} {
		if trimmed, ok := strings.CutPrefix(n, prefix); ok {
			return trimmed
		}
	}
	return n
}

// ProgramHelper returns a detector satisfied when every named helper can be
// called from programs of the given type.
func ProgramHelper(programType string, helpers ...string) (featcheck.Detector, error) {
	if len(helpers) == 0 {
		return nil, errors.New("requires a program type and at least one helper")
	}
	pt, err := ParseProgramType(programType)
	if err != nil {
		return nil, err
	}
	fns := make([]asm.BuiltinFunc, 0, len(helpers))
	for _, name := range helpers {
		fn, err := ParseHelper(name)
		if err != nil {
			return nil, err
		}
		fns = append(fns, fn)
	}
	return programHelperDetector(pt, fns), nil
}

func buildProgramHelper(_ *Registry, spec Spec) (featcheck.Detector, error) {
	if len(spec.Args) < 2 {
		return nil, errors.New("requires a program type and at least one helper")
	}
	return ProgramHelper(spec.Args[0], spec.Args[1:]...)
}

func buildProgramType(_ *Registry, spec Spec) (featcheck.Detector, error) {
	return ProgramType(spec.Args...)
}

func buildMapType(_ *Registry, spec Spec) (featcheck.Detector, error) {
	return MapType(spec.Args...)
}

func buildELF(_ *Registry, spec Spec) (featcheck.Detector, error) {
	if len(spec.Args) != 1 {
		return nil, fmt.Errorf("requires exactly one ELF path, got %d arguments", len(spec.Args))
	}
	return ELF(spec.Args[0]), nil
}

// typesFromCollectionSpec lists the program and map types an eBPF object
// uses, deduplicated and sorted. Types outside the known lists are rejected
// so that an object is never reported as loadable on a partial check.
func typesFromCollectionSpec(spec *ebpf.CollectionSpec) ([]ebpf.ProgramType, []ebpf.MapType, error) {
	if spec == nil {
		return nil, nil, errors.New("nil collection spec")
	}
	pts, err := knownTypesOf("program", spec.Programs, func(p *ebpf.ProgramSpec) ebpf.ProgramType { return p.Type }, knownProgramTypes)
	if err != nil {
		return nil, nil, err
	}
	mts, err := knownTypesOf("map", spec.Maps, func(m *ebpf.MapSpec) ebpf.MapType { return m.Type }, knownMapTypes)
	if err != nil {
		return nil, nil, err
	}
	return pts, mts, nil
}

func knownTypesOf[T cmp.Ordered, S any](what string, specs map[string]*S, typeOf func(*S) T, known []T) ([]T, error) {
	seen := make(map[T]struct{}, len(specs))
	for name, s := range specs {
		if s == nil {
			return nil, fmt.Errorf("%s %q: no spec", what, name)
		}
		t := typeOf(s)
		if !slices.Contains(known, t) {
			return nil, fmt.Errorf("%s %q: unsupported %s type %v", what, name, what, t)
		}
		seen[t] = struct{}{}
	}
	return slices.Sorted(maps.Keys(seen)), nil
}
