// Package detect provides the built-in autodetection capabilities used by
// featcheck manifests.
//
// Each capability has a constructor returning a [featcheck.Detector] (for
// example [Command], [KernelConfig], [ProgramType]) and a kind name under
// which a [Registry] builds it from a declarative [Spec]:
//
//	reg := detect.NewRegistry()
//	d, err := reg.Build(detect.Spec{Kind: "kconfig", Args: []string{"BPF_LSM=y"}})
//
// Kernel, eBPF and capability probes are only available on Linux. Elsewhere
// their detectors fail with [ErrUnsupportedPlatform]; gate such features on
// the os_linux identifier.
package detect
