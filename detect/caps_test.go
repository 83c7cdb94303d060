package detect

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCapability(t *testing.T) {
	tests := map[string]uintptr{
		"CAP_BPF":       39,
		"cap_perfmon":   38,
		"sys_admin":     21,
		" CAP_NET_RAW ": 13,
	}
	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := parseCapability(name)
			require.NoError(t, err)
			require.Equal(t, want, got)
		})
	}

	_, err := parseCapability("CAP_TIME_TRAVEL")
	require.ErrorContains(t, err, "unknown capability")

	_, err = Capability()
	require.Error(t, err)
}

func TestSysctlPath(t *testing.T) {
	require.Equal(t, "/proc/sys/net/core/bpf_jit_enable", sysctlPath("/proc/sys", "net.core.bpf_jit_enable"))
	require.Equal(t, "/proc/sys/kernel/unprivileged_bpf_disabled", sysctlPath("/proc/sys/", "kernel/unprivileged_bpf_disabled"))
	require.Equal(t, "/custom/path", sysctlPath("/proc/sys", "/custom/path"))
}
