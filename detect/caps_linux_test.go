//go:build linux

package detect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSysctl(t *testing.T) {
	root := t.TempDir()
	orig := sysctlRoot
	sysctlRoot = root
	t.Cleanup(func() { sysctlRoot = orig })

	write := func(name, value string) {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(value), 0o644))
	}
	write("net/core/bpf_jit_enable", "1\n")
	write("net/core/bpf_jit_harden", "0\n")
	write("kernel/unprivileged_bpf_disabled", "2\n")

	tests := []struct {
		names []string
		want  bool
	}{
		{[]string{"net.core.bpf_jit_enable"}, true},
		{[]string{"net.core.bpf_jit_harden"}, false},
		{[]string{"net.core.bpf_jit_enable", "kernel/unprivileged_bpf_disabled"}, true},
		{[]string{"net.core.bpf_jit_kallsyms"}, false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, detectOK(t, Sysctl(tt.names...), "x"), "%v", tt.names)
	}
}

func TestCapabilityDetector_Runs(t *testing.T) {
	d, err := Capability("CAP_CHOWN")
	require.NoError(t, err)
	// The result depends on the test runner's privileges; the lookup itself
	// must work.
	_, err = d.Detect(t.Context(), "x")
	require.NoError(t, err)
}
