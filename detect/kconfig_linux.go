//go:build linux

package detect

import (
	"golang.org/x/sys/unix"
)

// kernelConfigPaths lists where the running kernel's config may live:
// /proc/config.gz (CONFIG_IKCONFIG_PROC), then the distribution copies
// under /boot and /lib/modules.
func kernelConfigPaths() ([]string, error) {
	var uname unix.Utsname
	if err := unix.Uname(&uname); err != nil {
		return nil, err
	}
	release := unix.ByteSliceToString(uname.Release[:])

	return []string{
		"/proc/config.gz",
		"/boot/config-" + release,
		"/lib/modules/" + release + "/config",
	}, nil
}
