package detect

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/leodido/featcheck"
)

// lsmPath lists the active Linux security modules, comma separated.
var lsmPath = "/sys/kernel/security/lsm"

func readActiveLSMs(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	content := strings.TrimSpace(string(data))
	if content == "" {
		return nil, nil
	}
	return strings.Split(content, ","), nil
}

// LSM returns a detector satisfied when every named security module
// (e.g. "bpf", "selinux") is active. No securityfs means none are.
func LSM(names ...string) featcheck.Detector {
	return featcheck.DetectFunc(func(context.Context, string) (bool, error) {
		active, err := readActiveLSMs(lsmPath)
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("read active LSMs: %w", err)
		}
		for _, name := range names {
			if !slices.Contains(active, name) {
				return false, nil
			}
		}
		return true, nil
	})
}
