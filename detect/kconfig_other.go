//go:build !linux

package detect

import "fmt"

func kernelConfigPaths() ([]string, error) {
	return nil, fmt.Errorf("kernel config: %w", ErrUnsupportedPlatform)
}
