package detect

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/leodido/featcheck"
)

// True returns a detector that always succeeds.
func True() featcheck.Detector {
	return featcheck.DetectFunc(func(context.Context, string) (bool, error) {
		return true, nil
	})
}

// False returns a detector that never succeeds.
func False() featcheck.Detector {
	return featcheck.DetectFunc(func(context.Context, string) (bool, error) {
		return false, nil
	})
}

// Env returns a detector satisfied when the environment variable name is
// set to a non-empty value.
func Env(name string) featcheck.Detector {
	return featcheck.DetectFunc(func(context.Context, string) (bool, error) {
		return os.Getenv(name) != "", nil
	})
}

// EnvEquals returns a detector satisfied when the environment variable name
// is set to value.
func EnvEquals(name, value string) featcheck.Detector {
	return featcheck.DetectFunc(func(context.Context, string) (bool, error) {
		v, ok := os.LookupEnv(name)
		return ok && v == value, nil
	})
}

// File returns a detector satisfied when every path exists.
// Stat errors other than non-existence are returned.
func File(paths ...string) featcheck.Detector {
	return featcheck.DetectFunc(func(context.Context, string) (bool, error) {
		for _, p := range paths {
			_, err := os.Stat(p)
			if err == nil {
				continue
			}
			if os.IsNotExist(err) {
				return false, nil
			}
			return false, err
		}
		return true, nil
	})
}

// Command returns a detector satisfied when every named executable is found
// in PATH. Without names, the feature identifier is looked up.
func Command(names ...string) featcheck.Detector {
	return featcheck.DetectFunc(func(_ context.Context, id string) (bool, error) {
		lookup := names
		if len(lookup) == 0 {
			lookup = []string{id}
		}
		for _, name := range lookup {
			if _, err := exec.LookPath(name); err != nil {
				return false, nil
			}
		}
		return true, nil
	})
}

// PkgConfig returns a detector satisfied when pkg-config knows every
// package. Without packages, the feature identifier is queried. The
// PKG_CONFIG environment variable overrides the pkg-config binary.
// A missing pkg-config binary counts as no packages installed.
func PkgConfig(pkgs ...string) featcheck.Detector {
	return featcheck.DetectFunc(func(ctx context.Context, id string) (bool, error) {
		query := pkgs
		if len(query) == 0 {
			query = []string{id}
		}
		bin := os.Getenv("PKG_CONFIG")
		if bin == "" {
			bin = "pkg-config"
		}

		err := exec.CommandContext(ctx, bin, append([]string{"--exists"}, query...)...).Run()
		if err == nil {
			return true, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, fmt.Errorf("pkg-config %s: %w", strings.Join(query, " "), ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) || errors.Is(err, exec.ErrNotFound) {
			return false, nil
		}
		return false, err
	})
}
