package detect

import (
	"context"

	"github.com/leodido/featcheck"
)

// All returns a detector satisfied when every detector in ds is. Detectors
// run in order and evaluation stops at the first unsatisfied one.
func All(ds ...featcheck.Detector) featcheck.Detector {
	return featcheck.DetectFunc(func(ctx context.Context, id string) (bool, error) {
		for _, d := range ds {
			ok, err := d.Detect(ctx, id)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	})
}

// Any returns a detector satisfied when at least one detector in ds is.
// Detectors run in order and evaluation stops at the first satisfied one.
func Any(ds ...featcheck.Detector) featcheck.Detector {
	return featcheck.DetectFunc(func(ctx context.Context, id string) (bool, error) {
		for _, d := range ds {
			ok, err := d.Detect(ctx, id)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	})
}
