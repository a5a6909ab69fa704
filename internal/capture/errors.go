package capture

import (
	"errors"
	"fmt"
)

// Failure classes, ordered by where the pipeline aborts. Callers
// classify with errors.Is.
var (
	ErrCapture  = errors.New("capture error")
	ErrIdentity = errors.New("identity error")
	ErrStaging  = errors.New("staging error")
	ErrSidecar  = errors.New("sidecar error")
)

func wrap(marker error, operation string, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, operation, err)
	}
	return fmt.Errorf("%w: %s", marker, operation)
}
