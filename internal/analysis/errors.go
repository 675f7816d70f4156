package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is wrapped by every construction-time input failure.
	ErrValidation = errors.New("invalid analysis input")

	// ErrUnknownAnalysisType is returned for an analysis_type outside the
	// supported set.
	ErrUnknownAnalysisType = errors.New("unknown analysis type")
)

// invalid wraps err so it matches ErrValidation while keeping any
// *validation.FieldError reachable through errors.As.
func invalid(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrValidation, err)
}
