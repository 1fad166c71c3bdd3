package services

import (
	"errors"
	"fmt"

	"github.com/msidibe/gpr/validation"
)

// Stable error kinds surfaced to the HTTP adapter. Permission failures are the
// gate's sentinels (gate.ErrUnauthenticated / gate.ErrUnauthorized) passed
// through unchanged.
var (
	// ErrInvalidCredentials never says which of username/password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrStorage            = errors.New("storage failure")
)

// ValidationError carries the per-field violations of a rejected input.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string { return "validation failed" }

// AsValidation unwraps err into a ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

func storageErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStorage, err)
}
