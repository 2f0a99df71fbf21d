// Package registry has types shared by the clients which inspect container image registries
package registry

import (
	"github.com/pkg/errors"
)

// ErrInvalidReference is returned when an image reference is malformed.
var ErrInvalidReference = errors.New("invalid image reference")

// An InspectError is returned when an image repository or tag couldn't be inspected.
type InspectError struct {
	// Reference is the image reference which was inspected.
	Reference string
	Err       error
}

func (e *InspectError) Error() string {
	return "couldn't inspect " + e.Reference + ": " + e.Err.Error()
}

func (e *InspectError) Unwrap() error {
	return e.Err
}
