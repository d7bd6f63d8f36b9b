package control

import "errors"

// Errors returned by the controller.
var (
	// ErrInvalidArgument indicates a negative, NaN or infinite elapsed time.
	ErrInvalidArgument = errors.New("control: invalid argument")

	// ErrPreconditionViolated indicates a missing collaborator at construction.
	ErrPreconditionViolated = errors.New("control: precondition violated")
)
