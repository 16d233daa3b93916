package permission

import "errors"

var (
	// ErrUnknownAction is returned when an action name is not create, read, update or delete.
	ErrUnknownAction = errors.New("unknown action")

	// ErrInvalidMatrix is returned when a matrix payload is malformed or ambiguous.
	ErrInvalidMatrix = errors.New("invalid permission matrix")
)
