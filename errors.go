package refkit

import "errors"

var (
	// ErrInvalidOperation is returned for operations that need a live
	// block behind the reference, such as holder registration on an
	// empty reference.
	ErrInvalidOperation = errors.New("refkit: operation on empty reference")
	// ErrInvalidArgument is returned when revival preconditions do not
	// hold.
	ErrInvalidArgument = errors.New("refkit: invalid argument")
	// ErrLogicError is returned when an object's self reference is used
	// while no strong reference owns the object.
	ErrLogicError = errors.New("refkit: object is not owned by a strong reference")
)
