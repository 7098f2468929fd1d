package box

import (
	"errors"

	"github.com/etomica/etomica/pkg/generic"
)

var (
	// ErrIndexOutOfRange is returned for any out-of-bounds positional access.
	ErrIndexOutOfRange = generic.ErrIndexOutOfRange
	// ErrInvalidArgument marks a violated precondition: a negative molecule
	// count, a molecule missing from the slot it claims, a restore that
	// needs a template molecule where none exists.
	ErrInvalidArgument = generic.ErrInvalidArgument
	// ErrIllegalState marks an internal inconsistency that should be
	// structurally impossible.
	ErrIllegalState = errors.New("illegal state")
	// ErrDuplicateRegistration is returned when a listener or molecule is
	// registered twice.
	ErrDuplicateRegistration = errors.New("duplicate registration")
	// ErrSpeciesNotRegistered is returned when a molecule's species has not
	// been announced to the box with AddSpeciesNotify.
	ErrSpeciesNotRegistered = errors.New("species not registered")
)
