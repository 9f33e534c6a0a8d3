package club

import (
	"errors"
	"fmt"
)

// Root error kinds. Every domain error of the club and session packages wraps
// exactly one of them. ErrClosed and the advisor errors stand alone.
var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrAuth       = errors.New("authentication failed")
	ErrPermission = errors.New("permission denied")
	ErrNotFound   = errors.New("not found")
)

var (
	ErrBlankField       = fmt.Errorf("%w: required field is blank", ErrValidation)
	ErrInvalidField     = fmt.Errorf("%w: invalid field value", ErrValidation)
	ErrInvalidSelection = fmt.Errorf("%w: invalid player selection", ErrValidation)

	ErrDuplicatePhone  = fmt.Errorf("%w: phone number already registered", ErrConflict)
	ErrAlreadyEnrolled = fmt.Errorf("%w: player already enrolled in this slot", ErrConflict)

	ErrForbidden = fmt.Errorf("%w: operation not allowed for this player", ErrPermission)

	ErrPlayerNotFound  = fmt.Errorf("%w: player", ErrNotFound)
	ErrBookingNotFound = fmt.Errorf("%w: booking", ErrNotFound)
	ErrUnknownSlot     = fmt.Errorf("%w: slot", ErrNotFound)
	ErrNotAMember      = fmt.Errorf("%w: player is not a member of the booking", ErrNotFound)

	ErrClosed = errors.New("club store is closed")
)
