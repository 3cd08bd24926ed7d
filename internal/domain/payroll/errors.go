package payroll

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument marks inputs the engine refuses to price.
var ErrInvalidArgument = errors.New("invalid argument")

var (
	ErrNonPositiveSpan  = fmt.Errorf("%w: shift end must be after start", ErrInvalidArgument)
	ErrNegativeRest     = fmt.Errorf("%w: rest time cannot be negative", ErrInvalidArgument)
	ErrRestExceedsGross = fmt.Errorf("%w: rest time must be shorter than the shift", ErrInvalidArgument)
	ErrMissingRate      = fmt.Errorf("%w: salary policy has no rate for its calculation mode", ErrInvalidArgument)
)
