package shift

import "errors"

var (
	ErrShiftNotFound      = errors.New("shift not found")
	ErrScheduleConflict   = errors.New("shift overlaps an existing shift for this worker")
	ErrWorkerIDRequired   = errors.New("worker ID is required")
	ErrInvalidTimeFormat  = errors.New("invalid time format, use RFC3339")
	ErrInvalidDateFormat  = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidRequestData = errors.New("invalid request data")
)
