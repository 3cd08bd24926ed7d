package validator

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/timewindow"
)

type ValidationError struct {
	Field   string
	Message string
}

// ValidationErrors collects field problems; handlers render it as a 422 map.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, err := range v {
		msgs[i] = err.Field + ": " + err.Message
	}
	return strings.Join(msgs, "; ")
}

func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, ValidationError{Field: field, Message: message})
}

// Err returns v as an error, or nil when nothing was collected.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// ToMap keeps the first message reported for each field.
func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string, len(v))
	for _, err := range v {
		if _, seen := result[err.Field]; !seen {
			result[err.Field] = err.Message
		}
	}
	return result
}

func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsValidDate parses a YYYY-MM-DD calendar date.
func IsValidDate(s string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", s)
	return date, err == nil
}

// IsValidDateTime parses an RFC3339 timestamp with an explicit offset,
// fractional seconds allowed.
func IsValidDateTime(s string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, s)
	return t, err == nil
}

func OneOf[T comparable](value T, allowed []T) bool {
	for _, a := range allowed {
		if a == value {
			return true
		}
	}
	return false
}

// IsValidWeekday accepts English weekday names such as "MONDAY".
func IsValidWeekday(s string) bool {
	_, err := timewindow.ParseWeekday(s)
	return err == nil
}
