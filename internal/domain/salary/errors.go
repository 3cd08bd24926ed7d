package salary

import "errors"

var (
	ErrPolicyNotFound = errors.New("salary policy not found")
	ErrPolicyExists   = errors.New("salary policy already exists for this worker and workplace")
)
