package workplace

import "errors"

var (
	ErrWorkplaceNotFound   = errors.New("workplace not found")
	ErrNotWorkplaceMember  = errors.New("user is not a member of this workplace")
	ErrNotWorkplaceOwner   = errors.New("user does not own this workplace")
	ErrWorkplaceIDRequired = errors.New("workplace ID is required")
)
