package user

import "errors"

var (
	ErrMissingIdentity         = errors.New("user identity missing from token")
	ErrInvalidToken            = errors.New("invalid token")
	ErrInvalidRole             = errors.New("invalid role")
	ErrOwnerAccessRequired     = errors.New("owner access required")
	ErrAdminAccessRequired     = errors.New("admin access required")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)
