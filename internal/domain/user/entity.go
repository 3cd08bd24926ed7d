package user

type Role string

const (
	RoleOwner  Role = "owner"  // Runs one or more workplaces
	RoleWorker Role = "worker" // Works shifts at workplaces
	RoleAdmin  Role = "admin"  // Platform operator
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleWorker, RoleAdmin:
		return true
	}
	return false
}

// Viewer is the authenticated caller as resolved from access token claims.
// Identity itself is issued elsewhere; this service only reads it.
type Viewer struct {
	UserID string
	Role   Role
}

func (v Viewer) IsOwner() bool {
	return v.Role == RoleOwner
}

func (v Viewer) IsWorker() bool {
	return v.Role == RoleWorker
}

func (v Viewer) IsAdmin() bool {
	return v.Role == RoleAdmin
}
