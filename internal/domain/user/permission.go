package user

type Permission string

const (
	// Own records
	PermissionShiftViewOwn   Permission = "shift.view_own"
	PermissionShiftCreateOwn Permission = "shift.create_own"
	PermissionSummaryViewOwn Permission = "summary.view_own"

	// Workplace management
	PermissionShiftViewAll   Permission = "shift.view_all"
	PermissionShiftManage    Permission = "shift.manage"
	PermissionPolicyView     Permission = "policy.view"
	PermissionPolicyManage   Permission = "policy.manage"
	PermissionLaborCostView  Permission = "labor_cost.view"
	PermissionWorkplaceView  Permission = "workplace.view"
	PermissionPlatformReport Permission = "platform.report"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermissionShiftViewOwn,
		PermissionShiftViewAll,
		PermissionShiftManage,
		PermissionPolicyView,
		PermissionPolicyManage,
		PermissionLaborCostView,
		PermissionWorkplaceView,
	},
	RoleWorker: {
		PermissionShiftViewOwn,
		PermissionShiftCreateOwn,
		PermissionSummaryViewOwn,
		PermissionPolicyView,
		PermissionWorkplaceView,
	},
	RoleAdmin: {
		PermissionWorkplaceView,
		PermissionPlatformReport,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
