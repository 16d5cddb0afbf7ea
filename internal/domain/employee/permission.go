package employee

type Permission string

const (
	// Self service
	PermissionAttendanceMark    Permission = "attendance.mark"
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionTravelCreate      Permission = "travel.create"
	PermissionTravelViewOwn     Permission = "travel.view_own"

	// Approvals
	PermissionAttendanceConfirm Permission = "attendance.confirm"
	PermissionAttendanceApprove Permission = "attendance.approve"
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendanceExport  Permission = "attendance.export"
	PermissionTravelDecide      Permission = "travel.decide"

	// Administration
	PermissionEmployeeViewAll Permission = "employee.view_all"
	PermissionEmployeeManage  Permission = "employee.manage"
	PermissionRegionManage    Permission = "region.manage"
	PermissionAuditView       Permission = "audit.view"
)

var fieldPermissions = []Permission{
	PermissionAttendanceMark,
	PermissionAttendanceViewOwn,
	PermissionTravelCreate,
	PermissionTravelViewOwn,
}

// DesignationPermissions maps designations to their permissions
var DesignationPermissions = map[Designation][]Permission{
	DesignationMT:      fieldPermissions,
	DesignationSupport: fieldPermissions,
	DesignationDC: append(append([]Permission{}, fieldPermissions...),
		PermissionAttendanceConfirm,
	),
	DesignationAssociate: append(append([]Permission{}, fieldPermissions...),
		PermissionTravelDecide,
	),
	DesignationAdmin: {
		PermissionAttendanceMark,
		PermissionAttendanceViewOwn,
		PermissionTravelViewOwn,
		PermissionAttendanceConfirm,
		PermissionAttendanceApprove,
		PermissionAttendanceViewAll,
		PermissionAttendanceExport,
		PermissionTravelDecide,
		PermissionEmployeeViewAll,
		PermissionEmployeeManage,
		PermissionRegionManage,
		PermissionAuditView,
	},
}

// HasPermission checks if a designation has a specific permission
func HasPermission(d Designation, permission Permission) bool {
	for _, p := range DesignationPermissions[d] {
		if p == permission {
			return true
		}
	}
	return false
}
