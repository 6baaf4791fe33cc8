package user

type Permission string

const (
	// Attendance
	PermissionAttendanceSignal    Permission = "attendance.signal"
	PermissionAttendanceViewOwn   Permission = "attendance.view_own"
	PermissionAttendanceViewAll   Permission = "attendance.view_all"
	PermissionAttendanceCorrect   Permission = "attendance.correct"
	PermissionAttendanceReconcile Permission = "attendance.reconcile"

	// Schedule
	PermissionScheduleViewOwn Permission = "schedule.view_own"
	PermissionScheduleViewAll Permission = "schedule.view_all"
	PermissionScheduleAssign  Permission = "schedule.assign"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionAttendanceSignal,
		PermissionAttendanceViewOwn,
		PermissionAttendanceViewAll,
		PermissionAttendanceCorrect,
		PermissionAttendanceReconcile,
		PermissionScheduleViewOwn,
		PermissionScheduleViewAll,
		PermissionScheduleAssign,
	},
	RoleOwner: {
		PermissionAttendanceSignal,
		PermissionAttendanceViewOwn,
		PermissionAttendanceViewAll,
		PermissionAttendanceCorrect,
		PermissionScheduleViewOwn,
		PermissionScheduleViewAll,
		PermissionScheduleAssign,
	},
	RoleManager: {
		PermissionAttendanceSignal,
		PermissionAttendanceViewOwn,
		PermissionAttendanceViewAll,
		PermissionAttendanceCorrect,
		PermissionScheduleViewOwn,
		PermissionScheduleViewAll,
		PermissionScheduleAssign,
	},
	RoleEmployee: {
		// Employee has basic access
		PermissionAttendanceSignal,
		PermissionAttendanceViewOwn,
		PermissionScheduleViewOwn,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
