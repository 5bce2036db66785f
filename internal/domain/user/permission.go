package user

type Permission string

const (
	// Attendance Management
	PermissionAttendanceViewOwn   Permission = "attendance.view_own"
	PermissionAttendanceRecord    Permission = "attendance.record"
	PermissionAttendanceRecordAny Permission = "attendance.record_any"
	PermissionAttendanceViewAll   Permission = "attendance.view_all"
	PermissionAttendanceDelete    Permission = "attendance.delete"

	// Payroll Management
	PermissionPayrollViewOwn  Permission = "payroll.view_own"
	PermissionPayrollViewUser Permission = "payroll.view_by_user"
	PermissionPayrollViewAll  Permission = "payroll.view_all"
	PermissionPayrollManage   Permission = "payroll.manage"

	// Employee Management
	PermissionEmployeeViewOwn Permission = "employee.view_own"
	PermissionEmployeeRead    Permission = "employee.read"
	PermissionEmployeeViewAll Permission = "employee.view_all"
	PermissionEmployeeManage  Permission = "employee.manage"

	// Department Management
	PermissionDepartmentManage Permission = "department.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionAttendanceViewOwn,
		PermissionAttendanceRecord,
		PermissionAttendanceRecordAny,
		PermissionAttendanceViewAll,
		PermissionAttendanceDelete,
		PermissionPayrollViewOwn,
		PermissionPayrollViewUser,
		PermissionPayrollViewAll,
		PermissionPayrollManage,
		PermissionEmployeeViewOwn,
		PermissionEmployeeRead,
		PermissionEmployeeViewAll,
		PermissionEmployeeManage,
		PermissionDepartmentManage,
	},
	RoleHR: {
		PermissionAttendanceViewOwn,
		PermissionAttendanceRecord,
		PermissionAttendanceRecordAny,
		PermissionAttendanceViewAll,
		PermissionAttendanceDelete,
		PermissionPayrollViewOwn,
		PermissionPayrollViewUser,
		PermissionPayrollViewAll,
		PermissionPayrollManage,
		PermissionEmployeeViewOwn,
		PermissionEmployeeRead,
		PermissionEmployeeViewAll,
		PermissionEmployeeManage,
		PermissionDepartmentManage,
	},
	RoleManager: {
		// Manager sees everyone's attendance but only payroll for a named user,
		// and can open a single employee record without listing the directory
		PermissionAttendanceViewOwn,
		PermissionAttendanceRecord,
		PermissionAttendanceRecordAny,
		PermissionAttendanceViewAll,
		PermissionPayrollViewUser,
		PermissionEmployeeRead,
	},
	RoleEmployee: {
		PermissionAttendanceViewOwn,
		PermissionAttendanceRecord,
		PermissionPayrollViewOwn,
		PermissionEmployeeViewOwn,
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
