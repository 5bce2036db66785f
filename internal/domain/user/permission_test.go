package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	tests := []struct {
		role       Role
		permission Permission
		want       bool
	}{
		{RoleAdmin, PermissionEmployeeManage, true},
		{RoleHR, PermissionDepartmentManage, true},
		{RoleHR, PermissionPayrollViewAll, true},
		{RoleManager, PermissionAttendanceRecordAny, true},
		{RoleManager, PermissionPayrollViewUser, true},
		{RoleManager, PermissionPayrollViewOwn, false},
		{RoleManager, PermissionEmployeeRead, true},
		{RoleManager, PermissionEmployeeViewAll, false},
		{RoleEmployee, PermissionAttendanceRecord, true},
		{RoleEmployee, PermissionAttendanceRecordAny, false},
		{RoleEmployee, PermissionEmployeeViewOwn, true},
		{RoleEmployee, PermissionEmployeeRead, false},
		{Role("GUEST"), PermissionAttendanceViewOwn, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.permission), func(t *testing.T) {
			assert.Equal(t, tt.want, HasPermission(tt.role, tt.permission))
		})
	}
}

func TestRole_IsValid(t *testing.T) {
	assert.True(t, RoleManager.IsValid())
	assert.False(t, Role("ROOT").IsValid())
}
