package department

import "errors"

var (
	ErrDepartmentNotFound     = errors.New("department not found")
	ErrDepartmentNameExists   = errors.New("department name already exists")
	ErrDepartmentHasEmployees = errors.New("department still has employees")
	ErrManagerNotFound        = errors.New("manager email does not belong to any user")
	ErrForbidden              = errors.New("insufficient permissions to manage departments")
)
