package payroll

import "errors"

var (
	ErrPayrollRecordNotFound      = errors.New("payroll record not found")
	ErrPayrollRecordAlreadyExists = errors.New("payroll for this user and month already exists")
	ErrForbidden                  = errors.New("insufficient permissions to access payroll")
	ErrEmployeeNotFound           = errors.New("user not found")
)
