package employee

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmployeeCodeExists = errors.New("employee code already exists")
	ErrEmailExists        = errors.New("email already registered to an employee")
	ErrForbidden          = errors.New("unauthorized to access this employee")
	ErrCannotDeleteSelf   = errors.New("cannot delete your own employee record")
)
