package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrProviderIDExists        = errors.New("identity provider id already registered")
	ErrEmailExists             = errors.New("email already registered")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)
