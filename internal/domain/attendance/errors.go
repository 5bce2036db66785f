package attendance

import "errors"

// Attendance domain errors
var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrForbidden          = errors.New("insufficient permissions to access this attendance record")
	ErrTargetUserNotFound = errors.New("user not found in database")

	ErrAttendanceAlreadyExists = errors.New("attendance record already exists for this date")
)
