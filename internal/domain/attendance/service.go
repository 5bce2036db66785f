package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// ListAttendance lists records visible to the caller with derived fields
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// RecordAttendance creates the record for (user, date) or merges into the
	// existing one. created reports which of the two happened.
	RecordAttendance(ctx context.Context, req RecordAttendanceRequest) (result AttendanceResponse, created bool, err error)

	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)

	UpdateAttendance(ctx context.Context, req UpdateAttendanceRequest) (AttendanceResponse, error)

	DeleteAttendance(ctx context.Context, id string) error
}
