package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Create creates a new attendance record
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByID retrieves attendance by ID, joined with the employee profile
	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByUserAndDate returns nil when the user has no record on date
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error)

	// Update overwrites the mutable columns of an existing record
	Update(ctx context.Context, attendance Attendance) error

	// List retrieves attendance records matching the storage-level filters,
	// newest first. Status and location are filtered after derivation.
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, error)

	Delete(ctx context.Context, id string) error
}
