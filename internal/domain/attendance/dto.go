package attendance

import (
	"time"

	"github.com/cmlabs-hris/erp-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

// RecordAttendanceRequest creates or merges the attendance of one user on one
// date. Clock fields use the 24-hour "HH:MM" form of an HTML time input; an
// empty value or "--" means no time recorded.
type RecordAttendanceRequest struct {
	UserID   string `json:"user_id" validate:"omitempty,uuid"`
	Date     string `json:"date" validate:"omitempty,date"`
	CheckIn  string `json:"check_in" validate:"omitempty,clock"`
	CheckOut string `json:"check_out" validate:"omitempty,clock"`
	Status   string `json:"status" validate:"omitempty,oneof=PRESENT ABSENT LATE HALF_DAY"`
	Notes    string `json:"notes" validate:"max=500"`
	Location string `json:"location" validate:"omitempty,oneof=Remote Office"`
}

func (r *RecordAttendanceRequest) Validate() error {
	errs := validator.Struct(r)
	errs = append(errs, validateClockOrder(&r.CheckIn, &r.CheckOut)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateAttendanceRequest partially updates a record. A nil field is left as
// is; an empty clock clears it, and an empty status clears the override so the
// status is derived again.
type UpdateAttendanceRequest struct {
	ID       string  `json:"-"`
	Date     *string `json:"date,omitempty" validate:"omitempty,date"`
	CheckIn  *string `json:"check_in,omitempty" validate:"omitempty,clock"`
	CheckOut *string `json:"check_out,omitempty" validate:"omitempty,clock"`
	Status   *string `json:"status,omitempty"`
	Notes    *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

func (r *UpdateAttendanceRequest) Validate() error {
	errs := validator.Struct(r)
	errs = append(errs, validateClockOrder(r.CheckIn, r.CheckOut)...)

	if r.Status != nil && *r.Status != "" && !Status(*r.Status).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: PRESENT, ABSENT, LATE, HALF_DAY",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func validateClockOrder(checkIn, checkOut *string) validator.ValidationErrors {
	if checkIn == nil || checkOut == nil {
		return nil
	}
	in, okIn := validator.ParseClock(*checkIn)
	out, okOut := validator.ParseClock(*checkOut)
	if okIn && okOut && out < in {
		return validator.ValidationErrors{{
			Field:   "check_out",
			Message: "check_out must not be earlier than check_in",
		}}
	}
	return nil
}

type AttendanceResponse struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	EmployeeName string  `json:"employee_name"`
	EmployeeCode string  `json:"employee_code"`
	Department   string  `json:"department"`
	Date         string  `json:"date"` // MM/DD/YYYY
	CheckIn      string  `json:"check_in"`
	CheckOut     string  `json:"check_out"`
	WorkHours    string  `json:"work_hours"`
	Overtime     string  `json:"overtime"`
	Status       string  `json:"status"`
	StatusCode   string  `json:"status_code"`
	Location     string  `json:"location"`
	Notes        *string `json:"notes"`
	RecordedDate string  `json:"recorded_date"` // YYYY-MM-DD
}

type AttendanceFilter struct {
	// Scoping, set by the service from the caller's role
	UserID *string `json:"-"`

	Department *string `json:"department,omitempty"`
	Status     *string `json:"status,omitempty"`   // display label, e.g. "Half Day"
	Location   *string `json:"location,omitempty"` // Remote, Office
	Search     *string `json:"search,omitempty"`
	Date       *string `json:"date,omitempty" validate:"omitempty,date"`
	StartDate  *string `json:"start_date,omitempty" validate:"omitempty,date"`
	EndDate    *string `json:"end_date,omitempty" validate:"omitempty,date"`
}

// Validate drops "All" selections and checks the remaining values.
func (f *AttendanceFilter) Validate() error {
	f.Department = validator.DropAll(f.Department)
	f.Status = validator.DropAll(f.Status)
	f.Location = validator.DropAll(f.Location)

	errs := validator.Struct(f)

	if f.Status != nil {
		validStatuses := []string{"Present", "Absent", "Late", "Half Day"}
		if !validator.IsInSlice(*f.Status, validStatuses) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: Present, Absent, Late, Half Day",
			})
		}
	}

	if f.Location != nil {
		if !validator.IsInSlice(*f.Location, []string{LocationRemote, LocationOffice}) {
			errs = append(errs, validator.ValidationError{
				Field:   "location",
				Message: "location must be one of: Remote, Office",
			})
		}
	}

	if f.StartDate != nil && f.EndDate != nil {
		start, okStart := validator.IsValidDate(*f.StartDate)
		end, okEnd := validator.IsValidDate(*f.EndDate)
		if okStart && okEnd && end.Before(start) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must not be before start_date",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListAttendanceResponse struct {
	TotalCount  int                  `json:"total_count"`
	Attendances []AttendanceResponse `json:"attendances"`
}

// NewAttendanceResponse shapes a record and its derived view for the API.
func NewAttendanceResponse(att Attendance, policy Policy) AttendanceResponse {
	view := att.Derive(policy)

	return AttendanceResponse{
		ID:           att.ID,
		UserID:       att.UserID,
		EmployeeName: valueOr(att.EmployeeName, ""),
		EmployeeCode: valueOr(att.EmployeeCode, "N/A"),
		Department:   valueOr(att.DepartmentName, "N/A"),
		Date:         att.Date.Format("01/02/2006"),
		CheckIn:      view.CheckIn,
		CheckOut:     view.CheckOut,
		WorkHours:    view.WorkHours,
		Overtime:     view.Overtime,
		Status:       view.Status.Label(),
		StatusCode:   string(view.Status),
		Location:     att.Location(),
		Notes:        att.Notes,
		RecordedDate: att.Date.Format(time.DateOnly),
	}
}

func valueOr(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}
