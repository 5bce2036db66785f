package attendance

import (
	"strings"
	"time"
)

type Status string

const (
	StatusPresent Status = "PRESENT"
	StatusAbsent  Status = "ABSENT"
	StatusLate    Status = "LATE"
	StatusHalfDay Status = "HALF_DAY"
)

var statusLabels = map[Status]string{
	StatusPresent: "Present",
	StatusAbsent:  "Absent",
	StatusLate:    "Late",
	StatusHalfDay: "Half Day",
}

// Label renders the status for display. Unknown values are returned as-is.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

func (s Status) IsValid() bool {
	_, ok := statusLabels[s]
	return ok
}

const (
	LocationRemote = "Remote"
	LocationOffice = "Office"
)

type Attendance struct {
	ID        string
	UserID    string
	Date      time.Time
	CheckIn   *time.Time
	CheckOut  *time.Time
	Status    *string
	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	EmployeeName   *string
	EmployeeEmail  *string
	EmployeeCode   *string
	DepartmentName *string
}

// Location reports where the shift was worked, based on the free-text notes.
func (a Attendance) Location() string {
	if a.Notes != nil && strings.Contains(*a.Notes, LocationRemote) {
		return LocationRemote
	}
	return LocationOffice
}

// ProvidedStatus returns the stored override, or an empty string when the
// status should be derived.
func (a Attendance) ProvidedStatus() string {
	if a.Status == nil {
		return ""
	}
	return *a.Status
}

// Derive computes the display view of the record under the given policy.
func (a Attendance) Derive(policy Policy) View {
	return Derive(a.CheckIn, a.CheckOut, a.ProvidedStatus(), policy)
}
