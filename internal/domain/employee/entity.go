package employee

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/erp-backend-go/internal/domain/user"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive     Status = "ACTIVE"
	StatusInactive   Status = "INACTIVE"
	StatusTerminated Status = "TERMINATED"
)

// CodePrefix starts every generated employee code, e.g. EMP0007.
const CodePrefix = "EMP"

type Employee struct {
	ID               string
	UserID           string
	EmployeeCode     string
	FirstName        string
	LastName         string
	Phone            *string
	Address          *string
	Position         string
	DepartmentID     *string
	Salary           decimal.Decimal
	HireDate         time.Time
	EmergencyContact *string
	Status           Status
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// DTO / Join
	Email          string
	Role           user.Role
	DepartmentName *string
}

func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}
