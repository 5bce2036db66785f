package user

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleAdmin    Role = "ADMIN"    // Full access
	RoleHR       Role = "HR"       // Manages attendance and payroll
	RoleManager  Role = "MANAGER"  // Views team data
	RoleEmployee Role = "EMPLOYEE" // Own records only
)

func (r Role) IsValid() bool {
	_, ok := RolePermissions[r]
	return ok
}

type User struct {
	ID         string
	// ProviderID is empty until the person signs in for the first time
	ProviderID string
	Email      string
	Name       string
	Role       Role
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// DTO / Join
	Profile *EmployeeProfile
}

// EmployeeProfile is the HR side of a user, when one exists.
type EmployeeProfile struct {
	EmployeeCode   string
	DepartmentName *string
	Position       *string
	Salary         decimal.NullDecimal
}

// Pending reports whether the account has never been claimed by a login.
func (u *User) Pending() bool {
	return u.ProviderID == ""
}

// BaseSalary returns the profile salary, or zero when unknown.
func (u *User) BaseSalary() decimal.Decimal {
	if u.Profile == nil || !u.Profile.Salary.Valid {
		return decimal.Zero
	}
	return u.Profile.Salary.Decimal
}
