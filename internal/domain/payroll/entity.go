package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollStatus enum
type PayrollStatus string

const (
	PayrollStatusPending  PayrollStatus = "PENDING"
	PayrollStatusApproved PayrollStatus = "APPROVED"
	PayrollStatusPaid     PayrollStatus = "PAID"
)

// Payroll - Monthly salary record of one user
type Payroll struct {
	ID          string
	UserID      string
	Month       int
	Year        int
	BasicSalary decimal.Decimal
	Allowances  decimal.Decimal
	Deductions  decimal.Decimal
	NetSalary   decimal.Decimal
	Status      PayrollStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined fields
	EmployeeName   *string
	EmployeeEmail  *string
	EmployeeCode   *string
	DepartmentName *string
	Position       *string
}

// NetSalary is basic salary plus allowances minus deductions.
func NetSalary(basic, allowances, deductions decimal.Decimal) decimal.Decimal {
	return basic.Add(allowances).Sub(deductions)
}

// Recalculate refreshes NetSalary from the salary components.
func (p *Payroll) Recalculate() {
	p.NetSalary = NetSalary(p.BasicSalary, p.Allowances, p.Deductions)
}

// SamePeriod reports whether p belongs to the given user and month.
func (p Payroll) SamePeriod(userID string, month, year int) bool {
	return p.UserID == userID && p.Month == month && p.Year == year
}
