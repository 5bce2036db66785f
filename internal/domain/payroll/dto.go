package payroll

import (
	"github.com/cmlabs-hris/erp-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== PAYROLL DTOs ==========

// CreatePayrollRequest accepts amounts as JSON numbers or numeric strings.
type CreatePayrollRequest struct {
	UserID      string           `json:"user_id" validate:"required,uuid"`
	Month       int              `json:"month" validate:"required,min=1,max=12"`
	Year        int              `json:"year" validate:"required,gte=2000"`
	BasicSalary *decimal.Decimal `json:"basic_salary,omitempty"`
	Allowances  *decimal.Decimal `json:"allowances,omitempty"`
	Deductions  *decimal.Decimal `json:"deductions,omitempty"`
	Status      string           `json:"status" validate:"omitempty,oneof=PENDING APPROVED PAID"`
}

func (r *CreatePayrollRequest) Validate() error {
	errs := validator.Struct(r)

	if r.BasicSalary != nil && !r.BasicSalary.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "basic_salary", Message: "basic_salary must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdatePayrollRequest struct {
	ID          string           `json:"-"`
	UserID      *string          `json:"user_id,omitempty" validate:"omitempty,uuid"`
	Month       *int             `json:"month,omitempty" validate:"omitempty,min=1,max=12"`
	Year        *int             `json:"year,omitempty" validate:"omitempty,gte=2000"`
	BasicSalary *decimal.Decimal `json:"basic_salary,omitempty"`
	Allowances  *decimal.Decimal `json:"allowances,omitempty"`
	Deductions  *decimal.Decimal `json:"deductions,omitempty"`
	Status      *string          `json:"status,omitempty" validate:"omitempty,oneof=PENDING APPROVED PAID"`
}

func (r *UpdatePayrollRequest) Validate() error {
	errs := validator.Struct(r)

	if r.BasicSalary != nil && !r.BasicSalary.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "basic_salary", Message: "basic_salary must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PayrollFilter struct {
	UserID *string `json:"user_id,omitempty" validate:"omitempty,uuid"`
	Month  *int    `json:"month,omitempty" validate:"omitempty,min=1,max=12"`
	Year   *int    `json:"year,omitempty" validate:"omitempty,gte=2000"`
	Status *string `json:"status,omitempty" validate:"omitempty,oneof=PENDING APPROVED PAID"`

	// Pagination
	Page  int `json:"page" validate:"gte=0"`
	Limit int `json:"limit" validate:"gte=0,lte=100"`
}

func (f *PayrollFilter) Validate() error {
	errs := validator.Struct(f)

	if f.Page == 0 {
		f.Page = 1 // Default page
	}
	if f.Limit == 0 {
		f.Limit = 10 // Default limit
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PayrollResponse struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Month       int             `json:"month"`
	Year        int             `json:"year"`
	BasicSalary decimal.Decimal `json:"basic_salary"`
	Allowances  decimal.Decimal `json:"allowances"`
	Deductions  decimal.Decimal `json:"deductions"`
	NetSalary   decimal.Decimal `json:"net_salary"`
	Status      string          `json:"status"`
	Employee    EmployeeInfo    `json:"employee"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}

type EmployeeInfo struct {
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	EmployeeCode *string `json:"employee_code"`
	Department   *string `json:"department"`
	Position     *string `json:"position"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type ListPayrollResponse struct {
	Data       []PayrollResponse `json:"data"`
	Pagination Pagination        `json:"pagination"`
}

func NewPayrollResponse(p Payroll) PayrollResponse {
	return PayrollResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		Month:       p.Month,
		Year:        p.Year,
		BasicSalary: p.BasicSalary,
		Allowances:  p.Allowances,
		Deductions:  p.Deductions,
		NetSalary:   p.NetSalary,
		Status:      string(p.Status),
		Employee: EmployeeInfo{
			Name:         p.EmployeeName,
			Email:        p.EmployeeEmail,
			EmployeeCode: p.EmployeeCode,
			Department:   p.DepartmentName,
			Position:     p.Position,
		},
		CreatedAt: p.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt: p.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
