package employee

import (
	"strings"

	"github.com/cmlabs-hris/erp-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== EMPLOYEE DTOs ==========

// CreateEmployeeRequest registers a person by email. Department is matched by
// name and must already exist.
type CreateEmployeeRequest struct {
	FirstName        string           `json:"first_name" validate:"required,max=100"`
	LastName         string           `json:"last_name" validate:"required,max=100"`
	Email            string           `json:"email" validate:"required,email"`
	Phone            *string          `json:"phone,omitempty" validate:"omitempty,max=20"`
	Address          *string          `json:"address,omitempty"`
	Position         string           `json:"position" validate:"required,max=100"`
	Department       string           `json:"department" validate:"required"`
	Salary           *decimal.Decimal `json:"salary,omitempty"`
	HireDate         string           `json:"hire_date" validate:"omitempty,date"`
	EmergencyContact *string          `json:"emergency_contact,omitempty"`
	Status           string           `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE TERMINATED"`
}

func (r *CreateEmployeeRequest) Validate() error {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)
	r.Position = strings.TrimSpace(r.Position)
	r.Department = strings.TrimSpace(r.Department)

	errs := validator.Struct(r)

	if r.Salary != nil && r.Salary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "salary", Message: "salary must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateEmployeeRequest changes only the fields that are present. An empty
// department detaches the employee from their department.
type UpdateEmployeeRequest struct {
	ID               string           `json:"-"`
	FirstName        *string          `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName         *string          `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Email            *string          `json:"email,omitempty"`
	Phone            *string          `json:"phone,omitempty" validate:"omitempty,max=20"`
	Address          *string          `json:"address,omitempty"`
	Position         *string          `json:"position,omitempty" validate:"omitempty,max=100"`
	Department       *string          `json:"department,omitempty"`
	Salary           *decimal.Decimal `json:"salary,omitempty"`
	HireDate         *string          `json:"hire_date,omitempty" validate:"omitempty,date"`
	EmergencyContact *string          `json:"emergency_contact,omitempty"`
	Status           *string          `json:"status,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	errs := validator.Struct(r)

	for field, v := range map[string]*string{
		"first_name": r.FirstName,
		"last_name":  r.LastName,
		"position":   r.Position,
		"email":      r.Email,
	} {
		if v != nil && validator.IsEmpty(*v) {
			errs = append(errs, validator.ValidationError{Field: field, Message: field + " must not be empty"})
		}
	}
	if r.Email != nil && !validator.IsEmpty(*r.Email) {
		email := struct {
			Email string `json:"email" validate:"email"`
		}{Email: strings.TrimSpace(*r.Email)}
		errs = append(errs, validator.Struct(email)...)
	}
	if r.Status != nil && !validator.IsInSlice(*r.Status, []string{string(StatusActive), string(StatusInactive), string(StatusTerminated)}) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be one of: ACTIVE, INACTIVE, TERMINATED"})
	}
	if r.Salary != nil && r.Salary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "salary", Message: "salary must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeFilter struct {
	// Scoping, set by the service from the caller's role
	UserID *string `json:"-"`

	Search     *string `json:"search,omitempty"`
	Department *string `json:"department,omitempty"`
	Status     *string `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE INACTIVE TERMINATED"`

	// Pagination
	Page  int `json:"page" validate:"gte=0"`
	Limit int `json:"limit" validate:"gte=0,lte=100"`
}

// Validate drops "All" selections, checks the rest and applies page defaults.
func (f *EmployeeFilter) Validate() error {
	f.Search = validator.DropAll(f.Search)
	f.Department = validator.DropAll(f.Department)
	f.Status = validator.DropAll(f.Status)
	if f.Status != nil {
		upper := strings.ToUpper(*f.Status)
		f.Status = &upper
	}

	errs := validator.Struct(f)

	if f.Page == 0 {
		f.Page = 1 // Default page
	}
	if f.Limit == 0 {
		f.Limit = 100 // Default limit
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeResponse struct {
	ID               string          `json:"id"`
	UserID           string          `json:"user_id"`
	EmployeeCode     string          `json:"employee_code"`
	FirstName        string          `json:"first_name"`
	LastName         string          `json:"last_name"`
	FullName         string          `json:"full_name"`
	Email            string          `json:"email"`
	Role             string          `json:"role"`
	Phone            *string         `json:"phone"`
	Address          *string         `json:"address"`
	Position         string          `json:"position"`
	DepartmentID     *string         `json:"department_id"`
	Department       *string         `json:"department"`
	Salary           decimal.Decimal `json:"salary"`
	HireDate         string          `json:"hire_date"` // YYYY-MM-DD
	EmergencyContact *string         `json:"emergency_contact"`
	Status           string          `json:"status"`
	CreatedAt        string          `json:"created_at"`
	UpdatedAt        string          `json:"updated_at"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type ListEmployeeResponse struct {
	Employees  []EmployeeResponse `json:"employees"`
	Pagination Pagination         `json:"pagination"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:               e.ID,
		UserID:           e.UserID,
		EmployeeCode:     e.EmployeeCode,
		FirstName:        e.FirstName,
		LastName:         e.LastName,
		FullName:         e.FullName(),
		Email:            e.Email,
		Role:             string(e.Role),
		Phone:            e.Phone,
		Address:          e.Address,
		Position:         e.Position,
		DepartmentID:     e.DepartmentID,
		Department:       e.DepartmentName,
		Salary:           e.Salary,
		HireDate:         e.HireDate.Format("2006-01-02"),
		EmergencyContact: e.EmergencyContact,
		Status:           string(e.Status),
		CreatedAt:        e.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:        e.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
