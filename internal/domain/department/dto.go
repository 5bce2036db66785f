package department

import (
	"strings"

	"github.com/cmlabs-hris/erp-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// NoManager is shown when a department has no manager account.
const NoManager = "No Manager"

type CreateDepartmentRequest struct {
	Name            string           `json:"name" validate:"required,max=100"`
	Description     *string          `json:"description,omitempty"`
	ManagerEmail    *string          `json:"manager_email,omitempty" validate:"omitempty,email"`
	Location        *string          `json:"location,omitempty"`
	Budget          *decimal.Decimal `json:"budget,omitempty"`
	Status          string           `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
	EstablishedDate string           `json:"established_date" validate:"omitempty,date"`
}

func (r *CreateDepartmentRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)

	errs := validator.Struct(r)

	if r.Budget != nil && r.Budget.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "budget", Message: "budget must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateDepartmentRequest struct {
	ID              string           `json:"-"`
	Name            *string          `json:"name,omitempty" validate:"omitempty,max=100"`
	Description     *string          `json:"description,omitempty"`
	ManagerEmail    *string          `json:"manager_email,omitempty"`
	Location        *string          `json:"location,omitempty"`
	Budget          *decimal.Decimal `json:"budget,omitempty"`
	Status          *string          `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE INACTIVE"`
	EstablishedDate *string          `json:"established_date,omitempty" validate:"omitempty,date"`
}

// Validate checks the fields that are present. An empty manager_email clears
// the manager.
func (r *UpdateDepartmentRequest) Validate() error {
	errs := validator.Struct(r)

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not be empty"})
	}
	if r.ManagerEmail != nil && !validator.IsEmpty(*r.ManagerEmail) {
		manager := struct {
			Email string `json:"manager_email" validate:"email"`
		}{Email: strings.TrimSpace(*r.ManagerEmail)}
		errs = append(errs, validator.Struct(manager)...)
	}
	if r.Budget != nil && r.Budget.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "budget", Message: "budget must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DepartmentFilter struct {
	Search   *string `json:"search,omitempty"`
	Location *string `json:"location,omitempty"`
	Status   *string `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

// Validate drops "All" selections and checks the remaining values.
func (f *DepartmentFilter) Validate() error {
	f.Search = validator.DropAll(f.Search)
	f.Location = validator.DropAll(f.Location)
	f.Status = validator.DropAll(f.Status)
	if f.Status != nil {
		upper := strings.ToUpper(*f.Status)
		f.Status = &upper
	}

	if errs := validator.Struct(f); len(errs) > 0 {
		return errs
	}
	return nil
}

type DepartmentResponse struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Description     *string          `json:"description"`
	Manager         string           `json:"manager"`
	ManagerEmail    *string          `json:"manager_email"`
	EmployeeCount   int64            `json:"employee_count"`
	Location        *string          `json:"location"`
	Budget          *decimal.Decimal `json:"budget"`
	Status          string           `json:"status"`
	EstablishedDate string           `json:"established_date"` // YYYY-MM-DD
	CreatedAt       string           `json:"created_at"`
	UpdatedAt       string           `json:"updated_at"`
	Employees       []MemberResponse `json:"employees,omitempty"`
}

type MemberResponse struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	EmployeeCode string `json:"employee_code"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Position     string `json:"position"`
	Status       string `json:"status"`
}

type ListDepartmentResponse struct {
	TotalCount  int                  `json:"total_count"`
	Departments []DepartmentResponse `json:"departments"`
}

func NewDepartmentResponse(d Department) DepartmentResponse {
	resp := DepartmentResponse{
		ID:              d.ID,
		Name:            d.Name,
		Description:     d.Description,
		Manager:         NoManager,
		ManagerEmail:    d.ManagerEmail,
		EmployeeCount:   d.EmployeeCount,
		Location:        d.Location,
		Status:          string(d.Status),
		EstablishedDate: d.EstablishedDate.Format("2006-01-02"),
		CreatedAt:       d.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:       d.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
	if d.ManagerName != nil {
		resp.Manager = *d.ManagerName
	}
	if d.Budget.Valid {
		budget := d.Budget.Decimal
		resp.Budget = &budget
	}
	return resp
}

func NewMemberResponse(m Member) MemberResponse {
	return MemberResponse{
		ID:           m.EmployeeID,
		UserID:       m.UserID,
		EmployeeCode: m.EmployeeCode,
		Name:         strings.TrimSpace(m.FirstName + " " + m.LastName),
		Email:        m.Email,
		Position:     m.Position,
		Status:       m.Status,
	}
}
