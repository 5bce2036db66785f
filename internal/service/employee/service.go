package employee

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cmlabs-hris/erp-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/erp-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/erp-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/erp-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/erp-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/erp-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type EmployeeServiceImpl struct {
	tx             database.Transactor
	employeeRepo   employee.EmployeeRepository
	departmentRepo department.DepartmentRepository
	userRepo       user.UserRepository
	now            func() time.Time
}

func NewEmployeeService(
	tx database.Transactor,
	employeeRepo employee.EmployeeRepository,
	departmentRepo department.DepartmentRepository,
	userRepo user.UserRepository,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		tx:             tx,
		employeeRepo:   employeeRepo,
		departmentRepo: departmentRepo,
		userRepo:       userRepo,
		now:            time.Now,
	}
}

// requireManager returns the caller when they may manage employees.
func requireManager(ctx context.Context) (jwt.Caller, error) {
	caller, err := jwt.CurrentUser(ctx)
	if err != nil {
		return jwt.Caller{}, err
	}
	if !caller.Can(user.PermissionEmployeeManage) {
		return jwt.Caller{}, employee.ErrForbidden
	}
	return caller, nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	caller, err := jwt.CurrentUser(ctx)
	if err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	switch {
	case caller.Can(user.PermissionEmployeeViewAll):
	case caller.Can(user.PermissionEmployeeViewOwn):
		filter.UserID = &caller.UserID
	default:
		return employee.ListEmployeeResponse{}, employee.ErrForbidden
	}

	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, employee.NewEmployeeResponse(emp))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))

	return employee.ListEmployeeResponse{
		Employees: responses,
		Pagination: employee.Pagination{
			Page:  filter.Page,
			Limit: filter.Limit,
			Total: total,
			Pages: totalPages,
		},
	}, nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	caller, err := jwt.CurrentUser(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	switch {
	case caller.Can(user.PermissionEmployeeRead):
	case caller.Can(user.PermissionEmployeeViewOwn) && emp.UserID == caller.UserID:
	default:
		return employee.EmployeeResponse{}, employee.ErrForbidden
	}

	return employee.NewEmployeeResponse(emp), nil
}

// CreateEmployee implements employee.EmployeeService. The person's account is
// created unclaimed when the email is new, and linked on their first login.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if _, err := requireManager(ctx); err != nil {
		return employee.EmployeeResponse{}, err
	}

	hireDate := s.now()
	if req.HireDate != "" {
		hireDate, _ = validator.IsValidDate(req.HireDate)
	}
	fullName := strings.TrimSpace(req.FirstName + " " + req.LastName)

	var id string
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		departmentID, err := s.departmentID(ctx, req.Department)
		if err != nil {
			return err
		}

		account, err := s.userRepo.GetByEmail(ctx, req.Email)
		switch {
		case err == nil:
			if account.Profile != nil {
				return employee.ErrEmailExists
			}
			if err := s.userRepo.UpdateIdentity(ctx, account.ID, fullName, account.Email); err != nil {
				return fmt.Errorf("failed to update user: %w", err)
			}
		case errors.Is(err, user.ErrUserNotFound):
			account, err = s.userRepo.Create(ctx, user.User{
				Email: req.Email,
				Name:  fullName,
				Role:  user.RoleEmployee,
			})
			if err != nil {
				if errors.Is(err, user.ErrEmailExists) {
					return employee.ErrEmailExists
				}
				return fmt.Errorf("failed to create user: %w", err)
			}
		default:
			return fmt.Errorf("failed to get user by email: %w", err)
		}

		code, err := s.employeeRepo.NextEmployeeCode(ctx)
		if err != nil {
			return err
		}

		newEmployee := employee.Employee{
			UserID:           account.ID,
			EmployeeCode:     code,
			FirstName:        req.FirstName,
			LastName:         req.LastName,
			Phone:            optionalString(req.Phone),
			Address:          optionalString(req.Address),
			Position:         req.Position,
			DepartmentID:     departmentID,
			Salary:           decimal.Zero,
			HireDate:         hireDate,
			EmergencyContact: optionalString(req.EmergencyContact),
			Status:           employee.StatusActive,
		}
		if req.Salary != nil {
			newEmployee.Salary = *req.Salary
		}
		if req.Status != "" {
			newEmployee.Status = employee.Status(req.Status)
		}

		created, err := s.employeeRepo.Create(ctx, newEmployee)
		if err != nil {
			return err
		}
		id = created.ID
		return nil
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	saved, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to reload employee: %w", err)
	}
	return employee.NewEmployeeResponse(saved), nil
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if _, err := requireManager(ctx); err != nil {
		return employee.EmployeeResponse{}, err
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		emp, err := s.employeeRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		name, email := emp.FullName(), emp.Email
		if req.FirstName != nil {
			emp.FirstName = strings.TrimSpace(*req.FirstName)
		}
		if req.LastName != nil {
			emp.LastName = strings.TrimSpace(*req.LastName)
		}
		if req.Email != nil {
			emp.Email = strings.TrimSpace(*req.Email)
		}
		if req.Phone != nil {
			emp.Phone = optionalString(req.Phone)
		}
		if req.Address != nil {
			emp.Address = optionalString(req.Address)
		}
		if req.Position != nil {
			emp.Position = strings.TrimSpace(*req.Position)
		}
		if req.Department != nil {
			emp.DepartmentID, err = s.departmentID(ctx, *req.Department)
			if err != nil {
				return err
			}
		}
		if req.Salary != nil {
			emp.Salary = *req.Salary
		}
		if req.HireDate != nil {
			emp.HireDate, _ = validator.IsValidDate(*req.HireDate)
		}
		if req.EmergencyContact != nil {
			emp.EmergencyContact = optionalString(req.EmergencyContact)
		}
		if req.Status != nil {
			emp.Status = employee.Status(*req.Status)
		}

		// Name and email live on the account
		if emp.FullName() != name || emp.Email != email {
			if err := s.userRepo.UpdateIdentity(ctx, emp.UserID, emp.FullName(), emp.Email); err != nil {
				if errors.Is(err, user.ErrEmailExists) {
					return employee.ErrEmailExists
				}
				return fmt.Errorf("failed to update user: %w", err)
			}
		}

		return s.employeeRepo.Update(ctx, emp)
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	saved, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to reload employee: %w", err)
	}
	return employee.NewEmployeeResponse(saved), nil
}

// DeleteEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	caller, err := requireManager(ctx)
	if err != nil {
		return err
	}

	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	// Prevent self-deletion
	if emp.UserID == caller.UserID {
		return employee.ErrCannotDeleteSelf
	}

	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	return nil
}

// departmentID resolves a department name. Blank means no department; an
// unknown name is a validation error on the department field.
func (s *EmployeeServiceImpl) departmentID(ctx context.Context, name string) (*string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	d, err := s.departmentRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, department.ErrDepartmentNotFound) {
			return nil, validator.ValidationErrors{{Field: "department", Message: "department does not exist"}}
		}
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	return &d.ID, nil
}

func optionalString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
