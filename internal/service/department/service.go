package department

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/erp-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/erp-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/erp-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/erp-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/erp-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type DepartmentServiceImpl struct {
	tx             database.Transactor
	departmentRepo department.DepartmentRepository
	userRepo       user.UserRepository
	now            func() time.Time
}

func NewDepartmentService(
	tx database.Transactor,
	departmentRepo department.DepartmentRepository,
	userRepo user.UserRepository,
) department.DepartmentService {
	return &DepartmentServiceImpl{
		tx:             tx,
		departmentRepo: departmentRepo,
		userRepo:       userRepo,
		now:            time.Now,
	}
}

func requireManager(ctx context.Context) error {
	caller, err := jwt.CurrentUser(ctx)
	if err != nil {
		return err
	}
	if !caller.Can(user.PermissionDepartmentManage) {
		return department.ErrForbidden
	}
	return nil
}

// List implements department.DepartmentService. Any signed-in user may browse.
func (s *DepartmentServiceImpl) List(ctx context.Context, filter department.DepartmentFilter) (department.ListDepartmentResponse, error) {
	if err := filter.Validate(); err != nil {
		return department.ListDepartmentResponse{}, err
	}
	if _, err := jwt.CurrentUser(ctx); err != nil {
		return department.ListDepartmentResponse{}, err
	}

	departments, err := s.departmentRepo.List(ctx, filter)
	if err != nil {
		return department.ListDepartmentResponse{}, fmt.Errorf("failed to list departments: %w", err)
	}

	items := make([]department.DepartmentResponse, 0, len(departments))
	for _, d := range departments {
		items = append(items, department.NewDepartmentResponse(d))
	}

	return department.ListDepartmentResponse{
		TotalCount:  len(items),
		Departments: items,
	}, nil
}

// Create implements department.DepartmentService.
func (s *DepartmentServiceImpl) Create(ctx context.Context, req department.CreateDepartmentRequest) (department.DepartmentResponse, error) {
	if err := req.Validate(); err != nil {
		return department.DepartmentResponse{}, err
	}
	if err := requireManager(ctx); err != nil {
		return department.DepartmentResponse{}, err
	}

	established := s.now()
	if req.EstablishedDate != "" {
		established, _ = validator.IsValidDate(req.EstablishedDate)
	}

	newDepartment := department.Department{
		Name:            req.Name,
		Description:     optionalString(req.Description),
		Location:        optionalString(req.Location),
		Status:          department.StatusActive,
		EstablishedDate: established,
	}
	if req.Status != "" {
		newDepartment.Status = department.Status(req.Status)
	}
	if req.Budget != nil {
		newDepartment.Budget = decimal.NewNullDecimal(*req.Budget)
	}

	var id string
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		managerEmail, err := s.managerEmail(ctx, req.ManagerEmail)
		if err != nil {
			return err
		}
		newDepartment.ManagerEmail = managerEmail

		created, err := s.departmentRepo.Create(ctx, newDepartment)
		if err != nil {
			return err
		}
		id = created.ID
		return nil
	})
	if err != nil {
		return department.DepartmentResponse{}, err
	}

	saved, err := s.departmentRepo.GetByID(ctx, id)
	if err != nil {
		return department.DepartmentResponse{}, fmt.Errorf("failed to reload department: %w", err)
	}
	return department.NewDepartmentResponse(saved), nil
}

// Get implements department.DepartmentService. The response lists members.
func (s *DepartmentServiceImpl) Get(ctx context.Context, id string) (department.DepartmentResponse, error) {
	if _, err := jwt.CurrentUser(ctx); err != nil {
		return department.DepartmentResponse{}, err
	}

	d, err := s.departmentRepo.GetByID(ctx, id)
	if err != nil {
		return department.DepartmentResponse{}, err
	}

	members, err := s.departmentRepo.ListMembers(ctx, id)
	if err != nil {
		return department.DepartmentResponse{}, fmt.Errorf("failed to list department members: %w", err)
	}

	resp := department.NewDepartmentResponse(d)
	resp.Employees = make([]department.MemberResponse, 0, len(members))
	for _, m := range members {
		resp.Employees = append(resp.Employees, department.NewMemberResponse(m))
	}
	return resp, nil
}

// Update implements department.DepartmentService.
func (s *DepartmentServiceImpl) Update(ctx context.Context, req department.UpdateDepartmentRequest) (department.DepartmentResponse, error) {
	if err := req.Validate(); err != nil {
		return department.DepartmentResponse{}, err
	}
	if err := requireManager(ctx); err != nil {
		return department.DepartmentResponse{}, err
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		d, err := s.departmentRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		if req.Name != nil {
			d.Name = strings.TrimSpace(*req.Name)
		}
		if req.Description != nil {
			d.Description = optionalString(req.Description)
		}
		if req.Location != nil {
			d.Location = optionalString(req.Location)
		}
		if req.Budget != nil {
			d.Budget = decimal.NewNullDecimal(*req.Budget)
		}
		if req.Status != nil {
			d.Status = department.Status(*req.Status)
		}
		if req.EstablishedDate != nil {
			d.EstablishedDate, _ = validator.IsValidDate(*req.EstablishedDate)
		}

		// Only a changed manager is looked up
		if req.ManagerEmail != nil && !sameEmail(d.ManagerEmail, req.ManagerEmail) {
			d.ManagerEmail, err = s.managerEmail(ctx, req.ManagerEmail)
			if err != nil {
				return err
			}
		}

		return s.departmentRepo.Update(ctx, d)
	})
	if err != nil {
		return department.DepartmentResponse{}, err
	}

	return s.Get(ctx, req.ID)
}

// Delete implements department.DepartmentService.
func (s *DepartmentServiceImpl) Delete(ctx context.Context, id string) error {
	if err := requireManager(ctx); err != nil {
		return err
	}

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		d, err := s.departmentRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if d.EmployeeCount > 0 {
			return department.ErrDepartmentHasEmployees
		}
		return s.departmentRepo.Delete(ctx, id)
	})
}

// managerEmail resolves an optional manager address to the stored value. A
// non-blank address must belong to a user.
func (s *DepartmentServiceImpl) managerEmail(ctx context.Context, email *string) (*string, error) {
	trimmed := optionalString(email)
	if trimmed == nil {
		return nil, nil
	}

	manager, err := s.userRepo.GetByEmail(ctx, *trimmed)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, department.ErrManagerNotFound
		}
		return nil, fmt.Errorf("failed to get manager: %w", err)
	}
	return &manager.Email, nil
}

func sameEmail(current, next *string) bool {
	a, b := optionalString(current), optionalString(next)
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return strings.EqualFold(*a, *b)
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
