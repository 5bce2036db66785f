package payroll

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/erp-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/erp-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/erp-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/erp-backend-go/internal/pkg/jwt"
	"github.com/shopspring/decimal"
)

type PayrollServiceImpl struct {
	tx          database.Transactor
	payrollRepo payroll.PayrollRepository
	userRepo    user.UserRepository
}

func NewPayrollService(
	tx database.Transactor,
	payrollRepo payroll.PayrollRepository,
	userRepo user.UserRepository,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		tx:          tx,
		payrollRepo: payrollRepo,
		userRepo:    userRepo,
	}
}

// requireManager returns the caller when they may manage payroll.
func requireManager(ctx context.Context) (jwt.Caller, error) {
	caller, err := jwt.CurrentUser(ctx)
	if err != nil {
		return jwt.Caller{}, err
	}
	if !caller.Can(user.PermissionPayrollManage) {
		return jwt.Caller{}, payroll.ErrForbidden
	}
	return caller, nil
}

// ========== PAYROLL RECORDS ==========

func (s *PayrollServiceImpl) List(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListPayrollResponse{}, err
	}

	caller, err := jwt.CurrentUser(ctx)
	if err != nil {
		return payroll.ListPayrollResponse{}, err
	}

	switch {
	case caller.Can(user.PermissionPayrollViewAll):
		// may list everyone or filter by user_id
	case caller.Can(user.PermissionPayrollViewUser):
		if filter.UserID == nil {
			return payroll.ListPayrollResponse{}, payroll.ErrForbidden
		}
	case caller.Can(user.PermissionPayrollViewOwn):
		filter.UserID = &caller.UserID
	default:
		return payroll.ListPayrollResponse{}, payroll.ErrForbidden
	}

	records, total, err := s.payrollRepo.List(ctx, filter)
	if err != nil {
		return payroll.ListPayrollResponse{}, fmt.Errorf("failed to list payroll records: %w", err)
	}

	data := make([]payroll.PayrollResponse, 0, len(records))
	for _, rec := range records {
		data = append(data, payroll.NewPayrollResponse(rec))
	}

	pages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))

	return payroll.ListPayrollResponse{
		Data: data,
		Pagination: payroll.Pagination{
			Page:  filter.Page,
			Limit: filter.Limit,
			Total: total,
			Pages: pages,
		},
	}, nil
}

func (s *PayrollServiceImpl) Create(ctx context.Context, req payroll.CreatePayrollRequest) (payroll.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	if _, err := requireManager(ctx); err != nil {
		return payroll.PayrollResponse{}, err
	}

	var id string
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		employee, err := s.userRepo.GetByID(ctx, req.UserID)
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				return payroll.ErrEmployeeNotFound
			}
			return fmt.Errorf("failed to get employee: %w", err)
		}

		exists, err := s.payrollRepo.ExistsForPeriod(ctx, req.UserID, req.Month, req.Year, "")
		if err != nil {
			return err
		}
		if exists {
			return payroll.ErrPayrollRecordAlreadyExists
		}

		record := payroll.Payroll{
			UserID:      req.UserID,
			Month:       req.Month,
			Year:        req.Year,
			BasicSalary: employee.BaseSalary(),
			Allowances:  decimalOrZero(req.Allowances),
			Deductions:  decimalOrZero(req.Deductions),
			Status:      payroll.PayrollStatusPending,
		}
		if req.BasicSalary != nil {
			record.BasicSalary = *req.BasicSalary
		}
		if req.Status != "" {
			record.Status = payroll.PayrollStatus(req.Status)
		}
		record.Recalculate()

		created, err := s.payrollRepo.Create(ctx, record)
		if err != nil {
			return err
		}
		id = created.ID
		return nil
	})
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	return s.Get(ctx, id)
}

func (s *PayrollServiceImpl) Get(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	caller, err := jwt.CurrentUser(ctx)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	rec, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	switch {
	case caller.Can(user.PermissionPayrollViewAll), caller.Can(user.PermissionPayrollViewUser):
	case caller.Can(user.PermissionPayrollViewOwn) && rec.UserID == caller.UserID:
	default:
		return payroll.PayrollResponse{}, payroll.ErrForbidden
	}

	return payroll.NewPayrollResponse(rec), nil
}

func (s *PayrollServiceImpl) Update(ctx context.Context, req payroll.UpdatePayrollRequest) (payroll.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	if _, err := requireManager(ctx); err != nil {
		return payroll.PayrollResponse{}, err
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		rec, err := s.payrollRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		userID, month, year := rec.UserID, rec.Month, rec.Year
		if req.UserID != nil {
			userID = *req.UserID
		}
		if req.Month != nil {
			month = *req.Month
		}
		if req.Year != nil {
			year = *req.Year
		}

		// Period checks only when the period moves
		if !rec.SamePeriod(userID, month, year) {
			if userID != rec.UserID {
				if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
					if errors.Is(err, user.ErrUserNotFound) {
						return payroll.ErrEmployeeNotFound
					}
					return fmt.Errorf("failed to get employee: %w", err)
				}
			}

			exists, err := s.payrollRepo.ExistsForPeriod(ctx, userID, month, year, rec.ID)
			if err != nil {
				return err
			}
			if exists {
				return payroll.ErrPayrollRecordAlreadyExists
			}
		}

		rec.UserID, rec.Month, rec.Year = userID, month, year
		if req.BasicSalary != nil {
			rec.BasicSalary = *req.BasicSalary
		}
		if req.Allowances != nil {
			rec.Allowances = *req.Allowances
		}
		if req.Deductions != nil {
			rec.Deductions = *req.Deductions
		}
		if req.Status != nil {
			rec.Status = payroll.PayrollStatus(*req.Status)
		}
		rec.Recalculate()

		return s.payrollRepo.Update(ctx, rec)
	})
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	return s.Get(ctx, req.ID)
}

func (s *PayrollServiceImpl) Delete(ctx context.Context, id string) error {
	if _, err := requireManager(ctx); err != nil {
		return err
	}
	return s.payrollRepo.Delete(ctx, id)
}

func decimalOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
