package payroll

import (
	"context"
)

type PayrollService interface {
	List(ctx context.Context, filter PayrollFilter) (ListPayrollResponse, error)
	Create(ctx context.Context, req CreatePayrollRequest) (PayrollResponse, error)
	Get(ctx context.Context, id string) (PayrollResponse, error)
	Update(ctx context.Context, req UpdatePayrollRequest) (PayrollResponse, error)
	Delete(ctx context.Context, id string) error
}
