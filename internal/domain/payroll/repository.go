package payroll

import (
	"context"
)

type PayrollRepository interface {
	Create(ctx context.Context, record Payroll) (Payroll, error)
	GetByID(ctx context.Context, id string) (Payroll, error)
	// ExistsForPeriod checks for a record of (userID, month, year) other than excludeID
	ExistsForPeriod(ctx context.Context, userID string, month, year int, excludeID string) (bool, error)
	Update(ctx context.Context, record Payroll) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter PayrollFilter) ([]Payroll, int64, error)
}
