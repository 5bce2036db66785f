package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/erp-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/erp-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payrollColumns = `
	pr.id, pr.user_id, pr.month, pr.year, pr.basic_salary,
	pr.allowances, pr.deductions, pr.net_salary, pr.status,
	pr.created_at, pr.updated_at,
	u.name AS employee_name, u.email AS employee_email,
	e.employee_code, d.name AS department_name, e.position
`

const payrollJoins = `
	FROM payrolls pr
	JOIN users u ON u.id = pr.user_id
	LEFT JOIN employees e ON e.user_id = pr.user_id
	LEFT JOIN departments d ON d.id = e.department_id
`

func scanPayroll(row pgx.Row) (payroll.Payroll, error) {
	var rec payroll.Payroll
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.Month, &rec.Year, &rec.BasicSalary,
		&rec.Allowances, &rec.Deductions, &rec.NetSalary, &rec.Status,
		&rec.CreatedAt, &rec.UpdatedAt,
		&rec.EmployeeName, &rec.EmployeeEmail,
		&rec.EmployeeCode, &rec.DepartmentName, &rec.Position,
	)
	return rec, err
}

func (r *payrollRepository) Create(ctx context.Context, record payroll.Payroll) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payrolls (
			user_id, month, year, basic_salary, allowances, deductions, net_salary, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.UserID, record.Month, record.Year, record.BasicSalary,
		record.Allowances, record.Deductions, record.NetSalary, record.Status,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return payroll.Payroll{}, payroll.ErrPayrollRecordAlreadyExists
		}
		return payroll.Payroll{}, fmt.Errorf("failed to create payroll record: %w", err)
	}

	return record, nil
}

func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := "SELECT " + payrollColumns + payrollJoins + " WHERE pr.id = $1"

	rec, err := scanPayroll(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payroll{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return rec, nil
}

func (r *payrollRepository) ExistsForPeriod(ctx context.Context, userID string, month, year int, excludeID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS(
			SELECT 1 FROM payrolls
			WHERE user_id = $1 AND month = $2 AND year = $3
			  AND ($4 = '' OR id::text <> $4)
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, userID, month, year, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check payroll period: %w", err)
	}
	return exists, nil
}

func (r *payrollRepository) Update(ctx context.Context, record payroll.Payroll) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payrolls
		SET user_id = $2, month = $3, year = $4, basic_salary = $5, allowances = $6,
			deductions = $7, net_salary = $8, status = $9, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		record.ID, record.UserID, record.Month, record.Year, record.BasicSalary,
		record.Allowances, record.Deductions, record.NetSalary, record.Status,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return payroll.ErrPayrollRecordAlreadyExists
		}
		return fmt.Errorf("failed to update payroll record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayrollRecordNotFound
	}

	return nil
}

func (r *payrollRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM payrolls WHERE id = $1 RETURNING id`

	var deletedID string
	err := q.QueryRow(ctx, query, id).Scan(&deletedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.ErrPayrollRecordNotFound
		}
		return fmt.Errorf("failed to delete payroll record: %w", err)
	}

	return nil
}

func (r *payrollRepository) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.Payroll, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := payrollJoins + " WHERE 1 = 1"
	args := []interface{}{}
	argIdx := 1

	if filter.UserID != nil {
		baseQuery += fmt.Sprintf(" AND pr.user_id = $%d", argIdx)
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.Month != nil {
		baseQuery += fmt.Sprintf(" AND pr.month = $%d", argIdx)
		args = append(args, *filter.Month)
		argIdx++
	}
	if filter.Year != nil {
		baseQuery += fmt.Sprintf(" AND pr.year = $%d", argIdx)
		args = append(args, *filter.Year)
		argIdx++
	}
	if filter.Status != nil {
		baseQuery += fmt.Sprintf(" AND pr.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	// Count query
	var totalCount int64
	countQuery := "SELECT COUNT(*) " + baseQuery
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll records: %w", err)
	}

	// Pagination
	if filter.Limit <= 0 {
		filter.Limit = 10
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	offset := (filter.Page - 1) * filter.Limit

	selectQuery := fmt.Sprintf(`
		SELECT %s
		%s
		ORDER BY pr.year DESC, pr.month DESC, pr.created_at DESC
		LIMIT $%d OFFSET $%d
	`, payrollColumns, baseQuery, argIdx, argIdx+1)

	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.Payroll
	for rows.Next() {
		rec, err := scanPayroll(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate payroll records: %w", err)
	}

	return records, totalCount, nil
}
