package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/erp-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/erp-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type departmentRepositoryImpl struct {
	db *database.DB
}

func NewDepartmentRepository(db *database.DB) department.DepartmentRepository {
	return &departmentRepositoryImpl{db: db}
}

const departmentSelect = `
	SELECT
		d.id, d.name, d.description, d.manager_email, d.location, d.budget, d.status,
		d.established_date, d.created_at, d.updated_at,
		m.name AS manager_name,
		(SELECT COUNT(*) FROM employees e WHERE e.department_id = d.id) AS employee_count
	FROM departments d
	LEFT JOIN users m ON LOWER(m.email) = LOWER(d.manager_email)
`

func scanDepartment(row pgx.Row) (department.Department, error) {
	var d department.Department
	err := row.Scan(
		&d.ID, &d.Name, &d.Description, &d.ManagerEmail, &d.Location, &d.Budget, &d.Status,
		&d.EstablishedDate, &d.CreatedAt, &d.UpdatedAt,
		&d.ManagerName, &d.EmployeeCount,
	)
	return d, err
}

// List implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) List(ctx context.Context, filter department.DepartmentFilter) ([]department.Department, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1 = 1"}
	args := []interface{}{}
	argIdx := 1

	if filter.Search != nil {
		conditions = append(conditions, fmt.Sprintf("(d.name ILIKE $%d OR d.description ILIKE $%d OR m.name ILIKE $%d)", argIdx, argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}
	if filter.Location != nil {
		conditions = append(conditions, fmt.Sprintf("d.location = $%d", argIdx))
		args = append(args, *filter.Location)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("d.status = $%d", argIdx))
		args = append(args, *filter.Status)
	}

	query := departmentSelect + " WHERE " + strings.Join(conditions, " AND ") + " ORDER BY d.name ASC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	defer rows.Close()

	var departments []department.Department
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		departments = append(departments, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate departments: %w", err)
	}

	return departments, nil
}

// GetByID implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) GetByID(ctx context.Context, id string) (department.Department, error) {
	q := GetQuerier(ctx, r.db)

	d, err := scanDepartment(q.QueryRow(ctx, departmentSelect+" WHERE d.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return department.Department{}, department.ErrDepartmentNotFound
		}
		return department.Department{}, fmt.Errorf("failed to get department: %w", err)
	}
	return d, nil
}

// GetByName implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) GetByName(ctx context.Context, name string) (department.Department, error) {
	q := GetQuerier(ctx, r.db)

	d, err := scanDepartment(q.QueryRow(ctx, departmentSelect+" WHERE LOWER(d.name) = LOWER($1)", name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return department.Department{}, department.ErrDepartmentNotFound
		}
		return department.Department{}, fmt.Errorf("failed to get department by name: %w", err)
	}
	return d, nil
}

// Create implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) Create(ctx context.Context, newDepartment department.Department) (department.Department, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO departments (
			name, description, manager_email, location, budget, status, established_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newDepartment.Name, newDepartment.Description, newDepartment.ManagerEmail,
		newDepartment.Location, newDepartment.Budget, newDepartment.Status, newDepartment.EstablishedDate,
	).Scan(&newDepartment.ID, &newDepartment.CreatedAt, &newDepartment.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return department.Department{}, department.ErrDepartmentNameExists
		}
		return department.Department{}, fmt.Errorf("failed to create department: %w", err)
	}

	return newDepartment, nil
}

// Update implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) Update(ctx context.Context, d department.Department) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE departments
		SET name = $2, description = $3, manager_email = $4, location = $5, budget = $6,
			status = $7, established_date = $8, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		d.ID, d.Name, d.Description, d.ManagerEmail, d.Location, d.Budget, d.Status, d.EstablishedDate,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return department.ErrDepartmentNameExists
		}
		return fmt.Errorf("failed to update department: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return department.ErrDepartmentNotFound
	}
	return nil
}

// Delete implements department.DepartmentRepository. Employees keep the row alive.
func (r *departmentRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	var deletedID string
	err := q.QueryRow(ctx, `DELETE FROM departments WHERE id = $1 RETURNING id`, id).Scan(&deletedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return department.ErrDepartmentNotFound
		}
		if isForeignKeyViolation(err) {
			return department.ErrDepartmentHasEmployees
		}
		return fmt.Errorf("failed to delete department: %w", err)
	}
	return nil
}

// ListMembers implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) ListMembers(ctx context.Context, id string) ([]department.Member, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT e.id, e.user_id, e.employee_code, e.first_name, e.last_name, u.email, e.position, e.status
		FROM employees e
		JOIN users u ON u.id = e.user_id
		WHERE e.department_id = $1
		ORDER BY e.first_name, e.last_name
	`

	rows, err := q.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list department members: %w", err)
	}
	defer rows.Close()

	var members []department.Member
	for rows.Next() {
		var m department.Member
		if err := rows.Scan(&m.EmployeeID, &m.UserID, &m.EmployeeCode, &m.FirstName, &m.LastName, &m.Email, &m.Position, &m.Status); err != nil {
			return nil, fmt.Errorf("failed to scan department member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate department members: %w", err)
	}

	return members, nil
}
