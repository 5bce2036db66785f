package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/erp-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/erp-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

const userSelect = `
	SELECT u.id, COALESCE(u.provider_id, ''), u.email, u.name, u.role, u.created_at, u.updated_at,
		   e.employee_code, d.name, e.position, e.salary
	FROM users u
	LEFT JOIN employees e ON e.user_id = u.id
	LEFT JOIN departments d ON d.id = e.department_id
`

func scanUser(row pgx.Row) (user.User, error) {
	var (
		u            user.User
		employeeCode *string
		department   *string
		position     *string
		salary       decimal.NullDecimal
	)
	err := row.Scan(
		&u.ID, &u.ProviderID, &u.Email, &u.Name, &u.Role, &u.CreatedAt, &u.UpdatedAt,
		&employeeCode, &department, &position, &salary,
	)
	if err != nil {
		return user.User{}, err
	}

	if employeeCode != nil {
		u.Profile = &user.EmployeeProfile{
			EmployeeCode:   *employeeCode,
			DepartmentName: department,
			Position:       position,
			Salary:         salary,
		}
	}
	return u, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	u, err := scanUser(q.QueryRow(ctx, userSelect+" WHERE u.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return u, nil
}

// GetByProviderID implements user.UserRepository.
func (r *userRepositoryImpl) GetByProviderID(ctx context.Context, providerID string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	u, err := scanUser(q.QueryRow(ctx, userSelect+" WHERE u.provider_id = $1", providerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by provider ID: %w", err)
	}
	return u, nil
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	u, err := scanUser(q.QueryRow(ctx, userSelect+" WHERE LOWER(u.email) = LOWER($1)", email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users (provider_id, email, name, role)
		VALUES (NULLIF($1, ''), $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newUser.ProviderID,
		newUser.Email,
		newUser.Name,
		newUser.Role,
	).Scan(&newUser.ID, &newUser.CreatedAt, &newUser.UpdatedAt)
	if err != nil {
		if constraint, ok := uniqueConstraint(err); ok {
			if strings.Contains(constraint, "email") {
				return user.User{}, user.ErrEmailExists
			}
			return user.User{}, user.ErrProviderIDExists
		}
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return newUser, nil
}

// LinkProvider implements user.UserRepository. Only unclaimed accounts are linked.
func (r *userRepositoryImpl) LinkProvider(ctx context.Context, id string, providerID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users SET provider_id = $2, updated_at = NOW()
		WHERE id = $1 AND provider_id IS NULL
	`

	tag, err := q.Exec(ctx, query, id, providerID)
	if err != nil {
		if isUniqueViolation(err) {
			return user.ErrProviderIDExists
		}
		return fmt.Errorf("failed to link provider: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// UpdateIdentity implements user.UserRepository.
func (r *userRepositoryImpl) UpdateIdentity(ctx context.Context, id string, name string, email string) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE users SET name = $2, email = $3, updated_at = NOW() WHERE id = $1`

	tag, err := q.Exec(ctx, query, id, name, email)
	if err != nil {
		if isUniqueViolation(err) {
			return user.ErrEmailExists
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// Count implements user.UserRepository.
func (r *userRepositoryImpl) Count(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return total, nil
}
