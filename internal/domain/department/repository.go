package department

import "context"

type DepartmentRepository interface {
	List(ctx context.Context, filter DepartmentFilter) ([]Department, error)
	GetByID(ctx context.Context, id string) (Department, error)
	// GetByName matches case-insensitively
	GetByName(ctx context.Context, name string) (Department, error)
	Create(ctx context.Context, newDepartment Department) (Department, error)
	Update(ctx context.Context, d Department) error
	Delete(ctx context.Context, id string) error
	ListMembers(ctx context.Context, id string) ([]Member, error)
}
