package user

import (
	"context"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (User, error)
	GetByProviderID(ctx context.Context, providerID string) (User, error)
	// GetByEmail matches case-insensitively
	GetByEmail(ctx context.Context, email string) (User, error)
	// Create stores an empty ProviderID as NULL so HR can register people
	// before their first login.
	Create(ctx context.Context, newUser User) (User, error)
	LinkProvider(ctx context.Context, id string, providerID string) error
	UpdateIdentity(ctx context.Context, id string, name string, email string) error
	Count(ctx context.Context) (int64, error)
}
