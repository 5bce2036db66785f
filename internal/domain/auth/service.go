package auth

import (
	"context"
)

type AuthService interface {
	// LoginWithProvider resolves the local user for an identity-provider
	// profile, provisioning it on first sight, and issues an access token.
	LoginWithProvider(ctx context.Context, profile ProviderProfile) (TokenResponse, error)

	// Me returns the user behind the access token in ctx.
	Me(ctx context.Context) (UserResponse, error)
}
