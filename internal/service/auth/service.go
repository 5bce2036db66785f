package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/erp-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/erp-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/erp-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/erp-backend-go/internal/pkg/jwt"
)

type AuthServiceImpl struct {
	tx         database.Transactor
	userRepo   user.UserRepository
	jwtService jwt.Service
}

func NewAuthService(tx database.Transactor, userRepository user.UserRepository, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		tx:         tx,
		userRepo:   userRepository,
		jwtService: jwtService,
	}
}

// LoginWithProvider implements auth.AuthService.
func (a *AuthServiceImpl) LoginWithProvider(ctx context.Context, profile auth.ProviderProfile) (auth.TokenResponse, error) {
	if profile.ProviderID == "" || profile.Email == "" {
		return auth.TokenResponse{}, auth.ErrProviderProfileInvalid
	}

	var userData user.User
	err := a.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := a.userRepo.GetByProviderID(ctx, profile.ProviderID)
		if err == nil {
			userData = existing
			return nil
		}
		if !errors.Is(err, user.ErrUserNotFound) {
			return fmt.Errorf("failed to get user by provider ID: %w", err)
		}

		// HR may have registered the person already; a verified email claims that account
		if profile.VerifiedEmail {
			pending, err := a.userRepo.GetByEmail(ctx, profile.Email)
			switch {
			case err == nil && pending.Pending():
				if err := a.userRepo.LinkProvider(ctx, pending.ID, profile.ProviderID); err != nil {
					return fmt.Errorf("failed to link provider: %w", err)
				}
				pending.ProviderID = profile.ProviderID
				userData = pending
				slog.Info("linked registered user", "user_id", userData.ID, "role", userData.Role)
				return nil
			case err != nil && !errors.Is(err, user.ErrUserNotFound):
				return fmt.Errorf("failed to get user by email: %w", err)
			}
		}

		// User does not exist so we create one. The first account administers the system.
		total, err := a.userRepo.Count(ctx)
		if err != nil {
			return err
		}
		role := user.RoleEmployee
		if total == 0 {
			role = user.RoleAdmin
		}

		userData, err = a.userRepo.Create(ctx, user.User{
			ProviderID: profile.ProviderID,
			Email:      profile.Email,
			Name:       displayName(profile),
			Role:       role,
		})
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		slog.Info("provisioned user", "user_id", userData.ID, "role", userData.Role)
		return nil
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	accessToken, expiresAt, err := a.jwtService.GenerateAccessToken(userData.ID, userData.Email, userData.Role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	return auth.TokenResponse{
		AccessToken:          accessToken,
		TokenType:            "Bearer",
		AccessTokenExpiresIn: expiresAt,
		User:                 auth.NewUserResponse(userData),
	}, nil
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context) (auth.UserResponse, error) {
	caller, err := jwt.CurrentUser(ctx)
	if err != nil {
		return auth.UserResponse{}, err
	}

	userData, err := a.userRepo.GetByID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.UserResponse{}, auth.ErrUserNotFound
		}
		return auth.UserResponse{}, fmt.Errorf("failed to get user: %w", err)
	}

	return auth.NewUserResponse(userData), nil
}

func displayName(profile auth.ProviderProfile) string {
	if name := strings.TrimSpace(profile.Name); name != "" {
		return name
	}
	if name := strings.TrimSpace(profile.GivenName + " " + profile.FamilyName); name != "" {
		return name
	}
	return strings.SplitN(profile.Email, "@", 2)[0]
}
