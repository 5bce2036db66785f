package auth

import (
	"github.com/cmlabs-hris/erp-backend-go/internal/domain/user"
)

type TokenResponse struct {
	AccessToken          string       `json:"access_token"`
	TokenType            string       `json:"token_type"`
	AccessTokenExpiresIn int64        `json:"access_token_expires_in"`
	User                 UserResponse `json:"user"`
}

type UserResponse struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	Name         string  `json:"name"`
	Role         string  `json:"role"`
	EmployeeCode *string `json:"employee_code,omitempty"`
	Department   *string `json:"department,omitempty"`
	Position     *string `json:"position,omitempty"`
}

func NewUserResponse(u user.User) UserResponse {
	resp := UserResponse{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  string(u.Role),
	}
	if u.Profile != nil {
		code := u.Profile.EmployeeCode
		resp.EmployeeCode = &code
		resp.Department = u.Profile.DepartmentName
		resp.Position = u.Profile.Position
	}
	return resp
}

// ProviderProfile is the identity returned by the external identity provider.
type ProviderProfile struct {
	ProviderID    string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
}
