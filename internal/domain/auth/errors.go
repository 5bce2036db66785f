package auth

import "errors"

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrTokenExpired = errors.New("token has expired")
	ErrUserNotFound = errors.New("user not found")

	// OAuth2 callback errors
	ErrStateCookieEmpty       = errors.New("state cookie is empty")
	ErrStateParamEmpty        = errors.New("state parameter is empty")
	ErrStateMismatch          = errors.New("state mismatch")
	ErrCodeValueEmpty         = errors.New("authorization code is empty")
	ErrAccessDeniedByUser     = errors.New("access denied by user at identity provider")
	ErrProviderProfileInvalid = errors.New("identity provider returned an incomplete profile")
)
