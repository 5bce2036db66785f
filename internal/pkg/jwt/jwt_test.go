package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/erp-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/erp-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	fixed := time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	token, expiresAt, err := svc.GenerateAccessToken("user-1", "ana@example.com", user.RoleHR)
	require.NoError(t, err)
	assert.Equal(t, fixed.Add(time.Hour).Unix(), expiresAt)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "ana@example.com", claims["email"])
	assert.Equal(t, "HR", claims["role"])
	assert.Equal(t, "access", claims["type"])
}

func TestCurrentUser(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	token, _, err := svc.GenerateAccessToken("user-1", "ana@example.com", user.RoleEmployee)
	require.NoError(t, err)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	ctx := jwtauth.NewContext(context.Background(), decoded, nil)
	caller, err := CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, Caller{UserID: "user-1", Email: "ana@example.com", Role: user.RoleEmployee}, caller)
	assert.True(t, caller.Can(user.PermissionAttendanceViewOwn))
	assert.False(t, caller.Can(user.PermissionAttendanceViewAll))
}

func TestCurrentUser_MissingToken(t *testing.T) {
	_, err := CurrentUser(context.Background())
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
