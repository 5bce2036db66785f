package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/erp-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/erp-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/erp-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt"

type fakeTransactor struct{}

func (fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeUserRepo struct {
	users map[string]user.User
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByProviderID(_ context.Context, providerID string) (user.User, error) {
	for _, u := range f.users {
		if u.ProviderID == providerID {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) Create(_ context.Context, u user.User) (user.User, error) {
	if _, err := f.GetByEmail(context.Background(), u.Email); err == nil {
		return user.User{}, user.ErrEmailExists
	}
	u.ID = uuid.NewString()
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) LinkProvider(_ context.Context, id string, providerID string) error {
	u, ok := f.users[id]
	if !ok || !u.Pending() {
		return user.ErrUserNotFound
	}
	u.ProviderID = providerID
	f.users[id] = u
	return nil
}

func (f *fakeUserRepo) UpdateIdentity(_ context.Context, id string, name string, email string) error {
	u, ok := f.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.Name, u.Email = name, email
	f.users[id] = u
	return nil
}

func (f *fakeUserRepo) Count(context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

func newTestService() (auth.AuthService, *jwt.JWTService, *fakeUserRepo) {
	repo := &fakeUserRepo{users: map[string]user.User{}}
	jwtService := jwt.NewJWTService(testSecret, time.Hour)
	return NewAuthService(fakeTransactor{}, repo, jwtService), jwtService, repo
}

func TestLoginWithProvider_FirstUserIsAdmin(t *testing.T) {
	svc, _, repo := newTestService()
	ctx := context.Background()

	first, err := svc.LoginWithProvider(ctx, auth.ProviderProfile{ProviderID: "g-1", Email: "owner@example.com", Name: "Owner"})
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", first.User.Role)
	assert.Equal(t, "Bearer", first.TokenType)
	assert.NotEmpty(t, first.AccessToken)

	second, err := svc.LoginWithProvider(ctx, auth.ProviderProfile{ProviderID: "g-2", Email: "ana.putri@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "EMPLOYEE", second.User.Role)
	assert.Equal(t, "ana.putri", second.User.Name)

	// Returning users are not provisioned again
	again, err := svc.LoginWithProvider(ctx, auth.ProviderProfile{ProviderID: "g-1", Email: "owner@example.com"})
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, again.User.ID)
	assert.Equal(t, "ADMIN", again.User.Role)
	assert.Len(t, repo.users, 2)
}

func TestLoginWithProvider_ClaimsRegisteredUser(t *testing.T) {
	svc, _, repo := newTestService()
	ctx := context.Background()

	_, err := svc.LoginWithProvider(ctx, auth.ProviderProfile{ProviderID: "g-admin", Email: "owner@example.com"})
	require.NoError(t, err)

	// Registered by HR before the first login
	registered, err := repo.Create(ctx, user.User{Email: "budi@example.com", Name: "Budi Santoso", Role: user.RoleEmployee})
	require.NoError(t, err)

	login, err := svc.LoginWithProvider(ctx, auth.ProviderProfile{ProviderID: "g-budi", Email: "Budi@example.com", VerifiedEmail: true, Name: "Budi S"})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, login.User.ID)
	assert.Equal(t, "EMPLOYEE", login.User.Role)
	assert.Equal(t, "Budi Santoso", login.User.Name)
	assert.Equal(t, "g-budi", repo.users[registered.ID].ProviderID)
	assert.Len(t, repo.users, 2)

	again, err := svc.LoginWithProvider(ctx, auth.ProviderProfile{ProviderID: "g-budi", Email: "budi@example.com", VerifiedEmail: true})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, again.User.ID)
}

func TestLoginWithProvider_UnverifiedEmailDoesNotClaim(t *testing.T) {
	svc, _, repo := newTestService()
	ctx := context.Background()

	_, err := svc.LoginWithProvider(ctx, auth.ProviderProfile{ProviderID: "g-admin", Email: "owner@example.com"})
	require.NoError(t, err)
	registered, err := repo.Create(ctx, user.User{Email: "budi@example.com", Name: "Budi", Role: user.RoleEmployee})
	require.NoError(t, err)

	_, err = svc.LoginWithProvider(ctx, auth.ProviderProfile{ProviderID: "g-other", Email: "budi@example.com"})
	assert.ErrorIs(t, err, user.ErrEmailExists)
	stored := repo.users[registered.ID]
	assert.True(t, stored.Pending())
}

func TestLoginWithProvider_IncompleteProfile(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.LoginWithProvider(context.Background(), auth.ProviderProfile{Email: "x@example.com"})
	assert.ErrorIs(t, err, auth.ErrProviderProfileInvalid)
}

func TestMe(t *testing.T) {
	svc, jwtService, _ := newTestService()

	login, err := svc.LoginWithProvider(context.Background(), auth.ProviderProfile{ProviderID: "g-1", Email: "owner@example.com", GivenName: "Sari", FamilyName: "Dewi"})
	require.NoError(t, err)

	token, err := jwtService.JWTAuth().Decode(login.AccessToken)
	require.NoError(t, err)
	ctx := jwtauth.NewContext(context.Background(), token, nil)

	me, err := svc.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, login.User.ID, me.ID)
	assert.Equal(t, "Sari Dewi", me.Name)

	_, err = svc.Me(context.Background())
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
