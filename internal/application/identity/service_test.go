package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/styleco/storefront/internal/domain/identity"
	"github.com/styleco/storefront/internal/domain/shared"
	"github.com/styleco/storefront/internal/infrastructure/auth"
	"github.com/styleco/storefront/internal/infrastructure/config"
	"go.uber.org/zap"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, u *identity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func newTestIssuer() *auth.TokenIssuer {
	return auth.NewTokenIssuer(config.JWTConfig{Secret: "identity-test-secret", Issuer: "styleco", AccessTokenExpiration: time.Hour})
}

func createTestUser(t *testing.T, admin bool) *identity.User {
	t.Helper()
	u, err := identity.NewUser("mona@example.com", "secret123", "Mona Adel")
	require.NoError(t, err)
	u.IsAdmin = admin
	return u
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success issues a token", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("ExistsByEmail", ctx, "mona@example.com").Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)
		svc := NewAuthService(repo, newTestIssuer(), nil, zap.NewNop())

		resp, err := svc.Register(ctx, RegisterRequest{Email: "Mona@Example.com", Password: "secret123", FullName: "Mona"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token.AccessToken)
		assert.Equal(t, "mona@example.com", resp.User.Email)
		assert.False(t, resp.User.IsAdmin)
	})

	t.Run("email taken", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("ExistsByEmail", ctx, "mona@example.com").Return(true, nil)
		svc := NewAuthService(repo, newTestIssuer(), nil, nil)

		_, err := svc.Register(ctx, RegisterRequest{Email: "mona@example.com", Password: "secret123"})
		assert.ErrorIs(t, err, ErrEmailTaken)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t, true)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "success", email: "mona@example.com", password: "secret123"},
		{name: "wrong password", email: "mona@example.com", password: "wrong-pass", wantErr: ErrInvalidCredentials},
		{name: "unknown email", email: "nobody@example.com", password: "secret123", wantErr: ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			repo.On("FindByEmail", ctx, "mona@example.com").Return(user, nil)
			repo.On("FindByEmail", ctx, "nobody@example.com").Return(nil, shared.ErrNotFound)
			svc := NewAuthService(repo, newTestIssuer(), nil, nil)

			resp, err := svc.Login(ctx, LoginRequest{Email: tt.email, Password: tt.password})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, resp.User.IsAdmin)

			p, err := svc.Authenticate(ctx, resp.Token.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, user.ID, p.UserID)
			assert.True(t, p.IsAdmin)
		})
	}

	t.Run("repository failure is not masked", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByEmail", ctx, "mona@example.com").Return(nil, errors.New("db down"))
		svc := NewAuthService(repo, newTestIssuer(), nil, nil)
		_, err := svc.Login(ctx, LoginRequest{Email: "mona@example.com", Password: "secret123"})
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_AuthenticateAndLogout(t *testing.T) {
	ctx := context.Background()
	tokens := newTestIssuer()
	revocations := auth.NewMemoryRevocations()
	svc := NewAuthService(new(MockUserRepository), tokens, revocations, nil)

	token, err := tokens.Issue(uuid.New(), "a@b.co", false)
	require.NoError(t, err)

	p, err := svc.Authenticate(ctx, token.AccessToken)
	require.NoError(t, err)
	assert.Greater(t, p.TokenTTL, time.Duration(0))

	require.NoError(t, svc.Logout(ctx, *p))
	_, err = svc.Authenticate(ctx, token.AccessToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	_, err = svc.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestUserService_SetAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("self toggle refused", func(t *testing.T) {
		admin := createTestUser(t, true)
		repo := new(MockUserRepository)
		repo.On("FindByID", ctx, admin.ID).Return(admin, nil)
		svc := NewUserService(repo, nil, time.Hour, nil)

		_, err := svc.SetAdmin(ctx, admin.ID, admin.ID, false)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "CANNOT_MODIFY_SELF", de.Code)
		assert.True(t, admin.IsAdmin)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("grant revokes outstanding tokens", func(t *testing.T) {
		target := createTestUser(t, false)
		repo := new(MockUserRepository)
		repo.On("FindByID", ctx, target.ID).Return(target, nil)
		repo.On("Save", ctx, target).Return(nil)
		revocations := auth.NewMemoryRevocations()
		svc := NewUserService(repo, revocations, time.Hour, nil)

		resp, err := svc.SetAdmin(ctx, uuid.New(), target.ID, true)
		require.NoError(t, err)
		assert.True(t, resp.IsAdmin)

		invalid, err := revocations.IsRevoked(ctx, "", target.ID.String(), time.Now().Add(-time.Minute))
		require.NoError(t, err)
		assert.True(t, invalid)
	})
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()
	target := uuid.New()
	repo := new(MockUserRepository)
	repo.On("Delete", ctx, target).Return(nil)
	svc := NewUserService(repo, nil, time.Hour, nil)

	require.NoError(t, svc.Delete(ctx, actor, target))
	assert.Error(t, svc.Delete(ctx, actor, actor))
	repo.AssertNumberOfCalls(t, "Delete", 1)
}

func TestUserService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	repo.On("FindAll", ctx, shared.Filter{Page: 2, PageSize: 20, Search: "mona", OrderBy: "created_at", OrderDir: "desc"}).
		Return([]identity.User{*createTestUser(t, false)}, int64(21), nil)
	svc := NewUserService(repo, nil, time.Hour, nil)

	page, err := svc.List(ctx, UserListQuery{Search: "mona", Page: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 2, page.TotalPages)
}
