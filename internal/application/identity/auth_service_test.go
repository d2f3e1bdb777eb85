package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kivalao/backend/internal/domain/identity"
	"github.com/kivalao/backend/internal/domain/shared"
	"github.com/kivalao/backend/internal/infrastructure/auth"
	"github.com/kivalao/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
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

func (m *MockUserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*identity.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// Verify interface compliance
var _ identity.UserRepository = (*MockUserRepository)(nil)

// =============================================================================
// Test Helper Functions
// =============================================================================

func newTestAuthService(userRepo identity.UserRepository) *AuthService {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	})
	return NewAuthService(userRepo, jwtService, auth.NewInMemoryRevocationList(), zap.NewNop())
}

func createTestUser(t *testing.T, email string) *identity.User {
	t.Helper()
	user, err := identity.NewUser(email, "secret123", "Test Company", "Test Contact")
	require.NoError(t, err)
	return user
}

// =============================================================================
// AuthService Tests
// =============================================================================

func TestAuthService_Register_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newTestAuthService(mockRepo)

	ctx := context.Background()
	input := RegisterInput{
		Email:       "New.Partner@Example.com",
		Password:    "secret123",
		CompanyName: "New Partner SARL",
		ContactName: "Nina",
		Phone:       "+33 1 23 45 67 89",
	}

	mockRepo.On("ExistsByEmail", ctx, "new.partner@example.com").Return(false, nil)
	mockRepo.On("Create", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

	result, err := service.Register(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "Bearer", result.TokenType)
	assert.Equal(t, "new.partner@example.com", result.User.Email)
	assert.Equal(t, "New Partner SARL", result.User.CompanyName)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newTestAuthService(mockRepo)

	ctx := context.Background()
	input := RegisterInput{
		Email:       "taken@example.com",
		Password:    "secret123",
		CompanyName: "Dup Co",
	}

	mockRepo.On("ExistsByEmail", ctx, "taken@example.com").Return(true, nil)

	result, err := service.Register(ctx, input)

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Register_InvalidPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newTestAuthService(mockRepo)

	ctx := context.Background()
	mockRepo.On("ExistsByEmail", ctx, "weak@example.com").Return(false, nil)

	result, err := service.Register(ctx, RegisterInput{
		Email:       "weak@example.com",
		Password:    "short",
		CompanyName: "Weak Co",
	})

	assert.Nil(t, result)
	assert.Error(t, err)
}

func TestAuthService_Login_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newTestAuthService(mockRepo)

	ctx := context.Background()
	user := createTestUser(t, "login@example.com")

	mockRepo.On("FindByEmail", ctx, "login@example.com").Return(user, nil)

	result, err := service.Login(ctx, LoginInput{
		Email:    "Login@Example.COM",
		Password: "secret123",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, user.ID, result.User.ID)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newTestAuthService(mockRepo)

	ctx := context.Background()
	mockRepo.On("FindByEmail", ctx, "ghost@example.com").Return(nil, errors.New("record not found"))

	result, err := service.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "secret123"})

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newTestAuthService(mockRepo)

	ctx := context.Background()
	user := createTestUser(t, "login@example.com")

	mockRepo.On("FindByEmail", ctx, "login@example.com").Return(user, nil)

	result, err := service.Login(ctx, LoginInput{Email: "login@example.com", Password: "wrong-password"})

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
}

func TestAuthService_RefreshToken_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newTestAuthService(mockRepo)

	ctx := context.Background()
	user := createTestUser(t, "refresh@example.com")

	mockRepo.On("ExistsByEmail", ctx, "refresh@example.com").Return(false, nil)
	mockRepo.On("Create", ctx, mock.AnythingOfType("*identity.User")).Return(nil)
	mockRepo.On("FindByID", ctx, mock.AnythingOfType("uuid.UUID")).Return(user, nil)

	registered, err := service.Register(ctx, RegisterInput{
		Email:       "refresh@example.com",
		Password:    "secret123",
		CompanyName: "Refresh Co",
	})
	require.NoError(t, err)

	result, err := service.RefreshToken(ctx, RefreshTokenInput{RefreshToken: registered.RefreshToken})

	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
}

func TestAuthService_RefreshToken_Invalid(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newTestAuthService(mockRepo)

	result, err := service.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: "garbage"})

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "TOKEN_INVALID", domainErr.Code)
}

func TestAuthService_GetProfile(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newTestAuthService(mockRepo)

	ctx := context.Background()
	user := createTestUser(t, "profile@example.com")

	mockRepo.On("FindByID", ctx, user.ID).Return(user, nil)

	info, err := service.GetProfile(ctx, GetProfileInput{UserID: user.ID})

	require.NoError(t, err)
	assert.Equal(t, user.Email, info.Email)
	assert.Equal(t, user.CompanyName, info.CompanyName)
}

func TestAuthService_Logout_RevokesToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	revocations := auth.NewInMemoryRevocationList()
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
	})
	service := NewAuthService(mockRepo, jwtService, revocations, zap.NewNop())

	ctx := context.Background()
	userID := uuid.New()

	err := service.Logout(ctx, LogoutInput{
		UserID:         userID,
		TokenJTI:       "jti-123",
		TokenExpiresAt: time.Now().Add(10 * time.Minute),
	})
	require.NoError(t, err)

	revoked, err := revocations.IsRevoked(ctx, "jti-123")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestAuthService_Logout_ExpiredTokenIsNoOp(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newTestAuthService(mockRepo)

	err := service.Logout(context.Background(), LogoutInput{
		UserID:         uuid.New(),
		TokenJTI:       "jti-old",
		TokenExpiresAt: time.Now().Add(-time.Minute),
	})
	require.NoError(t, err)
}

func TestAuthService_LogoutAll_RevokesSessions(t *testing.T) {
	mockRepo := new(MockUserRepository)
	revocations := auth.NewInMemoryRevocationList()
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
	})
	service := NewAuthService(mockRepo, jwtService, revocations, zap.NewNop())

	ctx := context.Background()
	userID := uuid.New()
	issuedEarlier := time.Now().Add(-time.Minute)

	require.NoError(t, service.LogoutAll(ctx, LogoutAllInput{UserID: userID}))

	revoked, err := revocations.IsSessionRevoked(ctx, userID.String(), issuedEarlier)
	require.NoError(t, err)
	assert.True(t, revoked)
}
