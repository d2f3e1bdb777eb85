package identity

import (
	"context"
	"time"

	"github.com/kivalao/backend/internal/domain/identity"
	"github.com/kivalao/backend/internal/domain/shared"
	"github.com/kivalao/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthService handles partner registration and authentication
type AuthService struct {
	userRepo    identity.UserRepository
	jwtService  *auth.JWTService
	revocations auth.RevocationList
	logger      *zap.Logger
}

// NewAuthService creates a new authentication service. The revocation list is
// optional; without one, Logout only succeeds client-side.
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	revocations auth.RevocationList,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		jwtService:  jwtService,
		revocations: revocations,
		logger:      logger,
	}
}

// Register creates a new partner account and returns a token pair
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := identity.NormalizeEmail(input.Email)
	s.logger.Info("Registration attempt", zap.String("email", email))

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		s.logger.Error("Failed to check email existence", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to register account")
	}
	if exists {
		s.logger.Warn("Registration with existing email", zap.String("email", email))
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An account with this email already exists")
	}

	user, err := identity.NewUser(input.Email, input.Password, input.CompanyName, input.ContactName)
	if err != nil {
		return nil, err
	}
	if input.Phone != "" {
		if err := user.SetPhone(input.Phone); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to register account")
	}

	result, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Partner registered",
		zap.String("email", user.Email),
		zap.String("user_id", user.ID.String()))

	return result, nil
}

// Login authenticates a partner and returns a token pair
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := identity.NormalizeEmail(input.Email)
	s.logger.Info("Login attempt", zap.String("email", email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Warn("User not found during login", zap.String("email", email))
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid email or password")
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("email", email))
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid email or password")
	}

	result, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Partner logged in",
		zap.String("email", user.Email),
		zap.String("user_id", user.ID.String()))

	return result, nil
}

// RefreshToken refreshes the access token using a valid refresh token
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*RefreshTokenResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))

		switch err {
		case auth.ErrExpiredToken:
			return nil, shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
		case auth.ErrMaxRefreshExceeded:
			return nil, shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
		default:
			return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
		}
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user ID in token")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		s.logger.Warn("User not found during token refresh", zap.String("user_id", userID.String()))
		return nil, shared.NewDomainError("NOT_FOUND", "User not found")
	}

	pair, err := s.jwtService.RefreshTokenPair(input.RefreshToken, user.Email)
	if err != nil {
		s.logger.Warn("Token refresh failed", zap.Error(err))

		switch err {
		case auth.ErrExpiredToken:
			return nil, shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
		case auth.ErrMaxRefreshExceeded:
			return nil, shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
		default:
			return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
		}
	}

	s.logger.Info("Token refreshed", zap.String("user_id", userID.String()))

	return &RefreshTokenResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}, nil
}

// Logout revokes the current access token so it can no longer be used
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if s.revocations == nil || input.TokenJTI == "" {
		s.logger.Debug("Logout without token revocation",
			zap.String("user_id", input.UserID.String()))
		return nil
	}

	ttl := time.Until(input.TokenExpiresAt)
	if ttl <= 0 {
		// Token already expired, nothing to revoke
		return nil
	}

	if err := s.revocations.Revoke(ctx, input.TokenJTI, ttl); err != nil {
		s.logger.Error("Failed to revoke token",
			zap.String("user_id", input.UserID.String()),
			zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to log out")
	}

	s.logger.Info("Partner logged out", zap.String("user_id", input.UserID.String()))
	return nil
}

// LogoutAll revokes every session of the partner. Tokens issued before now
// are rejected until the longest-lived one would have expired anyway.
func (s *AuthService) LogoutAll(ctx context.Context, input LogoutAllInput) error {
	if s.revocations == nil {
		s.logger.Debug("Logout-all without token revocation",
			zap.String("user_id", input.UserID.String()))
		return nil
	}

	ttl := s.jwtService.GetRefreshTokenExpiration()
	if err := s.revocations.RevokePartnerSessions(ctx, input.UserID.String(), ttl); err != nil {
		s.logger.Error("Failed to revoke partner sessions",
			zap.String("user_id", input.UserID.String()),
			zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to log out")
	}

	s.logger.Info("Partner logged out of all sessions", zap.String("user_id", input.UserID.String()))
	return nil
}

// GetProfile retrieves the current account's information
func (s *AuthService) GetProfile(ctx context.Context, input GetProfileInput) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, shared.NewDomainError("NOT_FOUND", "User not found")
	}

	info := toUserInfo(user)
	return &info, nil
}

func (s *AuthService) issueTokens(user *identity.User) (*AuthResult, error) {
	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: user.ID,
		Email:  user.Email,
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	return &AuthResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  toUserInfo(user),
	}, nil
}

func toUserInfo(user *identity.User) UserInfo {
	return UserInfo{
		ID:          user.ID,
		Email:       user.Email,
		CompanyName: user.CompanyName,
		ContactName: user.ContactName,
		Phone:       user.Phone,
		CreatedAt:   user.CreatedAt,
	}
}
