package identity

import (
	"time"

	"github.com/google/uuid"
)

// RegisterInput contains the input for partner registration
type RegisterInput struct {
	Email       string
	Password    string
	CompanyName string
	ContactName string
	Phone       string
}

// LoginInput contains the input for partner login
type LoginInput struct {
	Email    string
	Password string
}

// UserInfo contains basic account information returned with tokens
type UserInfo struct {
	ID          uuid.UUID
	Email       string
	CompanyName string
	ContactName string
	Phone       string
	CreatedAt   time.Time
}

// AuthResult contains tokens and the account profile
type AuthResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LogoutInput contains the input for revoking the current session
type LogoutInput struct {
	UserID         uuid.UUID
	TokenJTI       string
	TokenExpiresAt time.Time
}

// LogoutAllInput contains the input for revoking every session of a partner
type LogoutAllInput struct {
	UserID uuid.UUID
}

// GetProfileInput contains the input for fetching the current account
type GetProfileInput struct {
	UserID uuid.UUID
}
