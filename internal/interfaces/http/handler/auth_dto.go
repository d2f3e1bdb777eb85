package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/kivalao/backend/internal/application/identity"
)

// =====================
// Auth Request DTOs
// =====================

// RegisterRequest represents the request body for partner registration
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email,max=200"`
	Password    string `json:"password" binding:"required,min=8,max=128"`
	CompanyName string `json:"company_name" binding:"required,min=1,max=200"`
	ContactName string `json:"contact_name" binding:"max=100"`
	Phone       string `json:"phone" binding:"max=50"`
}

// LoginRequest represents the request body for partner login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// RefreshTokenRequest represents the request body for token refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// =====================
// Auth Response DTOs
// =====================

// TokenResponse represents the token data in auth responses
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// PartnerResponse represents partner account data in auth responses
type PartnerResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	CompanyName string    `json:"company_name"`
	ContactName string    `json:"contact_name,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// AuthResponse represents the response body for successful register or login
type AuthResponse struct {
	Token   TokenResponse   `json:"token"`
	Partner PartnerResponse `json:"partner"`
}

// RefreshTokenResponse represents the response body for successful token refresh
type RefreshTokenResponse struct {
	Token TokenResponse `json:"token"`
}

// LogoutResponse represents the response body for logout
type LogoutResponse struct {
	Message string `json:"message"`
}

func toPartnerResponse(u identity.UserInfo) PartnerResponse {
	return PartnerResponse{
		ID:          u.ID,
		Email:       u.Email,
		CompanyName: u.CompanyName,
		ContactName: u.ContactName,
		Phone:       u.Phone,
		CreatedAt:   u.CreatedAt,
	}
}
