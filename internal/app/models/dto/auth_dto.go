package dto

import "github.com/bizlink/alliance/internal/app/models"

// SignUpRequest represents the registration form
type SignUpRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=6,max=72"`
	Name         string `json:"name" binding:"required,max=100"`
	BusinessName string `json:"businessName" binding:"required,max=150"`
	Industry     string `json:"industry" binding:"omitempty,max=100"`
}

// SignInRequest represents login credentials
type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest represents refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// UpdateMetadataRequest patches the account metadata. Nil fields are left unchanged.
type UpdateMetadataRequest struct {
	Name         *string `json:"name" binding:"omitempty,max=100"`
	BusinessName *string `json:"businessName" binding:"omitempty,max=150"`
	Industry     *string `json:"industry" binding:"omitempty,max=100"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken           string `json:"accessToken"`
	TokenType             string `json:"tokenType" example:"Bearer"`
	ExpiresIn             int64  `json:"expiresIn"`
	RefreshToken          string `json:"refreshToken,omitempty"`
	RefreshTokenExpiresIn int64  `json:"refreshTokenExpiresIn,omitempty"`
}

// SessionResponse is the signed-in account with its profile
type SessionResponse struct {
	Account *models.Account `json:"account"`
	Profile *models.Profile `json:"profile"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token   TokenResponse   `json:"token"`
	Session SessionResponse `json:"session"`
}
