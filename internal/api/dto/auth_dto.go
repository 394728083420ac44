package dto

import (
	"time"

	"github.com/Lynx-thelearner/BE-Wisata/internal/domain"
)

// LoginRequest accepts form or JSON credentials.
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// TokenResponse standard response for auth endpoints.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func NewTokenResponse(t domain.Token) TokenResponse {
	return TokenResponse{AccessToken: t.Value, TokenType: "bearer", ExpiresAt: t.ExpiresAt}
}
