package dto

import "time"

// LoginRequest is the email/password login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GoogleLoginRequest carries a Google-issued ID token from the client.
type GoogleLoginRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

// GoogleExchangeRequest carries an OAuth authorization code for the
// server-side exchange flow.
type GoogleExchangeRequest struct {
	Code string `json:"code" binding:"required"`
}

// AuthResponse returns the issued access token; the refresh token travels in an
// HTTP-only cookie.
type AuthResponse struct {
	UserID      string    `json:"userID"`
	Name        string    `json:"name"`
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}
