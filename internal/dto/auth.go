package dto

import "time"

// LoginRequest carries staff credentials: the member number and the PIN.
type LoginRequest struct {
	Number string `json:"number" binding:"required"`
	PIN    string `json:"pin" binding:"required"`
}

// LoginResponse returns the issued access token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
