// Package dto defines the request payloads for the auth endpoints.
// Validation is declarative via gin binding tags; handlers reject anything
// that fails to bind with a 400.
package dto

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdatePasswordRequest is the payload for PATCH /auth/update-password.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// ForgotPasswordRequest is the payload for POST /auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest is the payload for PATCH /auth/reset-password/:token.
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=8"`
}
