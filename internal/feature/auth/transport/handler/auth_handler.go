// Package handler provides the HTTP handlers for the auth feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"learnhub_backend/internal/api"
	"learnhub_backend/internal/feature/auth/domain/entity"
	"learnhub_backend/internal/feature/auth/transport/http/dto"
	"learnhub_backend/internal/feature/auth/usecase"
	jwtmw "learnhub_backend/internal/platform/jwt"
)

// AuthUsecase defines the auth operations consumed by this handler.
// Following Go convention: the interface is defined by the consumer
// (handler), not the provider (usecase).
type AuthUsecase interface {
	Register(ctx context.Context, name, email, password string) (*entity.User, string, error)
	Login(ctx context.Context, email, password string) (*entity.User, string, error)
	UpdatePassword(ctx context.Context, user *entity.User, current, newPassword string) (string, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) (*entity.User, string, error)
}

// CookieConfig describes how the session cookie is issued.
type CookieConfig struct {
	// MaxAgeDays is the cookie (and token) lifetime in days.
	MaxAgeDays int
	// Secure restricts the cookie to HTTPS; enabled in production.
	Secure bool
}

// AuthHandler handles the authentication endpoints. It owns session cookie
// issuance; everything else is delegated to the usecase.
type AuthHandler struct {
	auth   AuthUsecase
	cookie CookieConfig
}

// NewAuthHandler creates a new instance of AuthHandler.
func NewAuthHandler(auth AuthUsecase, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{auth: auth, cookie: cookie}
}

// setSessionCookie attaches the signed session token as an HTTP-only cookie.
func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(jwtmw.SessionCookieName, token, h.cookie.MaxAgeDays*24*3600, "/", "", h.cookie.Secure, true)
}

// Register handles POST /auth/register.
// On success the session cookie is set and the created user returned; the
// password hash is never serialized.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("register validation failed", "error", err, "remote_addr", c.ClientIP())
		api.FailErr(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	user, token, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrEmailAlreadyExists) {
			api.Fail(c, http.StatusBadRequest, "email already in use")
			return
		}
		slog.Error("register failed", "error", err, "remote_addr", c.ClientIP())
		api.FailErr(c, http.StatusInternalServerError, "could not create account", err)
		return
	}

	slog.Info("user registered", "user_id", user.ID, "email", user.Email, "remote_addr", c.ClientIP())
	h.setSessionCookie(c, token)
	api.OK(c, http.StatusCreated, gin.H{"user": user})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		api.FailErr(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			slog.Warn("login failed", "email", req.Email, "remote_addr", c.ClientIP())
			api.Fail(c, http.StatusUnauthorized, "invalid email or password")
			return
		}
		slog.Error("login failed", "error", err, "remote_addr", c.ClientIP())
		api.FailErr(c, http.StatusInternalServerError, "could not log in", err)
		return
	}

	slog.Info("user login successful", "user_id", user.ID, "remote_addr", c.ClientIP())
	h.setSessionCookie(c, token)
	api.OK(c, http.StatusOK, gin.H{"user": user})
}

// Logout handles GET /auth/logout by overwriting the session cookie with an
// immediately expiring placeholder.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(jwtmw.SessionCookieName, "logged-out", -1, "/", "", h.cookie.Secure, true)
	api.OK(c, http.StatusOK, gin.H{"message": "logged out"})
}

// Me handles GET /auth/me, returning the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "you are not logged in")
		return
	}
	api.OK(c, http.StatusOK, gin.H{"user": user})
}

// UpdatePassword handles PATCH /auth/update-password. The fresh token keeps
// the session alive past the password change.
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "you are not logged in")
		return
	}

	var req dto.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.FailErr(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	token, err := h.auth.UpdatePassword(c.Request.Context(), user, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, usecase.ErrPasswordMismatch) {
			api.Fail(c, http.StatusUnauthorized, "current password is incorrect")
			return
		}
		slog.Error("password update failed", "error", err, "user_id", user.ID)
		api.FailErr(c, http.StatusInternalServerError, "could not update password", err)
		return
	}

	slog.Info("password updated", "user_id", user.ID)
	h.setSessionCookie(c, token)
	api.OK(c, http.StatusOK, gin.H{"user": user})
}

// ForgotPassword handles POST /auth/forgot-password.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.FailErr(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	if err := h.auth.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			api.Fail(c, http.StatusNotFound, "no account with that email address")
			return
		}
		slog.Error("forgot-password failed", "error", err, "email", req.Email)
		api.FailErr(c, http.StatusInternalServerError, "could not send reset email", err)
		return
	}

	api.OK(c, http.StatusOK, gin.H{"message": "reset token sent to email"})
}

// ResetPassword handles PATCH /auth/reset-password/:token. A successful
// reset logs the user in.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.FailErr(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	user, token, err := h.auth.ResetPassword(c.Request.Context(), c.Param("token"), req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrResetTokenInvalid) {
			api.Fail(c, http.StatusBadRequest, "reset token is invalid or has expired")
			return
		}
		slog.Error("password reset failed", "error", err)
		api.FailErr(c, http.StatusInternalServerError, "could not reset password", err)
		return
	}

	slog.Info("password reset", "user_id", user.ID)
	h.setSessionCookie(c, token)
	api.OK(c, http.StatusOK, gin.H{"user": user})
}
