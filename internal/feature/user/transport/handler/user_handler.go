// Package handler provides the HTTP handlers for the user feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"learnhub_backend/internal/api"
	"learnhub_backend/internal/feature/auth/domain/entity"
	"learnhub_backend/internal/feature/user/usecase"
	jwtmw "learnhub_backend/internal/platform/jwt"
)

// UserUsecase defines the user operations consumed by this handler.
type UserUsecase interface {
	Profile(ctx context.Context, user *entity.User) (*entity.User, []entity.LoginActivity, error)
	UpdateProfile(ctx context.Context, user *entity.User, upd usecase.ProfileUpdate) (*entity.User, error)
	Deactivate(ctx context.Context, id uint) error
	List(ctx context.Context) ([]entity.User, error)
}

// UserHandler handles profile and admin-listing endpoints.
type UserHandler struct {
	users UserUsecase
	// uploadDir is where profile images are stored; they are served back
	// under /uploads.
	uploadDir string
}

// NewUserHandler creates a new instance of UserHandler.
func NewUserHandler(users UserUsecase, uploadDir string) *UserHandler {
	return &UserHandler{users: users, uploadDir: uploadDir}
}

// GetProfile handles GET /users/profile.
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "you are not logged in")
		return
	}

	profile, history, err := h.users.Profile(c.Request.Context(), user)
	if err != nil {
		slog.Error("profile load failed", "error", err, "user_id", user.ID)
		api.FailErr(c, http.StatusInternalServerError, "could not load profile", err)
		return
	}
	api.OK(c, http.StatusOK, gin.H{"user": profile, "loginActivity": history})
}

// UpdateProfile handles PATCH /users/profile. The request is multipart so a
// profile image can ride along with the text fields; every field is optional.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "you are not logged in")
		return
	}

	var upd usecase.ProfileUpdate
	form, err := c.MultipartForm()
	if err != nil {
		api.FailErr(c, http.StatusBadRequest, "invalid multipart form", err)
		return
	}
	fieldInto := func(name string, dst **string) {
		if values, ok := form.Value[name]; ok && len(values) > 0 {
			v := values[0]
			*dst = &v
		}
	}
	fieldInto("name", &upd.Name)
	fieldInto("bio", &upd.Bio)
	fieldInto("qualification", &upd.Qualification)
	fieldInto("learningType", &upd.LearningType)

	if file, err := c.FormFile("photo"); err == nil {
		// Random file name so uploads cannot collide or traverse paths.
		name := uuid.NewString() + filepath.Ext(file.Filename)
		if err := c.SaveUploadedFile(file, filepath.Join(h.uploadDir, name)); err != nil {
			slog.Error("photo upload failed", "error", err, "user_id", user.ID)
			api.FailErr(c, http.StatusInternalServerError, "could not store photo", err)
			return
		}
		url := "/uploads/" + name
		upd.PhotoURL = &url
	}

	updated, err := h.users.UpdateProfile(c.Request.Context(), user, upd)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidLearningType) {
			api.Fail(c, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("profile update failed", "error", err, "user_id", user.ID)
		api.FailErr(c, http.StatusInternalServerError, "could not update profile", err)
		return
	}
	api.OK(c, http.StatusOK, gin.H{"user": updated})
}

// DeleteProfile handles DELETE /users/profile: a soft delete, after which the
// session cookie is cleared.
func (h *UserHandler) DeleteProfile(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "you are not logged in")
		return
	}

	if err := h.users.Deactivate(c.Request.Context(), user.ID); err != nil {
		slog.Error("account deactivation failed", "error", err, "user_id", user.ID)
		api.FailErr(c, http.StatusInternalServerError, "could not delete account", err)
		return
	}

	slog.Info("account deactivated", "user_id", user.ID)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(jwtmw.SessionCookieName, "logged-out", -1, "/", "", false, true)
	api.OK(c, http.StatusOK, gin.H{"message": "account deleted"})
}

// List handles GET /users (admin only; enforced by middleware).
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		slog.Error("user listing failed", "error", err)
		api.FailErr(c, http.StatusInternalServerError, "could not list users", err)
		return
	}
	api.OK(c, http.StatusOK, gin.H{"users": users, "count": len(users)})
}
