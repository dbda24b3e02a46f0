// Package router assembles the HTTP route table.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"learnhub_backend/internal/api"
	"learnhub_backend/internal/feature/auth/domain/entity"
	authhandler "learnhub_backend/internal/feature/auth/transport/handler"
	userhandler "learnhub_backend/internal/feature/user/transport/handler"
	jwtmw "learnhub_backend/internal/platform/jwt"
)

// NewRouter wires the handlers and gates into a gin engine.
func NewRouter(authH *authhandler.AuthHandler, userH *userhandler.UserHandler,
	parser jwtmw.TokenParser, users jwtmw.UserResolver, uploadDir string) *gin.Engine {
	r := gin.Default()

	// Liveness probe.
	r.GET("/healthz", func(c *gin.Context) {
		api.OK(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Uploaded profile images.
	r.Static("/uploads", uploadDir)

	// Public auth routes.
	r.POST("/auth/register", authH.Register)
	r.POST("/auth/login", authH.Login)
	r.GET("/auth/logout", authH.Logout)
	r.POST("/auth/forgot-password", authH.ForgotPassword)
	r.PATCH("/auth/reset-password/:token", authH.ResetPassword)

	// Everything below requires a live session.
	authed := r.Group("/")
	authed.Use(jwtmw.AuthRequired(parser, users))
	{
		authed.GET("/auth/me", authH.Me)
		authed.PATCH("/auth/update-password", authH.UpdatePassword)

		authed.GET("/users/profile", userH.GetProfile)
		authed.PATCH("/users/profile", userH.UpdateProfile)
		authed.DELETE("/users/profile", userH.DeleteProfile)

		// Admin-only listing.
		authed.GET("/users", jwtmw.RequireRoles(entity.RoleAdmin), userH.List)
	}

	return r
}
