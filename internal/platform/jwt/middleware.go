package jwtmw

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"learnhub_backend/internal/api"
	"learnhub_backend/internal/feature/auth/domain/entity"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "jwt"

// ContextUserKey is the gin context key the authenticated user is stored
// under.
const ContextUserKey = "currentUser"

// TokenParser verifies a session token and returns its claims.
// Following Go convention: the interface is defined by the consumer
// (middleware), not the provider (Manager).
type TokenParser interface {
	Parse(token string) (*Claims, error)
}

// UserResolver loads the user a token points at. The lookup deliberately
// includes inactive accounts so the gate can distinguish "deleted" from
// "deactivated" in its logs; both are rejected.
type UserResolver interface {
	FindByID(ctx context.Context, id uint, onlyActive bool) (*entity.User, error)
}

// AuthRequired returns a middleware that authenticates every request.
//
// Token lookup order is the session cookie, then an Authorization: Bearer
// header. The token must verify, resolve to an existing active user, and
// predate no password change. On success the user is attached to the
// request context; otherwise the chain is aborted with a 401.
func AuthRequired(parser TokenParser, users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			api.Abort(c, http.StatusUnauthorized, "you are not logged in")
			return
		}

		claims, err := parser.Parse(token)
		if err != nil {
			slog.Warn("token rejected", "error", err, "remote_addr", c.ClientIP())
			api.Abort(c, http.StatusUnauthorized, "invalid or expired session")
			return
		}

		user, err := users.FindByID(c.Request.Context(), claims.UserID, false)
		if err != nil {
			slog.Warn("token user no longer exists", "user_id", claims.UserID, "remote_addr", c.ClientIP())
			api.Abort(c, http.StatusUnauthorized, "the user belonging to this session no longer exists")
			return
		}
		if !user.Active {
			slog.Warn("token user is deactivated", "user_id", user.ID, "remote_addr", c.ClientIP())
			api.Abort(c, http.StatusUnauthorized, "this account has been deactivated")
			return
		}

		// A password change invalidates every token issued before it.
		if user.PasswordChangedAt != nil && claims.IssuedAt != nil &&
			claims.IssuedAt.Time.Before(*user.PasswordChangedAt) {
			slog.Warn("token predates password change", "user_id", user.ID, "remote_addr", c.ClientIP())
			api.Abort(c, http.StatusUnauthorized, "password was changed recently, please log in again")
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// RequireRoles returns a middleware rejecting authenticated users whose role
// is not in the given set. It must run after AuthRequired.
func RequireRoles(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			api.Abort(c, http.StatusUnauthorized, "you are not logged in")
			return
		}
		if !user.HasRole(roles...) {
			slog.Warn("role rejected", "user_id", user.ID, "role", user.Role, "path", c.FullPath())
			api.Abort(c, http.StatusForbidden, "you do not have permission to perform this action")
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user attached by AuthRequired.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*entity.User)
	return user, ok
}

// extractToken pulls the session token from the cookie, falling back to the
// Authorization header.
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie
	}
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
