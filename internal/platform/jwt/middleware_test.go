package jwtmw

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnhub_backend/internal/feature/auth/domain/entity"
	"learnhub_backend/internal/feature/auth/usecase"
)

// mockUserResolver is a mock implementation of the UserResolver interface.
type mockUserResolver struct {
	FindByIDFunc func(ctx context.Context, id uint, onlyActive bool) (*entity.User, error)
}

func (m *mockUserResolver) FindByID(ctx context.Context, id uint, onlyActive bool) (*entity.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id, onlyActive)
	}
	return nil, usecase.ErrUserNotFound
}

func newGateRouter(parser TokenParser, users UserResolver, roles ...entity.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := []gin.HandlerFunc{AuthRequired(parser, users)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRoles(roles...))
	}
	r.GET("/protected", append(handlers, func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"id": user.ID})
	})...)
	return r
}

func TestAuthRequired(t *testing.T) {
	manager := NewManager("test-secret", time.Hour)
	activeUser := &entity.User{ID: 42, Role: entity.RoleUser, Active: true}
	resolve := func(u *entity.User) *mockUserResolver {
		return &mockUserResolver{
			FindByIDFunc: func(ctx context.Context, id uint, onlyActive bool) (*entity.User, error) {
				if u != nil && id == u.ID {
					return u, nil
				}
				return nil, usecase.ErrUserNotFound
			},
		}
	}

	token, err := manager.Generate(42, entity.RoleUser)
	require.NoError(t, err)

	t.Run("no token", func(t *testing.T) {
		r := newGateRouter(manager, resolve(activeUser))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token in cookie", func(t *testing.T) {
		r := newGateRouter(manager, resolve(activeUser))
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"id":42`)
	})

	t.Run("token in bearer header", func(t *testing.T) {
		r := newGateRouter(manager, resolve(activeUser))
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("tampered token", func(t *testing.T) {
		r := newGateRouter(manager, resolve(activeUser))
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token+"x")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("user no longer exists", func(t *testing.T) {
		r := newGateRouter(manager, resolve(nil))
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("deactivated user", func(t *testing.T) {
		inactive := &entity.User{ID: 42, Role: entity.RoleUser, Active: false}
		r := newGateRouter(manager, resolve(inactive))
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token issued before a password change is rejected", func(t *testing.T) {
		changed := time.Now().Add(time.Minute)
		stale := &entity.User{ID: 42, Role: entity.RoleUser, Active: true, PasswordChangedAt: &changed}
		r := newGateRouter(manager, resolve(stale))
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token issued after a password change passes", func(t *testing.T) {
		changed := time.Now().Add(-time.Hour)
		fresh := &entity.User{ID: 42, Role: entity.RoleUser, Active: true, PasswordChangedAt: &changed}
		r := newGateRouter(manager, resolve(fresh))
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequireRoles(t *testing.T) {
	manager := NewManager("test-secret", time.Hour)

	tests := []struct {
		name       string
		role       entity.Role
		wantStatus int
	}{
		{"admin passes the admin gate", entity.RoleAdmin, http.StatusOK},
		{"plain user is forbidden", entity.RoleUser, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &entity.User{ID: 1, Role: tt.role, Active: true}
			resolver := &mockUserResolver{
				FindByIDFunc: func(ctx context.Context, id uint, onlyActive bool) (*entity.User, error) {
					return user, nil
				},
			}
			r := newGateRouter(manager, resolver, entity.RoleAdmin)

			token, err := manager.Generate(1, tt.role)
			require.NoError(t, err)
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
