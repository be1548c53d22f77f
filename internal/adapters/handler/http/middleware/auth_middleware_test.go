package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zron-max/momentum-gird/internal/adapters/handler/http/middleware"
	"github.com/zron-max/momentum-gird/internal/core/domain"
	"github.com/zron-max/momentum-gird/internal/core/services"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func (s *stubUserRepo) Create(ctx context.Context, u *domain.User) error {
	s.users[u.ID] = u
	return nil
}

func (s *stubUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func setupProtectedRoute(t *testing.T) (*gin.Engine, *services.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	user, err := domain.NewUser("user-123", "alice@example.com", "")
	require.NoError(t, err)

	repo := &stubUserRepo{users: map[string]*domain.User{user.ID: user}}
	tokenService := services.NewTokenService("test-secret", "momentum-gird", time.Hour, repo)

	r := gin.New()
	r.GET("/protected", middleware.AuthMiddleware(tokenService), func(c *gin.Context) {
		id, ok := middleware.GetUserID(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	})

	return r, tokenService
}

func TestAuthMiddleware(t *testing.T) {
	t.Run("Success: valid bearer token passes through", func(t *testing.T) {
		r, tokenService := setupProtectedRoute(t)

		token, err := tokenService.GenerateToken("user-123")
		require.NoError(t, err)

		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "user-123")
	})

	t.Run("Fail: 401 without a header", func(t *testing.T) {
		r, _ := setupProtectedRoute(t)

		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Fail: 401 with a malformed header", func(t *testing.T) {
		r, tokenService := setupProtectedRoute(t)

		token, err := tokenService.GenerateToken("user-123")
		require.NoError(t, err)

		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Fail: 401 with a forged token", func(t *testing.T) {
		r, _ := setupProtectedRoute(t)

		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
