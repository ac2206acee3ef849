package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/GinoPuma/gestion-escolar/internal/models"
	"github.com/GinoPuma/gestion-escolar/internal/service"
)

type stubUserRepo struct {
	user *models.User
}

func (s *stubUserRepo) FindActiveByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.user, nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return s.user, nil
}

func (s *stubUserRepo) Exists(ctx context.Context, username, email string, excludeID int64) (bool, error) {
	return false, nil
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	return nil
}

func newProtectedRouter(t *testing.T, user *models.User) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	user.PasswordHash = string(hash)

	authSvc := service.NewAuthService(&stubUserRepo{user: user}, nil, nil, service.AuthConfig{
		Secret: "test-secret",
		Expiry: time.Hour,
		Issuer: "gestion-escolar",
	})
	resp, err := authSvc.Login(context.Background(), models.LoginRequest{Username: user.Username, Password: "secret123"})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", Protect(authSvc), func(c *gin.Context) {
		current, ok := CurrentUser(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"username": current.Username})
	})
	return r, resp.Token
}

func TestProtectMissingHeader(t *testing.T) {
	r, _ := newProtectedRouter(t, &models.User{ID: 1, Username: "admin", Role: models.RoleAdministrador, Active: true})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "no se proporcionó token")
}

func TestProtectMalformedHeader(t *testing.T) {
	r, token := newProtectedRouter(t, &models.User{ID: 1, Username: "admin", Role: models.RoleAdministrador, Active: true})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Formato de autorización inválido")
}

func TestProtectValidToken(t *testing.T) {
	r, token := newProtectedRouter(t, &models.User{ID: 1, Username: "admin", Role: models.RoleAdministrador, Active: true})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "admin")
}

func TestProtectTamperedToken(t *testing.T) {
	r, token := newProtectedRouter(t, &models.User{ID: 1, Username: "admin", Role: models.RoleAdministrador, Active: true})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token+"x")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
