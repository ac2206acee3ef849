package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/GinoPuma/gestion-escolar/internal/models"
	appErrors "github.com/GinoPuma/gestion-escolar/pkg/errors"
)

type mockUserRepo struct {
	users          []models.User
	user           *models.User
	findErr        error
	exists         bool
	existsChecked  bool
	createErr      error
	updateErr      error
	updated        *models.User
	deactivated    bool
	deactivateHits int64
}

func (m *mockUserRepo) List(ctx context.Context) ([]models.User, error) {
	return m.users, nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.user, nil
}

func (m *mockUserRepo) Exists(ctx context.Context, username, email string, excludeID int64) (bool, error) {
	m.existsChecked = true
	return m.exists, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = 3
	return nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	copied := *user
	m.updated = &copied
	return nil
}

func (m *mockUserRepo) Deactivate(ctx context.Context, id int64) (bool, error) {
	m.deactivateHits = id
	return m.deactivated, nil
}

func (m *mockUserRepo) Activate(ctx context.Context, id int64) (bool, error) {
	return m.deactivated, nil
}

func strPtr(s string) *string { return &s }

func TestUserServiceUpdatePartial(t *testing.T) {
	repo := &mockUserRepo{user: &models.User{ID: 2, Username: "sec", Email: "sec@example.com", FirstName: "Ana", LastName: "Quispe", Role: models.RoleSecretaria}}
	svc := NewUserService(repo, validator.New(), zap.NewNop())

	user, err := svc.Update(context.Background(), 2, models.UpdateUserRequest{FirstName: strPtr("María")})
	require.NoError(t, err)
	assert.Equal(t, "María", user.FirstName)
	assert.Equal(t, "sec", user.Username)
	assert.False(t, repo.existsChecked, "uniqueness should not be re-checked when identity is unchanged")
}

func TestUserServiceUpdateUsernameConflict(t *testing.T) {
	repo := &mockUserRepo{user: &models.User{ID: 2, Username: "sec", Email: "sec@example.com"}, exists: true}
	svc := NewUserService(repo, validator.New(), zap.NewNop())

	_, err := svc.Update(context.Background(), 2, models.UpdateUserRequest{Username: strPtr("admin")})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.True(t, repo.existsChecked)
}

func TestUserServiceCreateRaceOnUniqueIndex(t *testing.T) {
	repo := &mockUserRepo{createErr: uniqueViolation("usuarios_username_key")}
	svc := NewUserService(repo, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), models.CreateUserRequest{
		Username:  "admin",
		Email:     "admin@example.com",
		Password:  "secreto1",
		FirstName: "Gino",
		LastName:  "Puma",
		Role:      models.RoleAdministrador,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, "El nombre de usuario o email ya está en uso", appErr.Message)
}

func TestUserServiceUpdateRaceOnUniqueIndex(t *testing.T) {
	repo := &mockUserRepo{
		user:      &models.User{ID: 2, Username: "sec", Email: "sec@example.com"},
		updateErr: uniqueViolation("usuarios_email_key"),
	}
	svc := NewUserService(repo, validator.New(), zap.NewNop())

	_, err := svc.Update(context.Background(), 2, models.UpdateUserRequest{Email: strPtr("admin@example.com")})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, appErrors.FromError(err).Status)
}

func TestUserServiceUpdatePasswordMismatch(t *testing.T) {
	repo := &mockUserRepo{user: &models.User{ID: 2, Username: "sec", Email: "sec@example.com"}}
	svc := NewUserService(repo, validator.New(), zap.NewNop())

	_, err := svc.Update(context.Background(), 2, models.UpdateUserRequest{
		Password:        strPtr("nuevo123"),
		ConfirmPassword: strPtr("otro123"),
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Contains(t, appErr.Details, "Las contraseñas no coinciden")
}

func TestUserServiceUpdatePasswordConfirmed(t *testing.T) {
	repo := &mockUserRepo{user: &models.User{ID: 2, Username: "sec", Email: "sec@example.com"}}
	svc := NewUserService(repo, validator.New(), zap.NewNop())

	_, err := svc.Update(context.Background(), 2, models.UpdateUserRequest{
		Password:        strPtr("nuevo123"),
		ConfirmPassword: strPtr("nuevo123"),
	})
	require.NoError(t, err)
	require.NotNil(t, repo.updated)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.updated.PasswordHash), []byte("nuevo123")))
}

func TestUserServiceUpdateNotFound(t *testing.T) {
	repo := &mockUserRepo{findErr: sql.ErrNoRows}
	svc := NewUserService(repo, validator.New(), zap.NewNop())

	_, err := svc.Update(context.Background(), 99, models.UpdateUserRequest{FirstName: strPtr("X")})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}

func TestUserServiceDeactivateSelf(t *testing.T) {
	repo := &mockUserRepo{deactivated: true}
	svc := NewUserService(repo, validator.New(), zap.NewNop())

	err := svc.Deactivate(context.Background(), 5, 5)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusForbidden, appErr.Status)
	assert.Zero(t, repo.deactivateHits, "repository must not be touched")
}

func TestUserServiceDeactivateOther(t *testing.T) {
	repo := &mockUserRepo{deactivated: true}
	svc := NewUserService(repo, validator.New(), zap.NewNop())

	err := svc.Deactivate(context.Background(), 5, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(5), repo.deactivateHits)
}

func TestUserServiceDeactivateMissing(t *testing.T) {
	repo := &mockUserRepo{deactivated: false}
	svc := NewUserService(repo, validator.New(), zap.NewNop())

	err := svc.Deactivate(context.Background(), 5, 1)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}

func TestUserServiceCreateInvalidRole(t *testing.T) {
	svc := NewUserService(&mockUserRepo{}, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), models.CreateUserRequest{
		Username:  "user1",
		Email:     "user1@example.com",
		Password:  "secret1",
		FirstName: "Luis",
		LastName:  "Mamani",
		Role:      models.Role("Portero"),
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
}
