package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/GinoPuma/gestion-escolar/internal/models"
	"github.com/GinoPuma/gestion-escolar/internal/repository"
	appErrors "github.com/GinoPuma/gestion-escolar/pkg/errors"
)

type userRepository interface {
	List(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	Exists(ctx context.Context, username, email string, excludeID int64) (bool, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Deactivate(ctx context.Context, id int64) (bool, error)
	Activate(ctx context.Context, id int64) (bool, error)
}

// UserService manages staff accounts. All operations are admin-only at the
// routing layer.
type UserService struct {
	repo      userRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs a UserService instance.
func NewUserService(repo userRepository, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{repo: repo, validator: validate, logger: logger}
}

// List returns every account, active or not.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al listar usuarios")
	}
	return users, nil
}

// Get returns an account by identifier.
func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Usuario no encontrado")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al obtener usuario")
	}
	return user, nil
}

// Create registers a new account.
func (s *UserService) Create(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(validationDetails(err)...)
	}
	if !models.ValidRole(req.Role) {
		return nil, appErrors.Validation(fmt.Sprintf("Rol inválido: %s", req.Role))
	}

	taken, err := s.repo.Exists(ctx, req.Username, req.Email, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al crear usuario")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "El nombre de usuario o email ya está en uso")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al crear usuario")
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		Active:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err, "") {
			return nil, appErrors.Clone(appErrors.ErrConflict, "El nombre de usuario o email ya está en uso")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al crear usuario")
	}

	s.logger.Info("user created", zap.Int64("user_id", user.ID))
	return user, nil
}

// Update applies a partial update. Uniqueness is re-checked only when the
// username or email actually changes.
func (s *UserService) Update(ctx context.Context, id int64, req models.UpdateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(validationDetails(err)...)
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Usuario no encontrado")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al actualizar usuario")
	}

	identityChanged := false
	if req.Username != nil && *req.Username != user.Username {
		user.Username = *req.Username
		identityChanged = true
	}
	if req.Email != nil && *req.Email != user.Email {
		user.Email = *req.Email
		identityChanged = true
	}
	if identityChanged {
		taken, err := s.repo.Exists(ctx, user.Username, user.Email, user.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al actualizar usuario")
		}
		if taken {
			return nil, appErrors.Clone(appErrors.ErrConflict, "El nombre de usuario o email ya está en uso")
		}
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Role != nil {
		if !models.ValidRole(*req.Role) {
			return nil, appErrors.Validation(fmt.Sprintf("Rol inválido: %s", *req.Role))
		}
		user.Role = *req.Role
	}

	user.PasswordHash = ""
	if req.Password != nil {
		if req.ConfirmPassword == nil || *req.ConfirmPassword != *req.Password {
			return nil, appErrors.Validation("Las contraseñas no coinciden")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al actualizar usuario")
		}
		user.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if repository.IsUniqueViolation(err, "") {
			return nil, appErrors.Clone(appErrors.ErrConflict, "El nombre de usuario o email ya está en uso")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al actualizar usuario")
	}

	s.logger.Info("user updated", zap.Int64("user_id", user.ID))
	user.PasswordHash = ""
	return user, nil
}

// Deactivate disables an account. An administrator cannot deactivate their
// own account.
func (s *UserService) Deactivate(ctx context.Context, id, actorID int64) error {
	if id == actorID {
		return appErrors.Clone(appErrors.ErrForbidden, "No puedes desactivar tu propia cuenta")
	}

	ok, err := s.repo.Deactivate(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al desactivar usuario")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "Usuario no encontrado o ya desactivado")
	}

	s.logger.Info("user deactivated", zap.Int64("user_id", id))
	return nil
}

// Activate re-enables an account.
func (s *UserService) Activate(ctx context.Context, id int64) error {
	ok, err := s.repo.Activate(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al activar usuario")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "Usuario no encontrado o ya activo")
	}

	s.logger.Info("user activated", zap.Int64("user_id", id))
	return nil
}
