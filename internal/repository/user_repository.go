package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/GinoPuma/gestion-escolar/internal/models"
)

const userColumns = `id, username, email, password, primer_nombre, primer_apellido, rol, activo, fecha_creacion, fecha_actualizacion`

// UserRepository provides database access for staff accounts.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// List returns every user ordered by creation date.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM usuarios ORDER BY fecha_creacion DESC", userColumns)
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// FindByID returns a user by identifier regardless of its active flag.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM usuarios WHERE id = $1 LIMIT 1", userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// FindActiveByUsername returns an active user by username. Login resolves
// through this lookup so deactivated accounts fail as unknown users.
func (r *UserRepository) FindActiveByUsername(ctx context.Context, username string) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM usuarios WHERE username = $1 AND activo = TRUE LIMIT 1", userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return &user, nil
}

// Exists checks whether username or email is already taken, optionally
// excluding the record being edited.
func (r *UserRepository) Exists(ctx context.Context, username, email string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM usuarios WHERE (username = $1 OR email = $2)"
	args := []interface{}{username, email}
	if excludeID > 0 {
		query += " AND id <> $3"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return true, nil
}

// Create inserts a new user and fills its generated id.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	const query = `INSERT INTO usuarios (username, email, password, primer_nombre, primer_apellido, rol, activo, fecha_creacion, fecha_actualizacion)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.FirstName, user.LastName,
		user.Role, user.Active, user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Update modifies mutable fields. An empty password hash leaves the stored
// credential untouched.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	if user.PasswordHash != "" {
		const query = `UPDATE usuarios SET username = $2, email = $3, password = $4, primer_nombre = $5, primer_apellido = $6, rol = $7, activo = $8, fecha_actualizacion = $9 WHERE id = $1`
		if _, err := r.db.ExecContext(ctx, query,
			user.ID, user.Username, user.Email, user.PasswordHash, user.FirstName,
			user.LastName, user.Role, user.Active, user.UpdatedAt,
		); err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		return nil
	}
	const query = `UPDATE usuarios SET username = $2, email = $3, primer_nombre = $4, primer_apellido = $5, rol = $6, activo = $7, fecha_actualizacion = $8 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.FirstName, user.LastName,
		user.Role, user.Active, user.UpdatedAt,
	); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// Deactivate clears the active flag. It reports false when the user was
// missing or already inactive.
func (r *UserRepository) Deactivate(ctx context.Context, id int64) (bool, error) {
	const query = `UPDATE usuarios SET activo = FALSE, fecha_actualizacion = $2 WHERE id = $1 AND activo = TRUE`
	res, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("deactivate user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deactivate user: %w", err)
	}
	return affected > 0, nil
}

// Activate sets the active flag. It reports false when the user was missing
// or already active.
func (r *UserRepository) Activate(ctx context.Context, id int64) (bool, error) {
	const query = `UPDATE usuarios SET activo = TRUE, fecha_actualizacion = $2 WHERE id = $1 AND activo = FALSE`
	res, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("activate user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("activate user: %w", err)
	}
	return affected > 0, nil
}
