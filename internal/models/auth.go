package models

import "github.com/golang-jwt/jwt/v5"

// RegisterRequest holds the payload for creating the first accounts.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"primer_nombre" validate:"required"`
	LastName  string `json:"primer_apellido" validate:"required"`
	Role      Role   `json:"rol" validate:"required"`
}

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and user info.
type LoginResponse struct {
	Message string   `json:"message"`
	Token   string   `json:"token"`
	User    UserInfo `json:"user"`
}

// UserInfo describes the authenticated user in responses, without credentials.
type UserInfo struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"primer_nombre"`
	LastName  string `json:"primer_apellido"`
	Role      Role   `json:"rol"`
}

// Info shapes a stored user into its public representation.
func (u *User) Info() UserInfo {
	return UserInfo{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
	}
}

// JWTClaims is the access-token payload. The id is re-verified against the
// usuarios table on every authenticated request.
type JWTClaims struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"rol"`
	jwt.RegisteredClaims
}
