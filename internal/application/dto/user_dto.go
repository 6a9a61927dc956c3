package dto

import "time"

// SignupRequest body para POST /api/v1/auth/signup.
type SignupRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

// LoginRequest body para POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse representación HTTP de un usuario.
type UserResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id,omitempty"`
	Email          string    `json:"email"`
	FullName       string    `json:"full_name"`
	Role           string    `json:"role,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// LoginResponse token JWT más el usuario autenticado.
type LoginResponse struct {
	Token string       `json:"access_token"`
	User  UserResponse `json:"user"`
}
