package auth

import (
	"github.com/ecoloptim/ecoloptim-api/internal/types"
)

// RegisterRequest represents the register request body
type RegisterRequest struct {
	Username    string  `json:"username" validate:"required,min=3"`
	Email       string  `json:"email" validate:"required,email"`
	Parola      string  `json:"parola" validate:"required,min=6"`
	NumeComplet string  `json:"nume_complet" validate:"required"`
	Telefon     *string `json:"telefon,omitempty"`
	Rol         string  `json:"rol,omitempty" validate:"omitempty,oneof=admin user"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Parola   string `json:"parola" validate:"required"`
}

// AuthResponse is the success payload for both register and login.
type AuthResponse struct {
	User  types.UserPublic `json:"user"`
	Token string           `json:"token"`
}
