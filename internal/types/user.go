package types

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is the full identity row. ParolaHash never leaves the process.
type User struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	ParolaHash  string    `json:"-"`
	NumeComplet string    `json:"nume_complet"`
	Telefon     *string   `json:"telefon,omitempty"`
	Rol         string    `json:"rol"`
	Activ       bool      `json:"activ"`
	CreatLa     time.Time `json:"creat_la"`
}

// UserPublic is the subset returned by register and login.
type UserPublic struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Rol         string `json:"rol"`
	NumeComplet string `json:"nume_complet"`
}

// UserProfile is the subset returned by the profile endpoint.
type UserProfile struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Rol         string    `json:"rol"`
	NumeComplet string    `json:"nume_complet"`
	Telefon     *string   `json:"telefon"`
	CreatLa     time.Time `json:"creat_la"`
}

func (u *User) Public() UserPublic {
	return UserPublic{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Rol:         u.Rol,
		NumeComplet: u.NumeComplet,
	}
}

// Claims is the session token payload. The gate trusts these for the token
// lifetime; role changes after issuance are not reflected until expiry.
type Claims struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	Rol      string `json:"rol"`
	jwt.RegisteredClaims
}
