package auth

import (
	"github.com/gearghar/gearghar-backend/internal/users"
)

// RegisterRequest captures the signup payload. Either a display name or the
// first/last pair is accepted; the pair wins when both are present. Username
// is optional, and the terms flag must be true whenever it is sent.
type RegisterRequest struct {
	Name            string `json:"name,omitempty"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
	Username        string `json:"username,omitempty" validate:"omitempty,min=3,max=30,username"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	AgreeToTerms    *bool  `json:"agree_to_terms,omitempty" validate:"omitempty,eq=true"`
}

// LoginRequest captures the user credentials sent to the login endpoints.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterResponse contains the token and user produced by a successful signup.
type RegisterResponse struct {
	Token string         `json:"token"`
	User  *users.UserDTO `json:"user"`
}

// LoginResponse contains the token and user produced by a successful login.
type LoginResponse struct {
	Token string         `json:"token"`
	User  *users.UserDTO `json:"user"`
}

// AdminLoginResponse mirrors LoginResponse while exposing the admin identity.
type AdminLoginResponse struct {
	Token string         `json:"token"`
	Admin *users.UserDTO `json:"admin"`
}
