package users

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gearghar/gearghar-backend/pkg/db/models"
	"github.com/gearghar/gearghar-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID          uuid.UUID        `json:"id"`
	Email       string           `json:"email"`
	Username    *string          `json:"username,omitempty"`
	FirstName   string           `json:"first_name"`
	LastName    string           `json:"last_name"`
	Name        string           `json:"name"`
	Role        enums.UserRole   `json:"role"`
	Status      enums.UserStatus `json:"status"`
	LastLoginAt *time.Time       `json:"last_login_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email        string
	Username     *string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         enums.UserRole
	Status       enums.UserStatus
}

// UpdateUserDTO carries optional admin edits. Nil fields are left untouched.
type UpdateUserDTO struct {
	FirstName *string
	LastName  *string
	Role      *enums.UserRole
	Status    *enums.UserStatus
}

// UpdateUserRequest is the admin console payload for editing a user.
type UpdateUserRequest struct {
	FirstName *string           `json:"first_name,omitempty"`
	LastName  *string           `json:"last_name,omitempty"`
	Role      *enums.UserRole   `json:"role,omitempty"`
	Status    *enums.UserStatus `json:"status,omitempty"`
}

func (r UpdateUserRequest) ToDTO() UpdateUserDTO {
	return UpdateUserDTO{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Role:      r.Role,
		Status:    r.Status,
	}
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Name:        u.FullName(),
		Role:        u.Role,
		Status:      u.Status,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if role == "" {
		role = enums.UserRoleUser
	}
	status := c.Status
	if status == "" {
		status = enums.UserStatusActive
	}

	var username *string
	if c.Username != nil {
		normalized := strings.ToLower(strings.TrimSpace(*c.Username))
		if normalized != "" {
			username = &normalized
		}
	}

	return &models.User{
		Email:        strings.ToLower(strings.TrimSpace(c.Email)),
		Username:     username,
		PasswordHash: c.PasswordHash,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		Role:         role,
		Status:       status,
	}
}

// SplitName breaks a display name into first/last parts on the first space.
// A single word becomes the first name with an empty last name.
func SplitName(name string) (string, string) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", ""
	}
	parts := strings.SplitN(trimmed, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.TrimSpace(parts[1])
}
