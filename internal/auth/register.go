package auth

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/gearghar/gearghar-backend/internal/users"
	"github.com/gearghar/gearghar-backend/pkg/db"
	"github.com/gearghar/gearghar-backend/pkg/enums"
	pkgerrors "github.com/gearghar/gearghar-backend/pkg/errors"
	"github.com/gearghar/gearghar-backend/pkg/security"
)

const minPasswordLength = 8

func (s *service) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	firstName, lastName, err := resolveName(req)
	if err != nil {
		return nil, err
	}

	if req.Password != req.ConfirmPassword {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "passwords do not match")
	}
	if err := validatePasswordStrength(req.Password); err != nil {
		return nil, err
	}

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "user with this email already exists")
	}

	var username *string
	if trimmed := strings.ToLower(strings.TrimSpace(req.Username)); trimmed != "" {
		taken, err := s.users.UsernameExists(ctx, trimmed)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check username")
		}
		if taken {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
		}
		username = &trimmed
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
		Role:         enums.UserRoleUser,
		Status:       enums.UserStatusActive,
	})
	if err != nil {
		// The unique index is authoritative; a concurrent signup that slips
		// past the pre-check lands here.
		if db.IsUniqueViolation(err, "") {
			if strings.Contains(err.Error(), "username") {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
			}
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "user with this email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	token, err := s.mintToken(user, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	return &RegisterResponse{
		Token: token,
		User:  users.FromModel(user),
	}, nil
}

// resolveName accepts either the first/last pair or a single display name,
// which gets split on its first space.
func resolveName(req RegisterRequest) (string, string, error) {
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if firstName != "" {
		return firstName, lastName, nil
	}

	firstName, lastName = users.SplitName(req.Name)
	if firstName == "" {
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	return firstName, lastName, nil
}

func validatePasswordStrength(password string) error {
	if len(password) < minPasswordLength {
		return pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return pkgerrors.New(pkgerrors.CodeValidation, "password must contain an uppercase letter, a lowercase letter, and a number")
	}
	return nil
}
