package controllers

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/gearghar/gearghar-backend/api/responses"
	"github.com/gearghar/gearghar-backend/api/validators"
	"github.com/gearghar/gearghar-backend/internal/users"
	pkgerrors "github.com/gearghar/gearghar-backend/pkg/errors"
	"github.com/gearghar/gearghar-backend/pkg/logger"
	"github.com/gearghar/gearghar-backend/pkg/pagination"
)

// AdminUserList pages through all registered users for the admin console.
func AdminUserList(repo *users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, next, err := repo.List(r.Context(), pagination.FromQuery(r.URL.Query()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users"))
			return
		}

		out := make([]users.UserDTO, 0, len(rows))
		for i := range rows {
			out = append(out, *users.FromModel(&rows[i]))
		}
		responses.WriteList(w, out, next)
	}
}

// AdminUserUpdate applies role, status, or name edits to a user.
func AdminUserUpdate(repo *users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := parseUUIDParam(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body users.UpdateUserRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if body.Role != nil && !body.Role.IsValid() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid role"))
			return
		}
		if body.Status != nil && !body.Status.IsValid() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid status"))
			return
		}

		// Admins cannot demote or deactivate themselves; that would lock the
		// console the moment the change lands.
		if self, selfErr := actorID(r); selfErr == nil && self == userID {
			if body.Role != nil || body.Status != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cannot change your own role or status"))
				return
			}
		}

		user, err := repo.Update(r.Context(), userID, body.ToDTO())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "user not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update user"))
			return
		}

		responses.WriteData(w, users.FromModel(user))
	}
}

// AdminUserDelete removes a user account.
func AdminUserDelete(repo *users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := parseUUIDParam(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if self, selfErr := actorID(r); selfErr == nil && self == userID {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cannot delete your own account"))
			return
		}

		if err := repo.Delete(r.Context(), userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "user not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user"))
			return
		}

		responses.WriteMessage(w, "user deleted")
	}
}
