package controllers

import (
	"net/http"

	"github.com/gearghar/gearghar-backend/api/responses"
	"github.com/gearghar/gearghar-backend/internal/dashboard"
	pkgerrors "github.com/gearghar/gearghar-backend/pkg/errors"
	"github.com/gearghar/gearghar-backend/pkg/logger"
)

// AdminDashboard serves the headline metrics for the admin console.
func AdminDashboard(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Summary(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteData(w, summary)
	}
}
