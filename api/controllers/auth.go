package controllers

import (
	"net/http"

	"github.com/tavolopos/tavolo-backend/api/responses"
	"github.com/tavolopos/tavolo-backend/api/validators"
	staffsvc "github.com/tavolopos/tavolo-backend/internal/staff"
	pkgerrors "github.com/tavolopos/tavolo-backend/pkg/errors"
	"github.com/tavolopos/tavolo-backend/pkg/logger"
)

type loginRequest struct {
	Email string `json:"email" validate:"required,email"`
	PIN   string `json:"pin" validate:"required"`
}

// AuthLogin exchanges an email and PIN for an access token.
func AuthLogin(svc staffsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "staff service unavailable"))
			return
		}

		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), payload.Email, payload.PIN)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
