package controllers

import (
	"net/http"

	"github.com/My-selling-apps/PhoneBechPakistan/api/responses"
	"github.com/My-selling-apps/PhoneBechPakistan/api/validators"
	"github.com/My-selling-apps/PhoneBechPakistan/internal/contact"
	pkgerrors "github.com/My-selling-apps/PhoneBechPakistan/pkg/errors"
	"github.com/My-selling-apps/PhoneBechPakistan/pkg/logger"
)

// ContactSubmit stores a public contact form message.
func ContactSubmit(svc contact.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contact service unavailable"))
			return
		}

		var payload contact.Input
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Submit(ctx, payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]bool{"received": true})
	}
}
