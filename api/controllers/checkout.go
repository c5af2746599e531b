package controllers

import (
	"net/http"

	"github.com/artnebula/artnebula-backend/api/responses"
	"github.com/artnebula/artnebula-backend/api/validators"
	checkoutsvc "github.com/artnebula/artnebula-backend/internal/checkout"
	"github.com/artnebula/artnebula-backend/pkg/logger"
)

// PlaceOrder turns the selected cart lines into a pending order.
func PlaceOrder(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutsvc.ShippingDetails
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		confirmation, err := svc.PlaceOrder(r.Context(), userID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, confirmation)
	}
}
