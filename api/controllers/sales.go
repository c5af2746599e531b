package controllers

import (
	"net/http"
	"strings"

	"github.com/artnebula/artnebula-backend/api/responses"
	salessvc "github.com/artnebula/artnebula-backend/internal/sales"
	"github.com/artnebula/artnebula-backend/pkg/logger"
)

// SalesReport serves the admin dashboard's aggregated order view.
func SalesReport(svc salessvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := svc.ComputeReport(r.Context(), salessvc.ReportInput{
			Status:    strings.TrimSpace(r.URL.Query().Get("status")),
			DateRange: strings.TrimSpace(r.URL.Query().Get("date_range")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}
