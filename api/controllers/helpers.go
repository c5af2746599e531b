package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/artnebula/artnebula-backend/api/middleware"
	pkgerrors "github.com/artnebula/artnebula-backend/pkg/errors"
)

// currentUserID reads the authenticated user from the request context. The
// auth middleware guarantees presence on protected routes.
func currentUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return userID, nil
}
