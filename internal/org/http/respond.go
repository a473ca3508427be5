package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/yohannes4321/MissionForNation/internal/org/domain"
	"github.com/yohannes4321/MissionForNation/internal/org/service"
	"github.com/yohannes4321/MissionForNation/pkg/httpx"
	"github.com/yohannes4321/MissionForNation/pkg/idx"
	"github.com/yohannes4321/MissionForNation/pkg/slogx"
)

// writeServiceError maps the service error taxonomy onto transport status.
// Cross-tenant probes arrive here already collapsed into ErrNotFound, so
// the transport never reveals whether a foreign resource exists.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, service.ErrAlreadyExists):
		httpx.WriteError(w, http.StatusConflict, "already_exists", err.Error())
	case errors.Is(err, service.ErrInsufficientRole):
		httpx.WriteError(w, http.StatusForbidden, "insufficient_role", err.Error())
	case errors.Is(err, service.ErrRegionMismatch):
		httpx.WriteError(w, http.StatusForbidden, "region_mismatch", err.Error())
	case errors.Is(err, service.ErrSelfRoleChange):
		httpx.WriteError(w, http.StatusConflict, "self_role_change", err.Error())
	case errors.Is(err, service.ErrSelfRemoval):
		httpx.WriteError(w, http.StatusConflict, "self_removal", err.Error())
	case errors.Is(err, service.ErrExpired):
		httpx.WriteError(w, http.StatusGone, "invitation_expired", err.Error())
	case errors.Is(err, service.ErrAlreadyResolved):
		httpx.WriteError(w, http.StatusConflict, "already_resolved", err.Error())
	case errors.Is(err, service.ErrNotPending):
		httpx.WriteError(w, http.StatusConflict, "not_pending", err.Error())
	case errors.Is(err, service.ErrEmailMismatch):
		httpx.WriteError(w, http.StatusForbidden, "email_mismatch", err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
	case errors.Is(err, service.ErrInvalidRegion),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrInvalidSlug),
		errors.Is(err, service.ErrInvalidContent),
		errors.Is(err, domain.ErrUnknownRole),
		errors.Is(err, domain.ErrUnknownContentType):
		httpx.WriteError(w, http.StatusUnprocessableEntity, "validation_failed", err.Error())
	case errors.Is(err, service.ErrNotificationFailed):
		httpx.WriteError(w, http.StatusBadGateway, "notification_failed", err.Error())
	default:
		slogx.FromContext(r.Context()).Error("unhandled service error", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// decode parses a JSON request body into dst, rejecting unknown fields.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeBadRequest(w http.ResponseWriter, desc string) {
	httpx.WriteError(w, http.StatusBadRequest, "bad_request", desc)
}

// actorID returns the authenticated caller's id. AuthnMiddleware guarantees
// it is present on protected routes.
func actorID(r *http.Request) idx.ID {
	return idx.ID(httpx.UserIDFromContext(r.Context()))
}

// pathID parses a ULID path segment; malformed ids read as not-found.
func pathID(w http.ResponseWriter, r *http.Request, name string) (idx.ID, bool) {
	id, err := idx.Parse(r.PathValue(name))
	if err != nil {
		httpx.WriteError(w, http.StatusNotFound, "not_found", "resource not found")
		return idx.Zero, false
	}
	return id, true
}
