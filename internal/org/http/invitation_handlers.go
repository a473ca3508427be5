package http

import (
	"errors"
	"net/http"

	"github.com/yohannes4321/MissionForNation/internal/org/domain"
	"github.com/yohannes4321/MissionForNation/internal/org/service"
	"github.com/yohannes4321/MissionForNation/pkg/httpx"
	"github.com/yohannes4321/MissionForNation/pkg/idx"
)

type invitationHandlers struct {
	invitations *service.InvitationService
}

type createInvitationRequest struct {
	Email    string `json:"email"`
	Role     string `json:"role"`
	RegionID string `json:"region_id,omitempty"`
}

func (h *invitationHandlers) create(w http.ResponseWriter, r *http.Request) {
	orgID, ok := pathID(w, r, "orgID")
	if !ok {
		return
	}
	var req createInvitationRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w, "malformed request body")
		return
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	regionID := idx.Zero
	if req.RegionID != "" {
		if regionID, err = idx.Parse(req.RegionID); err != nil {
			writeBadRequest(w, "malformed region_id")
			return
		}
	}

	inv, err := h.invitations.Create(r.Context(), actorID(r), orgID, req.Email, role, regionID)
	if err != nil && !errors.Is(err, service.ErrNotificationFailed) {
		writeServiceError(w, r, err)
		return
	}
	// A failed send still created the invitation; report both.
	if err != nil {
		httpx.WriteJSON(w, http.StatusCreated, struct {
			Invitation invitationResponse `json:"invitation"`
			Warning    string             `json:"warning"`
		}{toInvitationResponse(inv), "invitation email could not be delivered, use resend"})
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toInvitationResponse(inv))
}

func (h *invitationHandlers) list(w http.ResponseWriter, r *http.Request) {
	orgID, ok := pathID(w, r, "orgID")
	if !ok {
		return
	}
	invs, err := h.invitations.List(r.Context(), actorID(r), orgID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toInvitationResponses(invs))
}

func (h *invitationHandlers) get(w http.ResponseWriter, r *http.Request) {
	invitationID, ok := pathID(w, r, "invitationID")
	if !ok {
		return
	}
	inv, err := h.invitations.Get(r.Context(), actorID(r), invitationID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toInvitationResponse(inv))
}

type acceptInvitationRequest struct {
	Token string `json:"token"`
}

func (h *invitationHandlers) accept(w http.ResponseWriter, r *http.Request) {
	invitationID, ok := pathID(w, r, "invitationID")
	if !ok {
		return
	}
	var req acceptInvitationRequest
	if err := decode(r, &req); err != nil || req.Token == "" {
		writeBadRequest(w, "token is required")
		return
	}

	m, err := h.invitations.Accept(r.Context(), actorID(r), invitationID, req.Token)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toMembershipResponse(m))
}

func (h *invitationHandlers) revoke(w http.ResponseWriter, r *http.Request) {
	invitationID, ok := pathID(w, r, "invitationID")
	if !ok {
		return
	}
	inv, err := h.invitations.Revoke(r.Context(), actorID(r), invitationID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toInvitationResponse(inv))
}

func (h *invitationHandlers) resend(w http.ResponseWriter, r *http.Request) {
	invitationID, ok := pathID(w, r, "invitationID")
	if !ok {
		return
	}
	inv, err := h.invitations.Resend(r.Context(), actorID(r), invitationID)
	if err != nil && !errors.Is(err, service.ErrNotificationFailed) {
		writeServiceError(w, r, err)
		return
	}
	if err != nil {
		// Re-armed but undelivered; retrying the resend is safe.
		httpx.WriteJSON(w, http.StatusOK, struct {
			Invitation invitationResponse `json:"invitation"`
			Warning    string             `json:"warning"`
		}{toInvitationResponse(inv), "invitation email could not be delivered, retry resend"})
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toInvitationResponse(inv))
}
