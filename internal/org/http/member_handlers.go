package http

import (
	"net/http"

	"github.com/yohannes4321/MissionForNation/internal/org/domain"
	"github.com/yohannes4321/MissionForNation/internal/org/service"
	"github.com/yohannes4321/MissionForNation/pkg/httpx"
	"github.com/yohannes4321/MissionForNation/pkg/idx"
)

type memberHandlers struct {
	members *service.MemberService
}

func (h *memberHandlers) list(w http.ResponseWriter, r *http.Request) {
	orgID, ok := pathID(w, r, "orgID")
	if !ok {
		return
	}
	ms, err := h.members.ListMembers(r.Context(), actorID(r), orgID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toMembershipResponses(ms))
}

type changeRoleRequest struct {
	Role     string `json:"role"`
	RegionID string `json:"region_id,omitempty"`
}

func (h *memberHandlers) changeRole(w http.ResponseWriter, r *http.Request) {
	membershipID, ok := pathID(w, r, "membershipID")
	if !ok {
		return
	}
	var req changeRoleRequest
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

	m, err := h.members.ChangeRole(r.Context(), actorID(r), membershipID, role, regionID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toMembershipResponse(m))
}

func (h *memberHandlers) remove(w http.ResponseWriter, r *http.Request) {
	membershipID, ok := pathID(w, r, "membershipID")
	if !ok {
		return
	}
	if err := h.members.RemoveMember(r.Context(), actorID(r), membershipID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
