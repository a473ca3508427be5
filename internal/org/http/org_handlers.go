package http

import (
	"net/http"

	"github.com/yohannes4321/MissionForNation/internal/org/service"
	"github.com/yohannes4321/MissionForNation/pkg/httpx"
)

type orgHandlers struct {
	orgs *service.OrganizationService
}

type createOrganizationRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (h *orgHandlers) create(w http.ResponseWriter, r *http.Request) {
	var req createOrganizationRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w, "malformed request body")
		return
	}

	org, membership, err := h.orgs.CreateOrganization(r.Context(), actorID(r), req.Name, req.Slug)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, struct {
		Organization organizationResponse `json:"organization"`
		Membership   membershipResponse   `json:"membership"`
	}{toOrganizationResponse(org), toMembershipResponse(membership)})
}

func (h *orgHandlers) list(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.orgs.ListOrganizations(r.Context(), actorID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]organizationResponse, 0, len(orgs))
	for _, o := range orgs {
		out = append(out, toOrganizationResponse(o))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *orgHandlers) get(w http.ResponseWriter, r *http.Request) {
	orgID, ok := pathID(w, r, "orgID")
	if !ok {
		return
	}
	org, err := h.orgs.GetOrganization(r.Context(), actorID(r), orgID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toOrganizationResponse(org))
}

type createRegionRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

func (h *orgHandlers) createRegion(w http.ResponseWriter, r *http.Request) {
	orgID, ok := pathID(w, r, "orgID")
	if !ok {
		return
	}
	var req createRegionRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w, "malformed request body")
		return
	}

	region, err := h.orgs.CreateRegion(r.Context(), actorID(r), orgID, req.Name, req.Code)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toRegionResponse(region))
}

func (h *orgHandlers) listRegions(w http.ResponseWriter, r *http.Request) {
	orgID, ok := pathID(w, r, "orgID")
	if !ok {
		return
	}
	regions, err := h.orgs.ListRegions(r.Context(), actorID(r), orgID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]regionResponse, 0, len(regions))
	for _, region := range regions {
		out = append(out, toRegionResponse(region))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
