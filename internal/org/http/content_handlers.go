package http

import (
	"net/http"

	"github.com/yohannes4321/MissionForNation/internal/org/domain"
	"github.com/yohannes4321/MissionForNation/internal/org/service"
	"github.com/yohannes4321/MissionForNation/pkg/httpx"
)

type contentHandlers struct {
	content *service.ContentService
}

type contentRequest struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Body  string `json:"body,omitempty"`
	URL   string `json:"url,omitempty"`
}

func (req contentRequest) input() service.ContentInput {
	return service.ContentInput{
		Type:  domain.ContentType(req.Type),
		Title: req.Title,
		Body:  req.Body,
		URL:   req.URL,
	}
}

func (h *contentHandlers) create(w http.ResponseWriter, r *http.Request) {
	regionID, ok := pathID(w, r, "regionID")
	if !ok {
		return
	}
	var req contentRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w, "malformed request body")
		return
	}

	c, err := h.content.CreateContent(r.Context(), actorID(r), regionID, req.input())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toContentResponse(c))
}

func (h *contentHandlers) list(w http.ResponseWriter, r *http.Request) {
	regionID, ok := pathID(w, r, "regionID")
	if !ok {
		return
	}
	cs, err := h.content.ListContent(r.Context(), actorID(r), regionID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]contentResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, toContentResponse(c))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *contentHandlers) get(w http.ResponseWriter, r *http.Request) {
	contentID, ok := pathID(w, r, "contentID")
	if !ok {
		return
	}
	c, err := h.content.GetContent(r.Context(), actorID(r), contentID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toContentResponse(c))
}

func (h *contentHandlers) update(w http.ResponseWriter, r *http.Request) {
	contentID, ok := pathID(w, r, "contentID")
	if !ok {
		return
	}
	var req contentRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w, "malformed request body")
		return
	}

	c, err := h.content.UpdateContent(r.Context(), actorID(r), contentID, req.input())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toContentResponse(c))
}

func (h *contentHandlers) remove(w http.ResponseWriter, r *http.Request) {
	contentID, ok := pathID(w, r, "contentID")
	if !ok {
		return
	}
	if err := h.content.DeleteContent(r.Context(), actorID(r), contentID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
