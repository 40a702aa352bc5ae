package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"client-recovery/internal/model"
	"client-recovery/internal/service"
	"client-recovery/pkg/apierror"
)

type TimelineHandler struct {
	service *service.TimelineService
}

func NewTimelineHandler(service *service.TimelineService) *TimelineHandler {
	return &TimelineHandler{service: service}
}

// Get reconstructs the full lifecycle of a client as an ordered event
// list. A client with no recorded history yields an empty list, not 404.
func (h *TimelineHandler) Get(w http.ResponseWriter, r *http.Request) {
	clientID := strings.TrimSpace(chi.URLParam(r, "client_id"))
	if clientID == "" {
		writeError(w, apierror.New("BAD_REQUEST", "client_id is required", "client_id", http.StatusBadRequest))
		return
	}

	events, err := h.service.BuildTimeline(r.Context(), clientID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.TimelineData{ClientID: clientID, Events: events}, nil)
}
