package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"client-recovery/internal/model"
	"client-recovery/internal/service"
	"client-recovery/pkg/apierror"
)

type RecoveryHandler struct {
	service *service.RecoveryService
}

func NewRecoveryHandler(service *service.RecoveryService) *RecoveryHandler {
	return &RecoveryHandler{service: service}
}

func (h *RecoveryHandler) Restore(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	clientID := strings.TrimSpace(chi.URLParam(r, "client_id"))
	if clientID == "" {
		writeError(w, apierror.New("BAD_REQUEST", "client_id is required", "client_id", http.StatusBadRequest))
		return
	}

	var payload model.RestoreRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	result, err := h.service.Restore(r.Context(), clientID, actorFromRequest(r), payload.Reason)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result, nil)
}

func (h *RecoveryHandler) Purge(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	clientID := strings.TrimSpace(chi.URLParam(r, "client_id"))
	if clientID == "" {
		writeError(w, apierror.New("BAD_REQUEST", "client_id is required", "client_id", http.StatusBadRequest))
		return
	}

	var payload model.PurgeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	result, err := h.service.Purge(r.Context(), clientID, actorFromRequest(r), payload.Reason, payload.Confirmation)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result, nil)
}
