package handler

import (
	"net/http"

	"client-recovery/internal/model"
	"client-recovery/internal/service"
)

type RegistryHandler struct {
	service *service.RegistryService
}

func NewRegistryHandler(service *service.RegistryService) *RegistryHandler {
	return &RegistryHandler{service: service}
}

// ListDeleted returns every soft-deleted account, newest deletion first,
// optionally narrowed by a case-insensitive company-name search.
func (h *RegistryHandler) ListDeleted(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.ListDeleted(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.DeletedAccountListData{Items: accounts}, nil)
}
