package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"client-recovery/internal/model"
	"client-recovery/internal/service"
	"client-recovery/pkg/apierror"
)

type RestorationHandler struct {
	service *service.RestorationService
}

func NewRestorationHandler(service *service.RestorationService) *RestorationHandler {
	return &RestorationHandler{service: service}
}

// Status reports whether a client was recently restored. A missing or
// stale restoration comes back as was_restored=false with 200, never an
// error status.
func (h *RestorationHandler) Status(w http.ResponseWriter, r *http.Request) {
	clientID := strings.TrimSpace(chi.URLParam(r, "client_id"))
	if clientID == "" {
		writeError(w, apierror.New("BAD_REQUEST", "client_id is required", "client_id", http.StatusBadRequest))
		return
	}

	threshold := -1
	rawThreshold := strings.TrimSpace(r.URL.Query().Get("threshold"))
	if rawThreshold != "" {
		parsed, err := strconv.Atoi(rawThreshold)
		if err != nil || parsed < 0 {
			writeError(w, apierror.New("BAD_REQUEST", "threshold must be a non-negative integer", "threshold", http.StatusBadRequest))
			return
		}
		threshold = parsed
	}

	info := h.service.Lookup(r.Context(), clientID, threshold)
	writeSuccess(w, http.StatusOK, info, nil)
}

func (h *RestorationHandler) History(w http.ResponseWriter, r *http.Request) {
	query, err := historyQueryFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	records, err := h.service.History(r.Context(), query)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.RestorationListData{Items: records}, nil)
}

// Export streams the filtered restoration history as a CSV download.
func (h *RestorationHandler) Export(w http.ResponseWriter, r *http.Request) {
	query, err := historyQueryFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	records, err := h.service.History(r.Context(), query)
	if err != nil {
		writeError(w, err)
		return
	}

	payload, err := h.service.ExportCSV(records)
	if err != nil {
		writeError(w, err)
		return
	}

	filename := fmt.Sprintf("restoration-history-%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func historyQueryFromRequest(r *http.Request) (model.HistoryQuery, error) {
	query := model.HistoryQuery{Search: r.URL.Query().Get("search")}

	rawFrom := strings.TrimSpace(r.URL.Query().Get("from"))
	if rawFrom != "" {
		from, err := time.Parse("2006-01-02", rawFrom)
		if err != nil {
			return model.HistoryQuery{}, apierror.New("BAD_REQUEST", "from must be a YYYY-MM-DD date", "from", http.StatusBadRequest)
		}
		query.From = from
	}

	rawTo := strings.TrimSpace(r.URL.Query().Get("to"))
	if rawTo != "" {
		to, err := time.Parse("2006-01-02", rawTo)
		if err != nil {
			return model.HistoryQuery{}, apierror.New("BAD_REQUEST", "to must be a YYYY-MM-DD date", "to", http.StatusBadRequest)
		}
		// Make the upper bound inclusive of the whole day.
		query.To = to.Add(24*time.Hour - time.Nanosecond)
	}

	return query, nil
}
