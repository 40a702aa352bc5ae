package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"client-recovery/internal/model"
	"client-recovery/internal/service"
)

type stubDeletedLister struct {
	accounts []model.DeletedAccount
	err      error
}

func (s *stubDeletedLister) ListDeleted(_ context.Context) ([]model.DeletedAccount, error) {
	return s.accounts, s.err
}

func TestRegistryHandler_ListDeleted(t *testing.T) {
	now := time.Now().UTC()

	t.Run("returns the derived registry in the standard envelope", func(t *testing.T) {
		lister := &stubDeletedLister{accounts: []model.DeletedAccount{
			{ClientID: "c1", CompanyName: "Acme Corp", DeletedAt: now, PurgeAt: now.Add(90 * 24 * time.Hour)},
			{ClientID: "c2", CompanyName: "Globex", DeletedAt: now, PurgeAt: now.Add(5 * 24 * time.Hour)},
		}}
		h := NewRegistryHandler(service.NewRegistryService(lister))

		router := chi.NewRouter()
		router.Get("/api/v1/deleted-accounts", h.ListDeleted)

		req := httptest.NewRequest("GET", "/api/v1/deleted-accounts", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Success bool                         `json:"success"`
			Data    model.DeletedAccountListData `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Success)
		require.Len(t, body.Data.Items, 2)
		assert.Equal(t, model.UrgencyLow, body.Data.Items[0].Urgency)
		assert.Equal(t, model.UrgencyHigh, body.Data.Items[1].Urgency)
	})

	t.Run("search query narrows the listing", func(t *testing.T) {
		lister := &stubDeletedLister{accounts: []model.DeletedAccount{
			{ClientID: "c1", CompanyName: "Acme Corp", DeletedAt: now, PurgeAt: now.Add(24 * time.Hour)},
			{ClientID: "c2", CompanyName: "Globex", DeletedAt: now, PurgeAt: now.Add(24 * time.Hour)},
		}}
		h := NewRegistryHandler(service.NewRegistryService(lister))

		router := chi.NewRouter()
		router.Get("/api/v1/deleted-accounts", h.ListDeleted)

		req := httptest.NewRequest("GET", "/api/v1/deleted-accounts?search=ACME", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Data model.DeletedAccountListData `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Data.Items, 1)
		assert.Equal(t, "c1", body.Data.Items[0].ClientID)
	})

	t.Run("listing failure maps to 500 envelope", func(t *testing.T) {
		lister := &stubDeletedLister{err: assert.AnError}
		h := NewRegistryHandler(service.NewRegistryService(lister))

		router := chi.NewRouter()
		router.Get("/api/v1/deleted-accounts", h.ListDeleted)

		req := httptest.NewRequest("GET", "/api/v1/deleted-accounts", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)

		var body struct {
			Success bool            `json:"success"`
			Error   *model.APIError `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.False(t, body.Success)
		require.NotNil(t, body.Error)
		assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	})
}
