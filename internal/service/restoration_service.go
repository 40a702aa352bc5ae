package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"client-recovery/internal/model"
)

type restorationSource interface {
	LatestRestoration(ctx context.Context, clientID string) (model.DeletionCycle, error)
	History(ctx context.Context) ([]model.RestorationRecord, error)
}

// RestorationService answers "was this client ever restored, and how
// recently" and serves the restoration audit history.
type RestorationService struct {
	log              restorationSource
	defaultThreshold int
	now              func() time.Time
}

func NewRestorationService(log restorationSource, defaultThreshold int) *RestorationService {
	if defaultThreshold <= 0 {
		defaultThreshold = 30
	}
	return &RestorationService{log: log, defaultThreshold: defaultThreshold, now: time.Now}
}

// Lookup returns the most recent restoration of a client, surfaced only
// when it happened within threshold days (pass a negative threshold for
// the configured default). Callers never see a failure from this lookup:
// a failed fetch degrades to "no restoration found".
func (s *RestorationService) Lookup(ctx context.Context, clientID string, threshold int) model.RestorationInfo {
	if threshold < 0 {
		threshold = s.defaultThreshold
	}

	cycle, err := s.log.LatestRestoration(ctx, clientID)
	if err != nil {
		if !errors.Is(err, model.ErrClientNotFound) {
			slog.Warn("restoration lookup failed; reporting absence",
				"client_id", clientID, "error", err)
		}
		return model.RestorationInfo{WasRestored: false}
	}

	restoredAt := cycle.RestoredAt.UTC()
	daysAgo := int(s.now().UTC().Sub(restoredAt).Hours() / 24)
	if daysAgo > threshold {
		return model.RestorationInfo{WasRestored: false}
	}

	return model.RestorationInfo{
		WasRestored:       true,
		RestoredAt:        &restoredAt,
		RestoredBy:        &cycle.RestoredBy,
		RestorationReason: &cycle.RestorationReason,
		DaysAgo:           &daysAgo,
	}
}

// History returns the restoration log across all clients, most recent
// first, with days-deleted derived per record and the query filters
// applied client-side.
func (s *RestorationService) History(ctx context.Context, query model.HistoryQuery) ([]model.RestorationRecord, error) {
	records, err := s.log.History(ctx)
	if err != nil {
		return nil, err
	}

	for i := range records {
		records[i].DaysDeleted = daysDeleted(records[i].DeletedAt, records[i].RestoredAt)
	}

	return filterHistory(records, query), nil
}

// ExportCSV renders restoration records the way the audit export expects
// them: one row per restoration, absent actors shown as "Unknown" and
// absent reasons as "No reason provided".
func (s *RestorationService) ExportCSV(records []model.RestorationRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"Company Name", "Restored Date", "Restored By", "Restoration Reason",
		"Originally Deleted", "Deleted By", "Deletion Reason", "Days Deleted",
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, rec := range records {
		row := []string{
			rec.CompanyName,
			rec.RestoredAt.UTC().Format(time.RFC3339),
			rec.RestoredBy,
			rec.RestorationReason,
			rec.DeletedAt.UTC().Format(time.RFC3339),
			stringOr(rec.DeletedBy, "Unknown"),
			stringOr(rec.DeletionReason, "No reason provided"),
			fmt.Sprintf("%d", rec.DaysDeleted),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// daysDeleted counts the whole days a client spent deleted before its
// restoration, rounding partial days up.
func daysDeleted(deletedAt time.Time, restoredAt time.Time) int {
	elapsed := restoredAt.Sub(deletedAt)
	if elapsed <= 0 {
		return 0
	}

	days := int(elapsed / (24 * time.Hour))
	if elapsed%(24*time.Hour) != 0 {
		days++
	}
	return days
}

func filterHistory(records []model.RestorationRecord, query model.HistoryQuery) []model.RestorationRecord {
	term := strings.ToLower(strings.TrimSpace(query.Search))

	filtered := make([]model.RestorationRecord, 0, len(records))
	for _, rec := range records {
		if term != "" &&
			!strings.Contains(strings.ToLower(rec.CompanyName), term) &&
			!strings.Contains(strings.ToLower(rec.RestoredBy), term) {
			continue
		}
		if !query.From.IsZero() && rec.RestoredAt.Before(query.From) {
			continue
		}
		if !query.To.IsZero() && rec.RestoredAt.After(query.To) {
			continue
		}
		filtered = append(filtered, rec)
	}
	return filtered
}

func stringOr(value *string, fallback string) string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return fallback
	}
	return *value
}
