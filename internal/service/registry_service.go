package service

import (
	"context"
	"strings"
	"time"

	"client-recovery/internal/model"
)

type deletedLister interface {
	ListDeleted(ctx context.Context) ([]model.DeletedAccount, error)
}

// RegistryService serves the deleted-accounts registry: every currently
// soft-deleted client with a derived days-until-purge count and urgency
// band, optionally filtered by company-name substring.
type RegistryService struct {
	clients deletedLister
	now     func() time.Time
}

func NewRegistryService(clients deletedLister) *RegistryService {
	return &RegistryService{clients: clients, now: time.Now}
}

func (s *RegistryService) ListDeleted(ctx context.Context, search string) ([]model.DeletedAccount, error) {
	accounts, err := s.clients.ListDeleted(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	for i := range accounts {
		days := DaysUntilPurge(accounts[i].PurgeAt, now)
		accounts[i].DaysUntilPurge = days
		accounts[i].Urgency = UrgencyBand(days)
	}

	return FilterBySubstring(accounts, search), nil
}

// DaysUntilPurge counts whole days remaining before the scheduled purge,
// rounding partial days up and clamping at zero. An account with any time
// left before its purge instant shows at least 1; an overdue account shows
// 0, never a negative number.
func DaysUntilPurge(purgeAt time.Time, now time.Time) int {
	remaining := purgeAt.Sub(now)
	if remaining <= 0 {
		return 0
	}

	days := int(remaining / (24 * time.Hour))
	if remaining%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// UrgencyBand classifies a days-until-purge count. Exactly 60 days is low
// and exactly 30 is high; both boundaries are user-facing contract.
func UrgencyBand(daysUntilPurge int) model.Urgency {
	switch {
	case daysUntilPurge >= 60:
		return model.UrgencyLow
	case daysUntilPurge >= 31:
		return model.UrgencyMedium
	default:
		return model.UrgencyHigh
	}
}

// FilterBySubstring keeps accounts whose company name contains the term,
// case-insensitively. An empty term matches everything. Input order is
// preserved; no re-sort happens here.
func FilterBySubstring(accounts []model.DeletedAccount, term string) []model.DeletedAccount {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return accounts
	}

	filtered := make([]model.DeletedAccount, 0, len(accounts))
	for _, acc := range accounts {
		if strings.Contains(strings.ToLower(acc.CompanyName), term) {
			filtered = append(filtered, acc)
		}
	}
	return filtered
}
