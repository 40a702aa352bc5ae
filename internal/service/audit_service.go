package service

import (
	"context"
	"log/slog"
	"time"

	"client-recovery/internal/model"
	"client-recovery/internal/repository"
)

// AuditService records and queries the administrative audit trail. A
// failed write is logged and swallowed: losing an audit row must not fail
// the action that produced it.
type AuditService struct {
	repo *repository.AuditRepository
}

func NewAuditService(repo *repository.AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

func (s *AuditService) Record(ctx context.Context, action string, actor model.AuditActor, status string, resource string, detail any, errText string) {
	if s == nil || s.repo == nil {
		return
	}

	entry := model.AuditEntry{
		Action:     action,
		OccurredAt: time.Now().UTC().Format(time.RFC3339Nano),
		Actor:      actor,
		Status:     status,
		Resource:   resource,
		After:      detail,
		Error:      errText,
	}

	if err := s.repo.Log(ctx, entry); err != nil {
		slog.Error("failed to write audit entry", "action", action, "error", err)
	}
}

func (s *AuditService) Query(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error) {
	return s.repo.Query(ctx, query)
}
