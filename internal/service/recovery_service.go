package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"client-recovery/internal/event"
	"client-recovery/internal/model"
	"client-recovery/pkg/apierror"
)

type lifecycleProcedures interface {
	RestoreClient(ctx context.Context, clientID string, restoredBy string, reason string) (model.ProcedureResult, error)
	PurgeClient(ctx context.Context, clientID string, purgedBy string, reason string) (model.ProcedureResult, error)
}

type auditTrail interface {
	Record(ctx context.Context, action string, actor model.AuditActor, status string, resource string, detail any, errText string)
}

// RecoveryService runs the two mutating actions of the console. Each is a
// single remote procedure call: no retry, no partial rollback. Validation
// failures are caught before any call leaves the process.
type RecoveryService struct {
	accounts   accountSource
	procedures lifecycleProcedures
	audit      auditTrail
	bus        event.Bus
}

func NewRecoveryService(accounts accountSource, procedures lifecycleProcedures, audit auditTrail, bus event.Bus) *RecoveryService {
	return &RecoveryService{accounts: accounts, procedures: procedures, audit: audit, bus: bus}
}

func (s *RecoveryService) Restore(ctx context.Context, clientID string, actor model.AuditActor, reason string) (model.RestoreResponse, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return model.RestoreResponse{}, apierror.BadRequest("restoration reason is required", "")
	}

	account, err := s.accounts.AccountRecord(ctx, clientID)
	if errors.Is(err, model.ErrClientNotFound) {
		return model.RestoreResponse{}, apierror.NotFound("client not found", clientID)
	}
	if err != nil {
		return model.RestoreResponse{}, err
	}

	result, err := s.procedures.RestoreClient(ctx, clientID, actor.Username, reason)
	if err != nil {
		s.audit.Record(ctx, "client.restore", actor, "failure", clientID, nil, err.Error())
		return model.RestoreResponse{}, err
	}
	if !result.Success {
		s.audit.Record(ctx, "client.restore", actor, "failure", clientID, nil, result.Error)
		return model.RestoreResponse{}, procedureFailure("restore", result.Error)
	}

	s.audit.Record(ctx, "client.restore", actor, "success", clientID,
		map[string]string{"company_name": account.CompanyName, "reason": reason}, "")

	s.bus.Publish(event.Event{
		ID:        uuid.NewString(),
		Type:      event.TypeClientRestored,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		ActorID:   actor.UserID,
		Payload: event.RestorationPayload{
			ClientID:    clientID,
			CompanyName: account.CompanyName,
			RestoredBy:  actor.Username,
			Reason:      reason,
		},
	})

	return model.RestoreResponse{
		ClientID:    clientID,
		CompanyName: account.CompanyName,
		RestoredBy:  actor.Username,
	}, nil
}

func (s *RecoveryService) Purge(ctx context.Context, clientID string, actor model.AuditActor, reason string, confirmation string) (model.PurgeResponse, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return model.PurgeResponse{}, apierror.BadRequest("purge reason is required", "")
	}
	if confirmation != model.PurgeConfirmationPhrase {
		return model.PurgeResponse{}, apierror.BadRequest(
			"confirmation phrase does not match", "type "+model.PurgeConfirmationPhrase+" to confirm")
	}

	account, err := s.accounts.AccountRecord(ctx, clientID)
	if errors.Is(err, model.ErrClientNotFound) {
		return model.PurgeResponse{}, apierror.NotFound("client not found", clientID)
	}
	if err != nil {
		return model.PurgeResponse{}, err
	}

	result, err := s.procedures.PurgeClient(ctx, clientID, actor.Username, reason)
	if err != nil {
		s.audit.Record(ctx, "client.purge", actor, "failure", clientID, nil, err.Error())
		return model.PurgeResponse{}, err
	}
	if !result.Success {
		s.audit.Record(ctx, "client.purge", actor, "failure", clientID, nil, result.Error)
		return model.PurgeResponse{}, procedureFailure("purge", result.Error)
	}

	s.audit.Record(ctx, "client.purge", actor, "success", clientID,
		map[string]string{"company_name": account.CompanyName, "reason": reason}, "")

	s.bus.Publish(event.Event{
		ID:        uuid.NewString(),
		Type:      event.TypeClientPurged,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		ActorID:   actor.UserID,
		Payload: event.PurgePayload{
			ClientID:    clientID,
			CompanyName: account.CompanyName,
			PurgedBy:    actor.Username,
			Reason:      reason,
		},
	})

	return model.PurgeResponse{
		ClientID:    clientID,
		CompanyName: account.CompanyName,
		PurgedBy:    actor.Username,
	}, nil
}

// procedureFailure maps the stored procedure's error message onto the
// error taxonomy. The two known rejections are state conflicts the caller
// can act on; anything else surfaces as an opaque operation failure.
func procedureFailure(op string, procErr string) error {
	switch procErr {
	case "client is not deleted":
		return model.ErrClientNotDeleted
	case "client not found":
		return model.ErrClientNotFound
	default:
		return apierror.Unprocessable(op+" failed", procErr)
	}
}
