package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"client-recovery/internal/event"
	"client-recovery/internal/model"
	"client-recovery/pkg/apierror"
)

type mockProcedures struct {
	mock.Mock
}

func (m *mockProcedures) RestoreClient(ctx context.Context, clientID string, restoredBy string, reason string) (model.ProcedureResult, error) {
	args := m.Called(ctx, clientID, restoredBy, reason)
	return args.Get(0).(model.ProcedureResult), args.Error(1)
}

func (m *mockProcedures) PurgeClient(ctx context.Context, clientID string, purgedBy string, reason string) (model.ProcedureResult, error) {
	args := m.Called(ctx, clientID, purgedBy, reason)
	return args.Get(0).(model.ProcedureResult), args.Error(1)
}

type mockAuditTrail struct {
	mock.Mock
}

func (m *mockAuditTrail) Record(ctx context.Context, action string, actor model.AuditActor, status string, resource string, detail any, errText string) {
	m.Called(ctx, action, actor, status, resource, detail, errText)
}

func receiveEvent(t *testing.T, ch <-chan event.Event) event.Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(time.Second):
		t.Fatal("expected an event on the bus")
		return event.Event{}
	}
}

func TestRecoveryService_Restore(t *testing.T) {
	actor := model.AuditActor{UserID: "u1", Username: "ana", Role: "operator"}

	t.Run("reason is required", func(t *testing.T) {
		accounts := new(mockAccounts)
		procedures := new(mockProcedures)
		audit := new(mockAuditTrail)
		svc := NewRecoveryService(accounts, procedures, audit, event.NewBus())

		_, err := svc.Restore(context.Background(), "c1", actor, "   ")

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "BAD_REQUEST", apiErr.Code)
		procedures.AssertNotCalled(t, "RestoreClient", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown client maps to not found", func(t *testing.T) {
		accounts := new(mockAccounts)
		procedures := new(mockProcedures)
		audit := new(mockAuditTrail)
		svc := NewRecoveryService(accounts, procedures, audit, event.NewBus())

		accounts.On("AccountRecord", mock.Anything, "missing").Return(model.AccountRecord{}, model.ErrClientNotFound)

		_, err := svc.Restore(context.Background(), "missing", actor, "payment received")

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "NOT_FOUND", apiErr.Code)
	})

	t.Run("restoring an active client maps to the not-deleted conflict", func(t *testing.T) {
		accounts := new(mockAccounts)
		procedures := new(mockProcedures)
		audit := new(mockAuditTrail)
		svc := NewRecoveryService(accounts, procedures, audit, event.NewBus())

		accounts.On("AccountRecord", mock.Anything, "c1").Return(model.AccountRecord{ClientID: "c1", CompanyName: "Acme"}, nil)
		procedures.On("RestoreClient", mock.Anything, "c1", "ana", "payment received").
			Return(model.ProcedureResult{Success: false, Error: "client is not deleted"}, nil)
		audit.On("Record", mock.Anything, "client.restore", actor, "failure", "c1", nil, "client is not deleted").Return()

		_, err := svc.Restore(context.Background(), "c1", actor, "payment received")

		require.ErrorIs(t, err, model.ErrClientNotDeleted)
		audit.AssertExpectations(t)
	})

	t.Run("unrecognized procedure rejection is audited and surfaced", func(t *testing.T) {
		accounts := new(mockAccounts)
		procedures := new(mockProcedures)
		audit := new(mockAuditTrail)
		svc := NewRecoveryService(accounts, procedures, audit, event.NewBus())

		accounts.On("AccountRecord", mock.Anything, "c1").Return(model.AccountRecord{ClientID: "c1", CompanyName: "Acme"}, nil)
		procedures.On("RestoreClient", mock.Anything, "c1", "ana", "payment received").
			Return(model.ProcedureResult{Success: false, Error: "retention policy violation"}, nil)
		audit.On("Record", mock.Anything, "client.restore", actor, "failure", "c1", nil, "retention policy violation").Return()

		_, err := svc.Restore(context.Background(), "c1", actor, "payment received")

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "OPERATION_FAILED", apiErr.Code)
		assert.Equal(t, "retention policy violation", apiErr.Details)
		audit.AssertExpectations(t)
	})

	t.Run("transport failure is audited and returned", func(t *testing.T) {
		accounts := new(mockAccounts)
		procedures := new(mockProcedures)
		audit := new(mockAuditTrail)
		svc := NewRecoveryService(accounts, procedures, audit, event.NewBus())

		accounts.On("AccountRecord", mock.Anything, "c1").Return(model.AccountRecord{ClientID: "c1"}, nil)
		procedures.On("RestoreClient", mock.Anything, "c1", "ana", "payment received").
			Return(model.ProcedureResult{}, errors.New("connection reset"))
		audit.On("Record", mock.Anything, "client.restore", actor, "failure", "c1", nil, "connection reset").Return()

		_, err := svc.Restore(context.Background(), "c1", actor, "payment received")

		require.Error(t, err)
		audit.AssertExpectations(t)
	})

	t.Run("success audits and publishes restoration event", func(t *testing.T) {
		accounts := new(mockAccounts)
		procedures := new(mockProcedures)
		audit := new(mockAuditTrail)
		bus := event.NewBus()
		svc := NewRecoveryService(accounts, procedures, audit, bus)

		events, unsubscribe := bus.Subscribe()
		defer unsubscribe()

		accounts.On("AccountRecord", mock.Anything, "c1").Return(model.AccountRecord{ClientID: "c1", CompanyName: "Acme"}, nil)
		procedures.On("RestoreClient", mock.Anything, "c1", "ana", "payment received").
			Return(model.ProcedureResult{Success: true}, nil)
		audit.On("Record", mock.Anything, "client.restore", actor, "success", "c1", mock.Anything, "").Return()

		result, err := svc.Restore(context.Background(), "c1", actor, "payment received")

		require.NoError(t, err)
		assert.Equal(t, "c1", result.ClientID)
		assert.Equal(t, "Acme", result.CompanyName)
		assert.Equal(t, "ana", result.RestoredBy)

		published := receiveEvent(t, events)
		assert.Equal(t, event.TypeClientRestored, published.Type)
		payload, ok := published.Payload.(event.RestorationPayload)
		require.True(t, ok)
		assert.Equal(t, "c1", payload.ClientID)
		assert.Equal(t, "ana", payload.RestoredBy)

		audit.AssertExpectations(t)
	})
}

func TestRecoveryService_Purge(t *testing.T) {
	actor := model.AuditActor{UserID: "u1", Username: "ana", Role: "admin"}

	t.Run("confirmation phrase must match exactly", func(t *testing.T) {
		accounts := new(mockAccounts)
		procedures := new(mockProcedures)
		audit := new(mockAuditTrail)
		svc := NewRecoveryService(accounts, procedures, audit, event.NewBus())

		_, err := svc.Purge(context.Background(), "c1", actor, "retention expired", "purge permanently")

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "BAD_REQUEST", apiErr.Code)
		procedures.AssertNotCalled(t, "PurgeClient", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("reason is required", func(t *testing.T) {
		accounts := new(mockAccounts)
		procedures := new(mockProcedures)
		audit := new(mockAuditTrail)
		svc := NewRecoveryService(accounts, procedures, audit, event.NewBus())

		_, err := svc.Purge(context.Background(), "c1", actor, "", model.PurgeConfirmationPhrase)

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "BAD_REQUEST", apiErr.Code)
	})

	t.Run("success audits and publishes purge event", func(t *testing.T) {
		accounts := new(mockAccounts)
		procedures := new(mockProcedures)
		audit := new(mockAuditTrail)
		bus := event.NewBus()
		svc := NewRecoveryService(accounts, procedures, audit, bus)

		events, unsubscribe := bus.Subscribe()
		defer unsubscribe()

		accounts.On("AccountRecord", mock.Anything, "c1").Return(model.AccountRecord{ClientID: "c1", CompanyName: "Acme"}, nil)
		procedures.On("PurgeClient", mock.Anything, "c1", "ana", "retention expired").
			Return(model.ProcedureResult{Success: true}, nil)
		audit.On("Record", mock.Anything, "client.purge", actor, "success", "c1", mock.Anything, "").Return()

		result, err := svc.Purge(context.Background(), "c1", actor, "retention expired", model.PurgeConfirmationPhrase)

		require.NoError(t, err)
		assert.Equal(t, "Acme", result.CompanyName)
		assert.Equal(t, "ana", result.PurgedBy)

		published := receiveEvent(t, events)
		assert.Equal(t, event.TypeClientPurged, published.Type)

		audit.AssertExpectations(t)
	})

	t.Run("client vanishing mid-purge maps to not found", func(t *testing.T) {
		accounts := new(mockAccounts)
		procedures := new(mockProcedures)
		audit := new(mockAuditTrail)
		svc := NewRecoveryService(accounts, procedures, audit, event.NewBus())

		accounts.On("AccountRecord", mock.Anything, "c1").Return(model.AccountRecord{ClientID: "c1"}, nil)
		procedures.On("PurgeClient", mock.Anything, "c1", "ana", "retention expired").
			Return(model.ProcedureResult{Success: false, Error: "client not found"}, nil)
		audit.On("Record", mock.Anything, "client.purge", actor, "failure", "c1", nil, "client not found").Return()

		_, err := svc.Purge(context.Background(), "c1", actor, "retention expired", model.PurgeConfirmationPhrase)

		require.ErrorIs(t, err, model.ErrClientNotFound)
		audit.AssertExpectations(t)
	})

	t.Run("purging an active client maps to the not-deleted conflict", func(t *testing.T) {
		accounts := new(mockAccounts)
		procedures := new(mockProcedures)
		audit := new(mockAuditTrail)
		svc := NewRecoveryService(accounts, procedures, audit, event.NewBus())

		accounts.On("AccountRecord", mock.Anything, "c1").Return(model.AccountRecord{ClientID: "c1"}, nil)
		procedures.On("PurgeClient", mock.Anything, "c1", "ana", "retention expired").
			Return(model.ProcedureResult{Success: false, Error: "client is not deleted"}, nil)
		audit.On("Record", mock.Anything, "client.purge", actor, "failure", "c1", nil, "client is not deleted").Return()

		_, err := svc.Purge(context.Background(), "c1", actor, "retention expired", model.PurgeConfirmationPhrase)

		require.ErrorIs(t, err, model.ErrClientNotDeleted)
		audit.AssertExpectations(t)
	})
}
