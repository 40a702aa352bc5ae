package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"client-recovery/internal/model"
)

type mockAccounts struct {
	mock.Mock
}

func (m *mockAccounts) AccountRecord(ctx context.Context, clientID string) (model.AccountRecord, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).(model.AccountRecord), args.Error(1)
}

type mockCycles struct {
	mock.Mock
}

func (m *mockCycles) DeletionCycles(ctx context.Context, clientID string) ([]model.DeletionCycle, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DeletionCycle), args.Error(1)
}

type mockPurges struct {
	mock.Mock
}

func (m *mockPurges) Find(ctx context.Context, clientID string) (*model.PurgeRecord, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PurgeRecord), args.Error(1)
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestTimelineService_BuildTimeline(t *testing.T) {
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("no history anywhere yields empty timeline", func(t *testing.T) {
		accounts := new(mockAccounts)
		cycles := new(mockCycles)
		purges := new(mockPurges)
		svc := NewTimelineService(accounts, cycles, purges)

		accounts.On("AccountRecord", mock.Anything, "c1").Return(model.AccountRecord{}, model.ErrClientNotFound)
		cycles.On("DeletionCycles", mock.Anything, "c1").Return([]model.DeletionCycle{}, nil)
		purges.On("Find", mock.Anything, "c1").Return(nil, nil)

		events, err := svc.BuildTimeline(context.Background(), "c1")

		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("active account yields single created event", func(t *testing.T) {
		accounts := new(mockAccounts)
		cycles := new(mockCycles)
		purges := new(mockPurges)
		svc := NewTimelineService(accounts, cycles, purges)

		accounts.On("AccountRecord", mock.Anything, "c1").Return(model.AccountRecord{
			ClientID:    "c1",
			CompanyName: "Acme Corp",
			CreatedAt:   timePtr(base),
		}, nil)
		cycles.On("DeletionCycles", mock.Anything, "c1").Return([]model.DeletionCycle{}, nil)
		purges.On("Find", mock.Anything, "c1").Return(nil, nil)

		events, err := svc.BuildTimeline(context.Background(), "c1")

		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, model.EventCreated, events[0].Kind)
		assert.Equal(t, base, events[0].OccurredAt)
		assert.Nil(t, events[0].Actor)
	})

	t.Run("unresolved deletion yields created then deleted", func(t *testing.T) {
		accounts := new(mockAccounts)
		cycles := new(mockCycles)
		purges := new(mockPurges)
		svc := NewTimelineService(accounts, cycles, purges)

		deletedAt := base.Add(48 * time.Hour)
		accounts.On("AccountRecord", mock.Anything, "c1").Return(model.AccountRecord{
			ClientID:       "c1",
			CreatedAt:      timePtr(base),
			DeletedAt:      timePtr(deletedAt),
			DeletedBy:      strPtr("ana"),
			DeletionReason: strPtr("contract ended"),
		}, nil)
		cycles.On("DeletionCycles", mock.Anything, "c1").Return([]model.DeletionCycle{}, nil)
		purges.On("Find", mock.Anything, "c1").Return(nil, nil)

		events, err := svc.BuildTimeline(context.Background(), "c1")

		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, model.EventCreated, events[0].Kind)
		assert.Equal(t, model.EventDeleted, events[1].Kind)
		assert.Equal(t, "ana", *events[1].Actor)
		assert.Equal(t, "contract ended", *events[1].Reason)
	})

	t.Run("each cycle expands into deleted then restored", func(t *testing.T) {
		accounts := new(mockAccounts)
		cycles := new(mockCycles)
		purges := new(mockPurges)
		svc := NewTimelineService(accounts, cycles, purges)

		accounts.On("AccountRecord", mock.Anything, "c1").Return(model.AccountRecord{
			ClientID:  "c1",
			CreatedAt: timePtr(base),
		}, nil)
		cycles.On("DeletionCycles", mock.Anything, "c1").Return([]model.DeletionCycle{
			{
				DeletedAt:         base.Add(24 * time.Hour),
				DeletedBy:         strPtr("ana"),
				RestoredAt:        base.Add(72 * time.Hour),
				RestoredBy:        "bruno",
				RestorationReason: "payment received",
			},
			{
				DeletedAt:         base.Add(200 * time.Hour),
				RestoredAt:        base.Add(300 * time.Hour),
				RestoredBy:        "carla",
				RestorationReason: "mistake",
			},
		}, nil)
		purges.On("Find", mock.Anything, "c1").Return(nil, nil)

		events, err := svc.BuildTimeline(context.Background(), "c1")

		require.NoError(t, err)
		require.Len(t, events, 5)

		kinds := make([]model.EventKind, 0, len(events))
		for _, e := range events {
			kinds = append(kinds, e.Kind)
		}
		assert.Equal(t, []model.EventKind{
			model.EventCreated,
			model.EventDeleted, model.EventRestored,
			model.EventDeleted, model.EventRestored,
		}, kinds)

		for i := 1; i < len(events); i++ {
			assert.False(t, events[i].OccurredAt.Before(events[i-1].OccurredAt))
		}
	})

	t.Run("completed cycle plus an unresolved deletion interleave in order", func(t *testing.T) {
		accounts := new(mockAccounts)
		cycles := new(mockCycles)
		purges := new(mockPurges)
		svc := NewTimelineService(accounts, cycles, purges)

		firstDeletion := base.Add(24 * time.Hour)
		firstRestore := base.Add(48 * time.Hour)
		secondDeletion := base.Add(96 * time.Hour)

		accounts.On("AccountRecord", mock.Anything, "c1").Return(model.AccountRecord{
			ClientID:       "c1",
			CreatedAt:      timePtr(base),
			DeletedAt:      timePtr(secondDeletion),
			DeletedBy:      strPtr("carla"),
			DeletionReason: strPtr("contract ended"),
		}, nil)
		cycles.On("DeletionCycles", mock.Anything, "c1").Return([]model.DeletionCycle{
			{
				DeletedAt:         firstDeletion,
				DeletedBy:         strPtr("ana"),
				RestoredAt:        firstRestore,
				RestoredBy:        "bruno",
				RestorationReason: "payment received",
			},
		}, nil)
		purges.On("Find", mock.Anything, "c1").Return(nil, nil)

		events, err := svc.BuildTimeline(context.Background(), "c1")

		// One completed cycle plus the open deletion and the creation
		// yields exactly four events.
		require.NoError(t, err)
		require.Len(t, events, 4)

		assert.Equal(t, model.EventCreated, events[0].Kind)
		assert.Equal(t, base, events[0].OccurredAt)

		assert.Equal(t, model.EventDeleted, events[1].Kind)
		assert.Equal(t, firstDeletion, events[1].OccurredAt)
		assert.Equal(t, "ana", *events[1].Actor)

		assert.Equal(t, model.EventRestored, events[2].Kind)
		assert.Equal(t, firstRestore, events[2].OccurredAt)
		assert.Equal(t, "bruno", *events[2].Actor)

		assert.Equal(t, model.EventDeleted, events[3].Kind)
		assert.Equal(t, secondDeletion, events[3].OccurredAt)
		assert.Equal(t, "carla", *events[3].Actor)
	})

	t.Run("deleted precedes restored on identical timestamps", func(t *testing.T) {
		accounts := new(mockAccounts)
		cycles := new(mockCycles)
		purges := new(mockPurges)
		svc := NewTimelineService(accounts, cycles, purges)

		accounts.On("AccountRecord", mock.Anything, "c1").Return(model.AccountRecord{}, model.ErrClientNotFound)
		cycles.On("DeletionCycles", mock.Anything, "c1").Return([]model.DeletionCycle{
			{
				DeletedAt:  base,
				RestoredAt: base,
				RestoredBy: "ana",
			},
		}, nil)
		purges.On("Find", mock.Anything, "c1").Return(nil, nil)

		events, err := svc.BuildTimeline(context.Background(), "c1")

		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, model.EventDeleted, events[0].Kind)
		assert.Equal(t, model.EventRestored, events[1].Kind)
	})

	t.Run("purged account ends with purged event", func(t *testing.T) {
		accounts := new(mockAccounts)
		cycles := new(mockCycles)
		purges := new(mockPurges)
		svc := NewTimelineService(accounts, cycles, purges)

		accounts.On("AccountRecord", mock.Anything, "c1").Return(model.AccountRecord{}, model.ErrClientNotFound)
		cycles.On("DeletionCycles", mock.Anything, "c1").Return([]model.DeletionCycle{
			{
				DeletedAt:  base,
				RestoredAt: base.Add(24 * time.Hour),
				RestoredBy: "ana",
			},
		}, nil)
		purges.On("Find", mock.Anything, "c1").Return(&model.PurgeRecord{
			PurgedAt:    base.Add(500 * time.Hour),
			PurgedBy:    "admin",
			PurgeReason: "retention expired",
		}, nil)

		events, err := svc.BuildTimeline(context.Background(), "c1")

		require.NoError(t, err)
		require.Len(t, events, 3)
		last := events[len(events)-1]
		assert.Equal(t, model.EventPurged, last.Kind)
		assert.Equal(t, "admin", *last.Actor)
		assert.Equal(t, "retention expired", *last.Reason)
	})

	t.Run("fetch failure discards partial results", func(t *testing.T) {
		accounts := new(mockAccounts)
		cycles := new(mockCycles)
		purges := new(mockPurges)
		svc := NewTimelineService(accounts, cycles, purges)

		accounts.On("AccountRecord", mock.Anything, "c1").Return(model.AccountRecord{
			ClientID:  "c1",
			CreatedAt: timePtr(base),
		}, nil)
		cycles.On("DeletionCycles", mock.Anything, "c1").Return(nil, errors.New("connection reset"))
		purges.On("Find", mock.Anything, "c1").Return(nil, nil)

		events, err := svc.BuildTimeline(context.Background(), "c1")

		require.Error(t, err)
		assert.Nil(t, events)
	})
}
