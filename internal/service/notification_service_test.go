package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"client-recovery/internal/event"
)

type recordingNotifier struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (n *recordingNotifier) NotifyRestoration(_ context.Context, clientID string, _ string, _ string, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, clientID)
	return n.err
}

func (n *recordingNotifier) callCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

func TestNotificationService_Run(t *testing.T) {
	t.Run("restoration events trigger notification", func(t *testing.T) {
		bus := event.NewBus()
		notifier := &recordingNotifier{}
		svc := NewNotificationService(bus, notifier)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		done := make(chan struct{})
		go func() {
			svc.Run(ctx)
			close(done)
		}()

		// Give the subscriber a moment to register before publishing.
		time.Sleep(50 * time.Millisecond)

		bus.Publish(event.Event{
			Type: event.TypeClientRestored,
			Payload: event.RestorationPayload{
				ClientID:    "c1",
				CompanyName: "Acme",
				RestoredBy:  "ana",
				Reason:      "payment received",
			},
		})

		assert.Eventually(t, func() bool {
			return notifier.callCount() == 1
		}, time.Second, 10*time.Millisecond)

		cancel()
		<-done
	})

	t.Run("purge events are ignored", func(t *testing.T) {
		bus := event.NewBus()
		notifier := &recordingNotifier{}
		svc := NewNotificationService(bus, notifier)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go svc.Run(ctx)

		time.Sleep(50 * time.Millisecond)

		bus.Publish(event.Event{
			Type:    event.TypeClientPurged,
			Payload: event.PurgePayload{ClientID: "c1"},
		})

		time.Sleep(100 * time.Millisecond)
		assert.Zero(t, notifier.callCount())
	})

	t.Run("notifier failure does not stop the loop", func(t *testing.T) {
		bus := event.NewBus()
		notifier := &recordingNotifier{err: errors.New("insert failed")}
		svc := NewNotificationService(bus, notifier)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go svc.Run(ctx)

		time.Sleep(50 * time.Millisecond)

		for i := 0; i < 2; i++ {
			bus.Publish(event.Event{
				Type:    event.TypeClientRestored,
				Payload: event.RestorationPayload{ClientID: "c1"},
			})
		}

		assert.Eventually(t, func() bool {
			return notifier.callCount() == 2
		}, time.Second, 10*time.Millisecond)
	})
}
