package service

import (
	"context"
	"log/slog"
	"time"

	"client-recovery/internal/event"
)

type restorationNotifier interface {
	NotifyRestoration(ctx context.Context, clientID string, companyName string, restoredBy string, reason string) error
}

// NotificationService fans restoration notifications out to the team by
// listening for lifecycle events on the bus. Notification is best-effort:
// a failure is logged and never reported back to the restore flow.
type NotificationService struct {
	bus      event.Bus
	notifier restorationNotifier
	timeout  time.Duration
}

func NewNotificationService(bus event.Bus, notifier restorationNotifier) *NotificationService {
	return &NotificationService{bus: bus, notifier: notifier, timeout: 10 * time.Second}
}

func (s *NotificationService) Run(ctx context.Context) {
	events, unsubscribe := s.bus.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			s.handle(e)
		}
	}
}

func (s *NotificationService) handle(e event.Event) {
	if e.Type != event.TypeClientRestored {
		return
	}

	payload, ok := e.Payload.(event.RestorationPayload)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.notifier.NotifyRestoration(ctx,
		payload.ClientID, payload.CompanyName, payload.RestoredBy, payload.Reason); err != nil {
		slog.Warn("restoration notification failed",
			"client_id", payload.ClientID, "company_name", payload.CompanyName, "error", err)
		return
	}

	slog.Info("restoration notifications created",
		"client_id", payload.ClientID, "company_name", payload.CompanyName)
}
