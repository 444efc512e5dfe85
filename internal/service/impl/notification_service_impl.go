package impl

import (
	"context"
	"log/slog"

	"userbase/internal/domain"
	"userbase/internal/observability/metrics"
	"userbase/internal/service"
	"userbase/internal/store"
)

var _ service.NotificationService = (*NotificationServiceImpl)(nil)

type NotificationServiceImpl struct {
	Store dataStore
	Push  service.PushSender
	Title string
}

func NewNotificationServiceImpl(st *store.Store, push service.PushSender, title string) *NotificationServiceImpl {
	return &NotificationServiceImpl{Store: newStoreAdapter(st), Push: push, Title: title}
}

// SendToUser pushes to every active, push-reachable device of the user.
// Fire and forget: delivery failures are logged, never surfaced.
func (n *NotificationServiceImpl) SendToUser(ctx context.Context, userID int, title, body string) {
	if n.Push == nil {
		return
	}
	devices, err := n.Store.Devices().ActiveForUser(ctx, userID)
	if err != nil {
		slog.Warn("push target lookup failed", "user_id", userID, "error", err)
		return
	}
	n.push(devices, title, body)
}

// SendForEvent renders the event's descriptor template and fans out to the
// group's active devices, excluding the creator. The event is marked
// processed even when no device is reachable so it is never replayed.
func (n *NotificationServiceImpl) SendForEvent(ctx context.Context, event *domain.Event) error {
	if event.GroupID == nil {
		return domain.InvalidPayload("Event has no group.")
	}
	descriptor, err := n.Store.Events().GetDescriptor(ctx, event.EventDescriptorID)
	if err != nil {
		return translateStoreErr(err)
	}
	body := event.Message(descriptor)

	var exclude []int
	if event.CreatorID != nil {
		exclude = append(exclude, *event.CreatorID)
	}
	devices, err := n.Store.Devices().ActiveForGroup(ctx, *event.GroupID, exclude)
	if err != nil {
		return err
	}

	if err := n.Store.Events().MarkProcessed(ctx, event.ID); err != nil {
		return err
	}
	n.push(devices, n.Title, body)
	return nil
}

func (n *NotificationServiceImpl) push(devices []*domain.Device, title, body string) {
	var tokens []string
	for _, d := range devices {
		if d.PushReachable() {
			tokens = append(tokens, *d.PNToken)
		}
	}
	if len(tokens) == 0 {
		return
	}
	push := n.Push
	dispatchAsync("push.send", func(ctx context.Context) error {
		err := push.Send(ctx, tokens, title, body)
		result := "success"
		if err != nil {
			result = "failure"
		}
		metrics.NotificationsSentTotal.WithLabelValues("push", result).Inc()
		return err
	})
}
