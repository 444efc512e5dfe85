package service

import (
	"context"

	"userbase/internal/domain"
)

// Sinks are fire-and-forget delivery channels. The orchestrator never waits
// on them; failures are logged by the async dispatcher, not surfaced.

type Mailer interface {
	Send(ctx context.Context, to, subject, textBody, htmlBody string) error
}

type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}

type PushSender interface {
	Send(ctx context.Context, tokens []string, title, body string) error
}

type NotificationService interface {
	SendToUser(ctx context.Context, userID int, title, body string)
	// SendForEvent expands the event's descriptor template and fans the
	// message out to the group's active devices, excluding the creator.
	SendForEvent(ctx context.Context, event *domain.Event) error
}
