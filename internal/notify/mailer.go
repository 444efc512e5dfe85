package notify

import (
	"context"
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"

	"userbase/internal/service"
)

var _ service.Mailer = (*SMTPMailer)(nil)

// SMTPMailer delivers transactional mail over SMTP. With DryRun set it logs
// instead of dialing, which is how local and CI environments run.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	dryRun bool
}

func NewSMTPMailer(host string, port int, user, password, from string, dryRun bool) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
		dryRun: dryRun,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, textBody, htmlBody string) error {
	if m.dryRun {
		slog.Info("mail dry-run", "to", to, "subject", subject)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", textBody)
	if htmlBody != "" {
		msg.AddAlternative("text/html", htmlBody)
	}

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
