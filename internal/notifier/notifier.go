// Package notifier sends outbound email. Dispatch is fire-and-forget from
// the caller's point of view: errors are returned for logging but callers
// must not treat them as fatal.
package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/contractpro/contractpro/internal/config"
)

// Notifier dispatches a single email.
type Notifier interface {
	Send(ctx context.Context, to, subject, htmlBody string, cc []string) error
}

type smtpNotifier struct {
	dialer  *gomail.Dialer
	from    string
	timeout time.Duration
	log     *slog.Logger
}

func NewSMTPNotifier(cfg config.SMTPConfig, log *slog.Logger) Notifier {
	return &smtpNotifier{
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:    cfg.From,
		timeout: cfg.SendTimeout,
		log:     log,
	}
}

// Send delivers one message over SMTP with a bounded timeout so a stalled
// server can never hold up the scheduler loop.
func (n *smtpNotifier) Send(ctx context.Context, to, subject, htmlBody string, cc []string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to)
	if len(cc) > 0 {
		m.SetHeader("Cc", cc...)
	}
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- n.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send to %s: %w", to, err)
		}
		n.log.Info("Email sent", slog.String("to", to), slog.String("subject", subject))
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp send to %s: %w", to, ctx.Err())
	}
}
