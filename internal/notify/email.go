// Package notify sends operational email. Everything here is best effort:
// failures are logged and never propagated to the caller.
package notify

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"rentalboard/internal/logger"
	"rentalboard/pkg/config"
)

type Mailer struct {
	cfg config.EmailConfig
}

// NewMailer returns nil when no API key is configured; a nil Mailer is safe
// to call and does nothing.
func NewMailer(cfg config.EmailConfig) *Mailer {
	if cfg.SendGridAPIKey == "" || cfg.OpsEmail == "" {
		return nil
	}
	return &Mailer{cfg: cfg}
}

func (m *Mailer) send(subject, body string) {
	if m == nil {
		return
	}
	from := mail.NewEmail(m.cfg.FromName, m.cfg.FromEmail)
	to := mail.NewEmail("", m.cfg.OpsEmail)
	message := mail.NewSingleEmail(from, subject, to, body, "")

	client := sendgrid.NewSendClient(m.cfg.SendGridAPIKey)
	resp, err := client.Send(message)
	if err != nil {
		logger.Warn("email send failed", "subject", subject, "error", err)
		return
	}
	if resp.StatusCode >= 400 {
		logger.Warn("email rejected", "subject", subject, "status", resp.StatusCode, "body", resp.Body)
	}
}

func (m *Mailer) BookingConfirmed(title, start, end string) {
	m.send(
		fmt.Sprintf("Booking confirmed: %s", title),
		fmt.Sprintf("The booking %q was confirmed.\nPeriod: %s -> %s\n", title, start, end),
	)
}

func (m *Mailer) BookingOverdue(title, endDate string) {
	m.send(
		fmt.Sprintf("Booking overdue: %s", title),
		fmt.Sprintf("The rental %q is still ongoing past its end date (%s).\n", title, endDate),
	)
}
