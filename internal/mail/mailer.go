// Package mail implements the service.Notifier interface over SMTP.
package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	netmail "net/mail"
	"net/textproto"

	gomail "github.com/wneessen/go-mail"

	"kbreport/internal/config"
	"kbreport/internal/errkind"
)

const step = "notify"

// Mailer sends the finished report by email. Constructed only when
// email is enabled in configuration.
type Mailer struct {
	cfg config.EmailConfig
	log *slog.Logger
}

// New creates a Mailer from the email settings.
func New(cfg config.EmailConfig, logger *slog.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: logger}
}

// Notify sends one plain-text message with the given subject and body
// to all configured recipients. Recipient addresses are validated
// before any connection is attempted.
func (m *Mailer) Notify(ctx context.Context, subject, body string) error {
	recipients, err := m.validRecipients()
	if err != nil {
		return err
	}

	msg, err := m.buildMessage(subject, body, recipients)
	if err != nil {
		return err
	}

	client, err := m.newClient()
	if err != nil {
		return errkind.Newf(step, errkind.RemoteUnavailable, "smtp client: %v", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return sendErrorToKind(err)
	}

	m.log.Info("report emailed", "recipients", len(recipients), "subject", subject)
	return nil
}

// validRecipients parses the configured recipient list. Any invalid
// address fails the whole notification.
func (m *Mailer) validRecipients() ([]string, error) {
	recipients := m.cfg.RecipientList()
	if len(recipients) == 0 {
		return nil, errkind.Newf(step, errkind.InvalidRecipient, "no recipients configured")
	}
	for _, r := range recipients {
		if _, err := netmail.ParseAddress(r); err != nil {
			return nil, errkind.Newf(step, errkind.InvalidRecipient, "%q: %v", r, err)
		}
	}
	return recipients, nil
}

// buildMessage assembles the outgoing plain-text message.
func (m *Mailer) buildMessage(subject, body string, recipients []string) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(m.cfg.User); err != nil {
		return nil, errkind.Newf(step, errkind.InvalidRecipient, "from address %q: %v", m.cfg.User, err)
	}
	if err := msg.To(recipients...); err != nil {
		return nil, errkind.Newf(step, errkind.InvalidRecipient, "%v", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)
	return msg, nil
}

// newClient configures the SMTP client. STARTTLS is mandatory on the
// submission port, opportunistic elsewhere.
func (m *Mailer) newClient() (*gomail.Client, error) {
	tlsPolicy := gomail.TLSOpportunistic
	if m.cfg.Port == 587 {
		tlsPolicy = gomail.TLSMandatory
	}

	opts := []gomail.Option{
		gomail.WithPort(m.cfg.Port),
		gomail.WithTLSPolicy(tlsPolicy),
	}
	if m.cfg.User != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.cfg.User),
			gomail.WithPassword(m.cfg.Password),
		)
	}
	return gomail.NewClient(m.cfg.Host, opts...)
}

// sendErrorToKind maps a send failure to an error kind. Rejected
// credentials surface as 53x replies (RFC 4954) during the dial.
func sendErrorToKind(err error) error {
	if code := smtpReplyCode(err); code >= 530 && code < 540 {
		return errkind.New(step, errkind.Auth, fmt.Errorf("smtp credentials rejected: %w", err))
	}
	return errkind.New(step, errkind.RemoteUnavailable, err)
}

// smtpReplyCode extracts the server reply code from a send failure.
// Protocol rejections carry a *textproto.Error; returns 0 when the
// failure never got a reply, such as a refused connection.
func smtpReplyCode(err error) int {
	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		return protoErr.Code
	}
	return 0
}

// Subject builds the report email subject for a project.
func Subject(projectID int) string {
	return fmt.Sprintf("Kanboard Report - Project %d", projectID)
}
