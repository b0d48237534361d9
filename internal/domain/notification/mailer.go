package notification

import (
	"fmt"

	"github.com/abbasmurshidm-collab/FocusFlowAi/pkg/config"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Mailer sends transactional email. The auth flows depend on its errors:
// a failed reset-link send rolls the generated token back, and a failed
// verification-code send is logged and degraded to a visible code.
type Mailer interface {
	SendVerificationCode(to string, code string) error
	SendPasswordReset(to string, link string) error
	SendNotificationEmail(to string, n *Notification) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
	logger *logrus.Logger
}

// NewSMTPMailer creates a mailer backed by the configured SMTP relay.
func NewSMTPMailer(cfg *config.MailConfig, logger *logrus.Logger) Mailer {
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: logger,
	}
}

func (m *smtpMailer) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

func (m *smtpMailer) SendVerificationCode(to string, code string) error {
	body := fmt.Sprintf(`
		<h2>Verify your email</h2>
		<p>Your FocusFlow verification code is:</p>
		<h1 style="letter-spacing: 4px;">%s</h1>
		<p>The code expires in 10 minutes.</p>`, code)

	if err := m.send(to, "Verify your FocusFlow account", body); err != nil {
		return err
	}
	m.logger.WithField("to", to).Info("verification email sent")
	return nil
}

func (m *smtpMailer) SendPasswordReset(to string, link string) error {
	body := fmt.Sprintf(`
		<h2>Reset your password</h2>
		<p>Someone requested a password reset for your FocusFlow account.</p>
		<p><a href="%s">Reset password</a></p>
		<p>The link expires in 1 hour. If you did not request this, ignore this email.</p>`, link)

	if err := m.send(to, "Reset your FocusFlow password", body); err != nil {
		return err
	}
	m.logger.WithField("to", to).Info("password reset email sent")
	return nil
}

func (m *smtpMailer) SendNotificationEmail(to string, n *Notification) error {
	body := fmt.Sprintf("<h2>%s</h2><p>%s</p>", n.Title, n.Content)
	return m.send(to, n.Title, body)
}
