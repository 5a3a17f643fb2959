// Package email delivers outgoing notifications. Production uses a plain SMTP
// sender; when SMTP is unconfigured a log-only sender is used so the rest of
// the application does not need to care.
package email

import (
	"fmt"
	"net/smtp"

	"itemstore/internal/config"

	"github.com/sirupsen/logrus"
)

// Mailer sends account-related emails.
type Mailer interface {
	SendPasswordReset(to, token string) error
}

// NewMailer picks an implementation based on configuration.
func NewMailer(cfg *config.Config) Mailer {
	if cfg.SMTPHost == "" {
		return &LogMailer{}
	}
	return &SMTPMailer{
		Addr:     cfg.SMTPHost + ":" + cfg.SMTPPort,
		Host:     cfg.SMTPHost,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.EmailsFrom,
	}
}

// SMTPMailer sends mail over SMTP with plain auth.
type SMTPMailer struct {
	Addr     string
	Host     string
	Username string
	Password string
	From     string
}

// SendPasswordReset emails a password recovery token to the given address.
func (m *SMTPMailer) SendPasswordReset(to, token string) error {
	body := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Password recovery\r\n\r\n"+
			"Use the following token to reset your password:\r\n\r\n%s\r\n",
		m.From, to, token,
	)
	auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)
	if err := smtp.SendMail(m.Addr, auth, m.From, []string{to}, []byte(body)); err != nil {
		return fmt.Errorf("sending password reset email: %w", err)
	}
	return nil
}

// LogMailer logs instead of sending, for development setups without SMTP.
type LogMailer struct{}

func (m *LogMailer) SendPasswordReset(to, token string) error {
	logrus.WithFields(logrus.Fields{
		"to": to,
	}).Info("SMTP not configured, skipping password recovery email")
	return nil
}
