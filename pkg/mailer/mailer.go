package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/qwaszxg/api-yamdb/pkg/utils"

	"go.uber.org/zap"
)

// Mailer dispatches confirmation codes. Fire-and-forget: callers run Send in
// a goroutine and a failure only ends up in the log, never in the response.
type Mailer interface {
	Send(to, subject, body string) error
}

type smtpMailer struct {
	config utils.EmailConfig
	log    *zap.Logger
}

// NewMailer returns an SMTP mailer, or a console fallback when no SMTP host
// is configured (development mode: the code is printed to the log instead).
func NewMailer(config utils.EmailConfig, log *zap.Logger) Mailer {
	if config.Host == "" {
		return &consoleMailer{log: log.With(zap.String("mailer", "console"))}
	}
	return &smtpMailer{
		config: config,
		log:    log.With(zap.String("mailer", "smtp")),
	}
}

func (m *smtpMailer) Send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)
	auth := smtp.PlainAuth("", m.config.User, m.config.Password, m.config.Host)

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n\r\n%s\r\n",
		m.config.From, to, subject, body,
	))

	if err := smtp.SendMail(addr, auth, m.config.From, []string{to}, msg); err != nil {
		m.log.Error("Failed to send email",
			zap.Error(err),
			zap.String("to", to),
			zap.String("subject", subject),
		)
		return fmt.Errorf("send email to %s: %w", to, err)
	}

	m.log.Info("Email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// consoleMailer logs instead of sending. Used when SMTP is not configured.
type consoleMailer struct {
	log *zap.Logger
}

func (m *consoleMailer) Send(to, subject, body string) error {
	m.log.Info("Email (console fallback)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
	)

	// Print to console for development
	fmt.Printf("\nEmail to %s [%s]\n%s\n\n", to, subject, body)
	return nil
}
