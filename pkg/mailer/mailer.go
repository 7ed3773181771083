// Package mailer sends transactional mail over SMTP. Without configured
// credentials it logs the message instead, so development setups work
// without a mail account.
package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/kawuz/kawuz-backend/config"
	"github.com/kawuz/kawuz-backend/pkg/logger"
)

type Mailer struct {
	config config.SMTPConfig
}

func New(cfg config.SMTPConfig) *Mailer {
	return &Mailer{config: cfg}
}

// Send delivers a plain-text message to a single recipient.
func (m *Mailer) Send(toEmail, subject, body string) error {
	if m.config.Email == "" || m.config.Password == "" {
		logger.Info("[DEV MODE] Email not sent, SMTP not configured", map[string]interface{}{
			"to":      toEmail,
			"subject": subject,
		})
		return nil
	}

	message := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/plain; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		m.config.Email, toEmail, subject, body,
	))

	auth := smtp.PlainAuth("", m.config.Email, m.config.Password, m.config.Host)

	err := smtp.SendMail(
		m.config.Host+":"+m.config.Port,
		auth,
		m.config.Email,
		[]string{toEmail},
		message,
	)
	if err != nil {
		logger.Error("Failed to send email", err, map[string]interface{}{
			"to":      toEmail,
			"subject": subject,
		})
		return fmt.Errorf("nie udało się wysłać wiadomości e-mail: %w", err)
	}

	logger.Info("Email sent", map[string]interface{}{
		"to":      toEmail,
		"subject": subject,
	})
	return nil
}
