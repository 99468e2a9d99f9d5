package services

import (
	"context"
	"fmt"
	"net/smtp"
	"time"

	"salonbook/config"
)

// Mailer dispatches a plaintext OTP code to an email address. The code
// only ever exists in the message body; implementations must not
// persist it.
type Mailer interface {
	SendOTP(ctx context.Context, to, code string, expiresIn time.Duration) error
}

// SMTPMailer sends the verification email over plain SMTP.
type SMTPMailer struct {
	cfg *config.Config
}

var _ Mailer = (*SMTPMailer)(nil)

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendOTP(ctx context.Context, to, code string, expiresIn time.Duration) error {
	cfg := m.cfg
	if cfg.SMTPHost == "" || cfg.SMTPPort == "" || cfg.SMTPUsername == "" || cfg.SMTPPassword == "" {
		return fmt.Errorf("incomplete SMTP configuration: host=%q, port=%q, username=%q",
			cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername)
	}

	from := cfg.EmailFrom
	if from == "" {
		from = cfg.SMTPUsername
	}

	expiresMinutes := int((expiresIn + time.Minute - 1) / time.Minute)
	subject := "Your verification code"
	body := fmt.Sprintf(
		"<p>Your verification code is <strong>%s</strong>.</p><p>It will expire in %d minute(s). Do not share this code.</p>",
		code, expiresMinutes)

	addr := cfg.SMTPHost + ":" + cfg.SMTPPort
	auth := smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)

	mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
	message := "From: " + from + "\n" +
		"To: " + to + "\n" +
		"Subject: " + subject + "\n" +
		mime + "\n" +
		body

	if err := smtp.SendMail(addr, auth, from, []string{to}, []byte(message)); err != nil {
		return fmt.Errorf("SMTP send error: %w", err)
	}
	return nil
}
