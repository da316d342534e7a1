package services

import (
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net/smtp"
	"strings"

	"github.com/planea/back/internal/config"
	"github.com/planea/back/internal/platform/logger"
)

// ErrEmailDisabled is returned when SMTP is not configured.
var ErrEmailDisabled = errors.New("email delivery is not configured")

type EmailService interface {
	Configured() bool
	SendEmail(to, subject, body string) error
}

type emailService struct {
	cfg *config.SMTPConfig
	log *logger.Logger
}

func NewEmailService(cfg *config.SMTPConfig, log *logger.Logger) EmailService {
	return &emailService{cfg: cfg, log: log}
}

func (s *emailService) Configured() bool {
	return s.cfg.Enabled() && s.cfg.Password != ""
}

func (s *emailService) username() string {
	if s.cfg.Username != "" {
		return s.cfg.Username
	}
	return s.cfg.From
}

// buildMessage renders a UTF-8 plain-text message; the subject is
// Q-encoded so accented characters survive.
func buildMessage(from, to, subject, body string) []byte {
	msg := []string{
		"From: " + from,
		"To: " + to,
		"Subject: " + mime.QEncoding.Encode("utf-8", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		strings.ReplaceAll(body, "\n", "\r\n"),
	}
	return []byte(strings.Join(msg, "\r\n"))
}

func (s *emailService) SendEmail(to, subject, body string) error {
	if !s.Configured() {
		return ErrEmailDisabled
	}

	message := buildMessage(s.cfg.From, to, subject, body)
	auth := smtp.PlainAuth("", s.username(), s.cfg.Password, s.cfg.Host)
	serverAddr := s.cfg.Host + ":" + s.cfg.Port

	s.log.Info("📧 sending email", "send_to", to, "server", serverAddr)

	conn, err := tls.Dial("tcp", serverAddr, &tls.Config{ServerName: s.cfg.Host})
	if err != nil {
		// Port 587 and friends speak plain SMTP first and upgrade with STARTTLS.
		s.log.Debug("implicit TLS failed, trying STARTTLS", "error", err)
		return s.sendWithStartTLS(auth, serverAddr, to, message)
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err = client.Mail(s.cfg.From); err != nil {
		return fmt.Errorf("SMTP MAIL FROM failed: %w", err)
	}
	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("SMTP RCPT TO failed: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("SMTP DATA failed: %w", err)
	}
	if _, err = writer.Write(message); err != nil {
		return fmt.Errorf("failed to write email body: %w", err)
	}
	if err = writer.Close(); err != nil {
		return fmt.Errorf("failed to finish email: %w", err)
	}

	s.log.Info("✅ email sent")
	return nil
}

func (s *emailService) sendWithStartTLS(auth smtp.Auth, addr, to string, msg []byte) error {
	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	s.log.Info("✅ email sent via STARTTLS")
	return nil
}
