package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/Abdurahmanit/GroupProject/plant-service/internal/app/config"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/platform/logger"
	"gopkg.in/gomail.v2"
)

type EmailSender interface {
	Send(ctx context.Context, to []string, subject, bodyHTML, bodyText string) error
}

// messageDialer is satisfied by *gomail.Dialer.
type messageDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type smtpSender struct {
	from string
	log  logger.Logger
	d    messageDialer
}

func NewSMTPSender(cfg config.SMTPConfig, log logger.Logger) (EmailSender, error) {
	from := cfg.SenderEmail
	if from == "" {
		from = cfg.Username
	}
	if cfg.Host == "" || cfg.Port == 0 || from == "" {
		return nil, fmt.Errorf("SMTP host, port, and sender email must be configured")
	}

	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)

	serverName := cfg.ServerName
	if serverName == "" {
		serverName = cfg.Host
	}
	switch strings.ToLower(cfg.Encryption) {
	case "ssl":
		dialer.SSL = true
		dialer.TLSConfig = &tls.Config{ServerName: serverName, MinVersion: tls.VersionTLS12}
	case "tls", "starttls":
		dialer.TLSConfig = &tls.Config{ServerName: serverName, MinVersion: tls.VersionTLS12}
	}

	return newSender(from, dialer, log), nil
}

func newSender(from string, d messageDialer, log logger.Logger) *smtpSender {
	return &smtpSender{
		from: from,
		log:  log.Named("SMTPSender"),
		d:    d,
	}
}

func (s *smtpSender) Send(ctx context.Context, to []string, subject, bodyHTML, bodyText string) error {
	if len(to) == 0 {
		return fmt.Errorf("no recipients provided for email")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)

	switch {
	case bodyHTML != "":
		m.SetBody("text/html", bodyHTML)
		if bodyText != "" {
			m.AddAlternative("text/plain", bodyText)
		}
	case bodyText != "":
		m.SetBody("text/plain", bodyText)
	default:
		return fmt.Errorf("email body (HTML or Text) must be provided")
	}

	done := make(chan error, 1)
	go func() {
		done <- s.d.DialAndSend(m)
	}()

	select {
	case <-ctx.Done():
		s.log.Warnf("Email to %v (subject: %s) cancelled or timed out: %v", to, subject, ctx.Err())
		return fmt.Errorf("email sending cancelled or timed out: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
	}

	s.log.Infof("Email sent to %v, subject: %s", to, subject)
	return nil
}

type logSender struct {
	log logger.Logger
}

// NewLogSender writes emails to the log instead of delivering them.
// Used for local runs without SMTP credentials.
func NewLogSender(log logger.Logger) EmailSender {
	return &logSender{log: log.Named("LogSender")}
}

func (s *logSender) Send(_ context.Context, to []string, subject, _, bodyText string) error {
	s.log.Infow("email not delivered, SMTP disabled", "to", to, "subject", subject, "body", bodyText)
	return nil
}
