// Package mail sends transactional email over SMTP.
package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"

	"github.com/landmarket/backend/internal/infrastructure/config"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Message is a single outgoing email
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// PasswordResetMessage builds the forgot-password email. The link points at
// clientURL with the token appended as a query parameter.
func PasswordResetMessage(to, clientURL, token string) (Message, error) {
	u, err := url.Parse(clientURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Message{}, fmt.Errorf("invalid client url %q", clientURL)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	link := u.String()

	return Message{
		To:      to,
		Subject: "Reset your password",
		Text:    "Follow this link to choose a new password:\n\n" + link + "\n\nIf you did not ask for a reset you can ignore this email.",
		HTML:    `<p>Follow this link to choose a new password:</p><p><a href="` + link + `">` + link + `</a></p><p>If you did not ask for a reset you can ignore this email.</p>`,
	}, nil
}

// SMTPMailer delivers messages through an SMTP relay
type SMTPMailer struct {
	from   string
	send   func(m *gomail.Message) error
	logger *zap.Logger
}

// NewSMTPMailer creates a mailer for cfg. Port 465 uses implicit TLS.
func NewSMTPMailer(cfg config.MailConfig, logger *zap.Logger) (*SMTPMailer, error) {
	if cfg.Host == "" || cfg.Port == 0 || cfg.From == "" {
		return nil, errors.New("mail host, port and from address must be configured")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}
	d.SSL = cfg.Port == 465

	return &SMTPMailer{from: cfg.From, send: func(m *gomail.Message) error { return d.DialAndSend(m) }, logger: logger}, nil
}

// Send delivers msg, giving up when ctx is done
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	gm, err := m.build(msg)
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- m.send(gm)
	}()

	select {
	case <-ctx.Done():
		m.logger.Warn("Email sending cancelled", zap.String("to", msg.To), zap.Error(ctx.Err()))
		return fmt.Errorf("email sending cancelled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			m.logger.Error("Failed to send email", zap.String("to", msg.To), zap.String("subject", msg.Subject), zap.Error(err))
			return fmt.Errorf("failed to send email: %w", err)
		}
	}
	m.logger.Info("Email sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

func (m *SMTPMailer) build(msg Message) (*gomail.Message, error) {
	if msg.To == "" {
		return nil, errors.New("no recipient provided for email")
	}
	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	switch {
	case msg.HTML != "":
		gm.SetBody("text/html", msg.HTML)
		if msg.Text != "" {
			gm.AddAlternative("text/plain", msg.Text)
		}
	case msg.Text != "":
		gm.SetBody("text/plain", msg.Text)
	default:
		return nil, errors.New("email body must be provided")
	}
	return gm, nil
}

// LogMailer writes messages to the log instead of sending them.
// It is used when mail is disabled.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a mailer that only logs
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs msg
func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.logger.Info("Email not sent, mail is disabled",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Text),
	)
	return nil
}
