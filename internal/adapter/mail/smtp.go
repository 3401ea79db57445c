// Package mail delivers outgoing email.
package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// Config holds SMTP connection settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender sends plain text mail through an SMTP relay.
type SMTPSender struct {
	cfg Config
	log *zap.Logger
}

// NewSMTPSender creates a new SMTP sender.
func NewSMTPSender(cfg Config, log *zap.Logger) *SMTPSender {
	return &SMTPSender{cfg: cfg, log: log}
}

// Send dials the relay and delivers one message to all recipients.
func (s *SMTPSender) Send(ctx context.Context, to []string, subject, body string) error {
	msg, err := buildMessage(s.cfg.From, to, subject, body)
	if err != nil {
		return err
	}

	opts := []gomail.Option{
		gomail.WithPort(s.cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.cfg.Username),
			gomail.WithPassword(s.cfg.Password),
		)
	}

	client, err := gomail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	s.log.Info("mail sent", zap.Strings("to", to), zap.String("subject", subject))
	return nil
}

func buildMessage(from string, to []string, subject, body string) (*gomail.Msg, error) {
	if len(to) == 0 {
		return nil, fmt.Errorf("mail has no recipients")
	}

	msg := gomail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", from, err)
	}
	if err := msg.To(to...); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)
	return msg, nil
}

// LogSender writes mail to the log instead of sending it. Used when no SMTP
// host is configured.
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, to []string, subject, body string) error {
	s.log.Info("mail not sent, smtp disabled",
		zap.Strings("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}
