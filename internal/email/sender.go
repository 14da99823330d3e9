package email

import (
	"context"
	"fmt"

	"github.com/equilog/equilog-backend/pkg/config"
	"github.com/equilog/equilog-backend/pkg/logger"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Sender delivers a rendered message to one recipient.
type Sender interface {
	Send(ctx context.Context, recipient string, msg Message) error
}

// SendGridSender delivers mail through the SendGrid v3 API.
type SendGridSender struct {
	client   *sendgrid.Client
	fromAddr string
	fromName string
}

// NewSendGridSender builds a sender from config.
func NewSendGridSender(cfg config.SendgridConfig) (*SendGridSender, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("sendgrid api key required")
	}
	return &SendGridSender{
		client:   sendgrid.NewSendClient(cfg.APIKey),
		fromAddr: cfg.DefaultFrom,
		fromName: cfg.FromName,
	}, nil
}

func (s *SendGridSender) Send(ctx context.Context, recipient string, msg Message) error {
	from := mail.NewEmail(s.fromName, s.fromAddr)
	to := mail.NewEmail("", recipient)
	payload := mail.NewSingleEmail(from, msg.Subject, to, msg.PlainText, msg.HTML)

	resp, err := s.client.SendWithContext(ctx, payload)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}

// LogSender records messages instead of delivering them.
type LogSender struct {
	logg *logger.Logger
}

// NewLogSender is used when outbound email is disabled.
func NewLogSender(logg *logger.Logger) *LogSender {
	return &LogSender{logg: logg}
}

func (s *LogSender) Send(ctx context.Context, recipient string, msg Message) error {
	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{"recipient": recipient, "subject": msg.Subject})
		s.logg.Info(ctx, "email delivery disabled, message dropped")
	}
	return nil
}
