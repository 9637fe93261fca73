package notifications

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// SMTPConfig holds the outgoing mail server settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type messageSender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// MailSender delivers plain-text e-mail over SMTP
type MailSender struct {
	client messageSender
	from   string
	logger *zap.Logger
}

// NewMailSender creates a new SMTP sender. With no host configured the sender only logs.
func NewMailSender(cfg SMTPConfig, logger *zap.Logger) (*MailSender, error) {
	sender := &MailSender{from: cfg.From, logger: logger}
	if cfg.Host == "" {
		return sender, nil
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}
	sender.client = client
	return sender, nil
}

// SendEmail sends a plain-text message
func (m *MailSender) SendEmail(ctx context.Context, to, subject, body string) error {
	if m.client == nil {
		m.logger.Info("email delivery disabled, message logged only",
			zap.String("to", to), zap.String("subject", subject))
		return nil
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
