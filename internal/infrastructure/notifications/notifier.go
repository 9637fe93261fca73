package notifications

import (
	"context"

	"github.com/you/usersvc/domain"
)

// SMSSender sends text messages
type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

// EmailSender sends e-mail
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// Notifier implements domain.NotificationService on top of an SMS and an e-mail transport
type Notifier struct {
	sms   SMSSender
	email EmailSender
}

// NewNotifier combines both transports
func NewNotifier(sms SMSSender, email EmailSender) *Notifier {
	return &Notifier{sms: sms, email: email}
}

// SendSMS implements domain.NotificationService
func (n *Notifier) SendSMS(ctx context.Context, to, message string) error {
	return n.sms.SendSMS(ctx, to, message)
}

// SendEmail implements domain.NotificationService
func (n *Notifier) SendEmail(ctx context.Context, to, subject, body string) error {
	return n.email.SendEmail(ctx, to, subject, body)
}

var _ domain.NotificationService = (*Notifier)(nil)
