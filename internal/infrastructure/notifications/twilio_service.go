package notifications

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioSender delivers SMS through Twilio
type TwilioSender struct {
	api        messageCreator
	fromNumber string
	logger     *zap.Logger
}

// NewTwilioSender creates a new Twilio SMS sender
func NewTwilioSender(accountSID, authToken, fromNumber string, logger *zap.Logger) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioSender{
		api:        client.Api,
		fromNumber: fromNumber,
		logger:     logger,
	}
}

// SendSMS sends message to the given phone number
func (t *TwilioSender) SendSMS(ctx context.Context, to, message string) error {
	// If credentials are not configured, log instead of sending
	if t.fromNumber == "" {
		t.logger.Info("sms delivery disabled, message logged only", zap.String("to", to))
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.fromNumber)
	params.SetBody(message)

	if _, err := t.api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}

	return nil
}
