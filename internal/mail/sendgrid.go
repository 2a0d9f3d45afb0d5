package mail

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridSender delivers email through the SendGrid v3 API.
type SendGridSender struct {
	client    *sendgrid.Client
	fromName  string
	fromEmail string
}

var _ Sender = (*SendGridSender)(nil)

// NewSendGridSender constructs a SendGridSender.
func NewSendGridSender(apiKey, fromName, fromEmail string) (*SendGridSender, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("sendgrid: missing api key")
	}
	if strings.TrimSpace(fromEmail) == "" {
		return nil, fmt.Errorf("sendgrid: missing from address")
	}
	return &SendGridSender{
		client:    sendgrid.NewSendClient(apiKey),
		fromName:  fromName,
		fromEmail: fromEmail,
	}, nil
}

// Send delivers one email.
func (s *SendGridSender) Send(ctx context.Context, email Email) error {
	from := sgmail.NewEmail(s.fromName, s.fromEmail)
	to := sgmail.NewEmail(email.ToName, email.To)
	message := sgmail.NewSingleEmail(from, email.Subject, to, email.Body, "")

	resp, errSend := s.client.SendWithContext(ctx, message)
	if errSend != nil {
		return fmt.Errorf("sendgrid: send: %w", errSend)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid: send status=%d", resp.StatusCode)
	}
	return nil
}
