package mail

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// ConsoleSender logs emails instead of delivering them. It is the default
// when no provider is configured and keeps development setups mail-free.
type ConsoleSender struct{}

var _ Sender = (*ConsoleSender)(nil)

// NewConsoleSender constructs a ConsoleSender.
func NewConsoleSender() *ConsoleSender {
	return &ConsoleSender{}
}

// Send logs the email.
func (s *ConsoleSender) Send(_ context.Context, email Email) error {
	log.Infof("mail (console): to=%s subject=%q bytes=%d", email.To, email.Subject, len(email.Body))
	return nil
}
