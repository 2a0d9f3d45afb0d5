// Package mail provides outbound email delivery behind a small Sender
// interface, with SendGrid and console implementations.
package mail

import "context"

// Email is one outbound message.
type Email struct {
	To      string
	ToName  string
	Subject string
	Body    string
}

// Sender delivers emails. Implementations must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, email Email) error
}
