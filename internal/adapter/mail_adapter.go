package adapter

import "context"

// MailDispatcher delivers a plain-text message to one recipient.
type MailDispatcher interface {
	Send(ctx context.Context, to, subject, body string) error
}
