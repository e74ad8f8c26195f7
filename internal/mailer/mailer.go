// Package mailer is the boundary to the mail transmission mechanism. The
// core only cares whether a dispatch attempt succeeded; everything beyond
// that (bounces, deferred delivery) is outside this process.
package mailer

import "context"

type Message struct {
	From    string
	To      string
	Subject string
	Body    string // HTML body, trusted input from the owning account
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
