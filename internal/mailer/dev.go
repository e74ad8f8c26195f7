package mailer

import (
	"context"
	"sync"
)

// Dev records messages in memory instead of sending them. Used in tests and
// local runs without SMTP credentials. Err, when set, makes every Send fail.
type Dev struct {
	mu   sync.Mutex
	sent []Message

	Err error
}

func NewDev() *Dev { return &Dev{} }

func (d *Dev) Send(_ context.Context, msg Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return d.Err
	}
	d.sent = append(d.sent, msg)
	return nil
}

// Sent returns a copy of every recorded message.
func (d *Dev) Sent() []Message {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Message, len(d.sent))
	copy(out, d.sent)
	return out
}
