package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTP sends through an upstream SMTP server with PLAIN auth.
type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
}

func NewSMTP(host string, port int, username, password string) *SMTP {
	return &SMTP{Host: host, Port: port, Username: username, Password: password}
}

// Send submits the message and honors ctx cancellation. net/smtp has no
// context support, so the dial-and-send runs in a goroutine and the deadline
// comes from the caller's context; a timed-out send is reported as failed
// even though the upstream server may still accept it.
func (s *SMTP) Send(ctx context.Context, msg Message) error {
	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
	payload := buildMessage(msg)

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, msg.From, []string{msg.To}, payload)
	}()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp send: %w", ctx.Err())
	}
}

func buildMessage(msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", msg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}
