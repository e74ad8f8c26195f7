package mailer

import (
	"context"
	"fmt"

	"github.com/mrz1836/postmark"
)

// Postmark sends through the Postmark transactional API instead of raw SMTP.
type Postmark struct {
	client *postmark.Client
}

func NewPostmark(serverToken, accountToken string) *Postmark {
	return &Postmark{client: postmark.NewClient(serverToken, accountToken)}
}

func (p *Postmark) Send(ctx context.Context, msg Message) error {
	resp, err := p.client.SendEmail(ctx, postmark.Email{
		From:       msg.From,
		To:         msg.To,
		Subject:    msg.Subject,
		HTMLBody:   msg.Body,
		TrackOpens: true,
	})
	if err != nil {
		return fmt.Errorf("postmark send: %w", err)
	}
	if resp.ErrorCode > 0 {
		return fmt.Errorf("postmark send: %d %s", resp.ErrorCode, resp.Message)
	}
	return nil
}
