// Package mail sends transactional email through SendGrid.
package mail

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

type Message struct {
	To      string
	From    string
	Subject string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type SendGrid struct {
	apiKey   string
	fromName string
}

func NewSendGrid(apiKey, fromName string) *SendGrid {
	return &SendGrid{apiKey: apiKey, fromName: fromName}
}

func (c *SendGrid) Send(ctx context.Context, msg Message) error {
	if c.apiKey == "" {
		return fmt.Errorf("sendgrid api key is empty")
	}
	if msg.To == "" {
		return fmt.Errorf("to address is empty")
	}

	from := sgmail.NewEmail(c.fromName, msg.From)
	to := sgmail.NewEmail("", msg.To)
	email := sgmail.NewSingleEmail(from, msg.Subject, to, msg.HTML, msg.HTML)

	client := sendgrid.NewSendClient(c.apiKey)
	resp, err := client.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d body=%s", resp.StatusCode, resp.Body)
	}
	return nil
}
