// Package email sends transactional email through Resend using HTML
// templates embedded in the binary.
package email

import (
	"context"

	"github.com/deppfellow/datagate/internal/config"
	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// ErrNotConfigured is returned by SendEmail when no Resend API key is set.
var ErrNotConfigured = errors.New("email delivery is not configured")

// Sender is the part of the Resend email service the client uses.
type Sender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Client renders templates and hands them to Resend.
type Client struct {
	sender Sender
	from   string
	logger *zerolog.Logger
}

// NewClient builds a client from the integration block of cfg. Without an
// API key the client is created but every send fails with ErrNotConfigured.
func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	client := &Client{from: cfg.Integration.EmailFrom, logger: logger}
	if cfg.Integration.ResendAPIKey != "" {
		client.sender = resend.NewClient(cfg.Integration.ResendAPIKey).Emails
	}
	return client
}

// NewClientWithSender is used by tests to substitute the Resend API.
func NewClientWithSender(sender Sender, from string, logger *zerolog.Logger) *Client {
	return &Client{sender: sender, from: from, logger: logger}
}

// SendEmail renders templateName with data and sends it to a single
// recipient.
func (c *Client) SendEmail(ctx context.Context, to, subject string, templateName Template, data map[string]string) error {
	if c.sender == nil {
		return ErrNotConfigured
	}

	html, err := Render(templateName, data)
	if err != nil {
		return err
	}

	sent, err := c.sender.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		return errors.Wrap(err, "failed to send email")
	}

	c.logger.Debug().
		Str("template", string(templateName)).
		Str("email_id", sent.Id).
		Msg("email sent")
	return nil
}
