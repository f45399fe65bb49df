package email

import "context"

// SendWelcomeEmail greets a freshly created user.
func (c *Client) SendWelcomeEmail(ctx context.Context, to, name string) error {
	return c.SendEmail(ctx, to, "Welcome to datagate!", TemplateWelcome, map[string]string{
		"UserName":  name,
		"UserEmail": to,
	})
}
