// internal/adapters/out/mail/sendgrid_client.go
package mail

import (
	"context"
	"errors"
	"fmt"
	"html"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// EmailClient は実際のメール送信クライアントを抽象化したインターフェースです。
type EmailClient interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// sgSender is the part of *sendgrid.Client we use.
type sgSender interface {
	SendWithContext(ctx context.Context, email *sgmail.SGMailV3) (*rest.Response, error)
}

// SendGridClient implements EmailClient.
type SendGridClient struct {
	sender   sgSender
	fromName string
	log      *zap.Logger
}

func NewSendGridClient(apiKey, fromName string, log *zap.Logger) (*SendGridClient, error) {
	if apiKey == "" {
		return nil, errors.New("sendgrid api key is empty")
	}
	return newSendGridClient(sendgrid.NewSendClient(apiKey), fromName, log), nil
}

func newSendGridClient(s sgSender, fromName string, log *zap.Logger) *SendGridClient {
	if log == nil {
		log = zap.NewNop()
	}
	return &SendGridClient{sender: s, fromName: fromName, log: log}
}

// Send sends a plain text mail; the HTML part is the same text in <pre>.
func (c *SendGridClient) Send(ctx context.Context, from, to, subject, body string) error {
	if from == "" {
		return errors.New("from address is empty")
	}
	if to == "" {
		return errors.New("to address is empty")
	}

	message := sgmail.NewSingleEmail(
		sgmail.NewEmail(c.fromName, from),
		subject,
		sgmail.NewEmail("", to),
		body,
		fmt.Sprintf("<pre>%s</pre>", html.EscapeString(body)),
	)

	resp, err := c.sender.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if resp.StatusCode >= 400 {
		c.log.Warn("sendgrid rejected mail", zap.Int("status", resp.StatusCode), zap.String("body", resp.Body))
		return fmt.Errorf("sendgrid send failed: status=%d, body=%s", resp.StatusCode, resp.Body)
	}

	c.log.Info("mail sent", zap.Int("status", resp.StatusCode), zap.String("to", to), zap.String("subject", subject))
	return nil
}
