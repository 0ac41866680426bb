// internal/adapters/out/mail/alert_mailer.go
package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// AlertMailer mails operators when the cart could not be closed. It
// satisfies relay.Alerter.
type AlertMailer struct {
	client EmailClient
	from   string
	to     []string
	now    func() time.Time
}

func NewAlertMailer(client EmailClient, from string, to []string) *AlertMailer {
	rcpts := make([]string, 0, len(to))
	for _, t := range to {
		if t = strings.TrimSpace(t); t != "" {
			rcpts = append(rcpts, t)
		}
	}
	return &AlertMailer{client: client, from: strings.TrimSpace(from), to: rcpts, now: time.Now}
}

func (m *AlertMailer) CartLeftOpen(ctx context.Context, watchName, triggerID string, cause error) error {
	if m.client == nil || len(m.to) == 0 {
		return errors.New("alert mailer is not configured")
	}

	subject := fmt.Sprintf("[cartserver] cart left open (%s)", watchName)
	body := fmt.Sprintf(`The scheduled close of the cart failed. The cart stays open until the next
trigger or a manual POST /cart/close.

  watch  : %s
  trigger: %s
  time   : %s
  error  : %v
`, watchName, triggerID, m.now().UTC().Format(time.RFC3339), cause)

	var errs []error
	for _, to := range m.to {
		if err := m.client.Send(ctx, m.from, to, subject, body); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", to, err))
		}
	}
	return errors.Join(errs...)
}
