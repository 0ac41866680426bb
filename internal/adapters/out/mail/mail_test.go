package mail

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sendgrid/rest"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeSender struct {
	sent   []*sgmail.SGMailV3
	status int
	err    error
}

func (f *fakeSender) SendWithContext(_ context.Context, m *sgmail.SGMailV3) (*rest.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, m)
	return &rest.Response{StatusCode: f.status, Body: "resp"}, nil
}

func TestSendGridClient_Send(t *testing.T) {
	fs := &fakeSender{status: 202}
	c := newSendGridClient(fs, "cartserver", zaptest.NewLogger(t))

	require.NoError(t, c.Send(context.Background(), "ops@example.com", "oncall@example.com", "subj", "a < b"))
	require.Len(t, fs.sent, 1)
	assert.Equal(t, "subj", fs.sent[0].Subject)
	assert.Equal(t, "ops@example.com", fs.sent[0].From.Address)
	require.Len(t, fs.sent[0].Content, 2)
	assert.Equal(t, "<pre>a &lt; b</pre>", fs.sent[0].Content[1].Value)

	assert.Error(t, c.Send(context.Background(), "", "oncall@example.com", "s", "b"))
	assert.Error(t, c.Send(context.Background(), "ops@example.com", "", "s", "b"))

	fs.status = 401
	assert.ErrorContains(t, c.Send(context.Background(), "ops@example.com", "oncall@example.com", "s", "b"), "status=401")

	fs.err = errors.New("dial tcp: timeout")
	assert.ErrorContains(t, c.Send(context.Background(), "ops@example.com", "oncall@example.com", "s", "b"), "timeout")
}

func TestNewSendGridClient_RequiresKey(t *testing.T) {
	_, err := NewSendGridClient("", "cartserver", nil)
	assert.Error(t, err)
}

type fakeEmail struct {
	to      []string
	subject string
	body    string
	failTo  string
}

func (f *fakeEmail) Send(_ context.Context, _, to, subject, body string) error {
	if to == f.failTo {
		return errors.New("mailbox full")
	}
	f.to = append(f.to, to)
	f.subject, f.body = subject, body
	return nil
}

func TestAlertMailer_CartLeftOpen(t *testing.T) {
	fe := &fakeEmail{failTo: "b@example.com"}
	m := NewAlertMailer(fe, "ops@example.com", []string{" a@example.com", "", "b@example.com"})
	m.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	err := m.CartLeftOpen(context.Background(), "order", "trig-1", errors.New("deadline exceeded"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "b@example.com")

	assert.Equal(t, []string{"a@example.com"}, fe.to)
	assert.Equal(t, "[cartserver] cart left open (order)", fe.subject)
	assert.Contains(t, fe.body, "trig-1")
	assert.Contains(t, fe.body, "2026-01-02T03:04:05Z")
	assert.Contains(t, fe.body, "deadline exceeded")
}

func TestAlertMailer_NotConfigured(t *testing.T) {
	m := NewAlertMailer(nil, "ops@example.com", nil)
	assert.Error(t, m.CartLeftOpen(context.Background(), "cart", "t", errors.New("x")))
}
