package mailer

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type captureDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *captureDialer) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func TestSMTPSender_Send(t *testing.T) {
	d := &captureDialer{}
	s := &SMTPSender{from: "office@example.com", dialer: d}

	err := s.Send(context.Background(), Message{
		To:      []string{" support@example.com ", ""},
		Subject: "Contract resubmission",
		Body:    "C-42 is due today",
	})
	require.NoError(t, err)
	require.Len(t, d.sent, 1)

	var buf bytes.Buffer
	_, err = d.sent[0].WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "To: support@example.com")
	assert.Contains(t, buf.String(), "C-42 is due today")
	assert.Equal(t, []string{"office@example.com"}, d.sent[0].GetHeader("From"))
}

func TestSMTPSender_Errors(t *testing.T) {
	d := &captureDialer{err: errors.New("connection refused")}
	s := &SMTPSender{from: "a@b", dialer: d}

	assert.Error(t, s.Send(context.Background(), Message{To: nil}))
	assert.Empty(t, d.sent)

	err := s.Send(context.Background(), Message{To: []string{"x@y"}, Subject: "s"})
	assert.ErrorContains(t, err, "connection refused")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Send(ctx, Message{To: []string{"x@y"}}), context.Canceled)
}
