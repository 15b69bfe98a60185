package email

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/plant-service/internal/app/config"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeDialer struct {
	err   error
	block chan struct{}
	sent  []*gomail.Message
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	if d.block != nil {
		<-d.block
	}
	d.sent = append(d.sent, m...)
	return d.err
}

func TestNewSMTPSender_IncompleteConfig(t *testing.T) {
	testCases := []struct {
		name string
		cfg  config.SMTPConfig
	}{
		{name: "Missing Host", cfg: config.SMTPConfig{Port: 587, Username: "u@x"}},
		{name: "Missing Port", cfg: config.SMTPConfig{Host: "smtp.example.com", Username: "u@x"}},
		{name: "Missing Sender", cfg: config.SMTPConfig{Host: "smtp.example.com", Port: 587}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSMTPSender(tc.cfg, logger.NewNop())
			require.Error(t, err)
			assert.Contains(t, err.Error(), "must be configured")
		})
	}
}

func TestNewSMTPSender_SenderDefaultsToUsername(t *testing.T) {
	s, err := NewSMTPSender(config.SMTPConfig{Host: "smtp.gmail.com", Port: 587, Username: "shop@x", Encryption: "starttls"}, logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "shop@x", s.(*smtpSender).from)
}

func TestSMTPSender_Send(t *testing.T) {
	d := &fakeDialer{}
	s := newSender("shop@x", d, logger.NewNop())

	err := s.Send(context.Background(), []string{"c@x"}, "Plant Order", "<p>hi</p>", "hi")
	require.NoError(t, err)
	require.Len(t, d.sent, 1)

	var buf bytes.Buffer
	_, err = d.sent[0].WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Subject: Plant Order")
	assert.Contains(t, buf.String(), "<p>hi</p>")
}

func TestSMTPSender_Send_Validation(t *testing.T) {
	s := newSender("shop@x", &fakeDialer{}, logger.NewNop())

	assert.Error(t, s.Send(context.Background(), nil, "s", "<p>b</p>", ""))
	assert.Error(t, s.Send(context.Background(), []string{"c@x"}, "s", "", ""))
}

func TestSMTPSender_Send_DialError(t *testing.T) {
	s := newSender("shop@x", &fakeDialer{err: errors.New("connection refused")}, logger.NewNop())

	err := s.Send(context.Background(), []string{"c@x"}, "s", "<p>b</p>", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestSMTPSender_Send_ContextTimeout(t *testing.T) {
	d := &fakeDialer{block: make(chan struct{})}
	defer close(d.block)
	s := newSender("shop@x", d, logger.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := s.Send(ctx, []string{"c@x"}, "s", "<p>b</p>", "")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLogSender(t *testing.T) {
	s := NewLogSender(logger.NewNop())
	assert.NoError(t, s.Send(context.Background(), []string{"c@x"}, "s", "<p>b</p>", "b"))
}
