package services

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
	"runclub-api/config"
	"runclub-api/models"
)

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	f.sent = append(f.sent, m...)
	return f.err
}

func TestNewMailerWithoutSMTP(t *testing.T) {
	_, ok := NewMailer(&config.Config{}, zap.NewNop()).(NoopMailer)
	assert.True(t, ok)

	_, ok = NewMailer(&config.Config{SMTPHost: "smtp.example.com"}, zap.NewNop()).(*EmailService)
	assert.True(t, ok)
}

func TestEmailServiceSendsJoinConfirmation(t *testing.T) {
	fake := &fakeSender{}
	es := &EmailService{
		config: &config.Config{FromName: "Run Club", FromEmail: "noreply@runclub.local"},
		dialer: fake,
		log:    zap.NewNop(),
	}

	user := models.User{Name: "Mike Chen", Email: "mike@example.com"}
	run := models.Run{Title: "Speed Training", Distance: 5, Pace: "4:30", Location: "Track", ScheduledAt: time.Now()}
	require.NoError(t, es.SendJoinConfirmation(user, run))

	require.Len(t, fake.sent, 1)
	assert.Equal(t, []string{"mike@example.com"}, fake.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"Run confirmed: Speed Training"}, fake.sent[0].GetHeader("Subject"))

	var buf bytes.Buffer
	_, err := fake.sent[0].WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Speed Training")
}

func TestEmailServiceWrapsSendErrors(t *testing.T) {
	boom := errors.New("connection refused")
	es := &EmailService{
		config: &config.Config{FromName: "Run Club", FromEmail: "noreply@runclub.local"},
		dialer: &fakeSender{err: boom},
		log:    zap.NewNop(),
	}

	err := es.SendWelcome(models.User{Name: "Tom", Email: "tom@example.com"})
	assert.ErrorIs(t, err, boom)
}
