package notify

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/mail"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/resume-screener/internal/domain"
)

type sentMessage struct {
	from string
	to   string
	msg  string
}

type fakeMailer struct {
	sent    []sentMessage
	failFor map[string]error
}

func (f *fakeMailer) Send(_ context.Context, from, to string, msg []byte) error {
	if err := f.failFor[to]; err != nil {
		return err
	}
	f.sent = append(f.sent, sentMessage{from: from, to: to, msg: string(msg)})
	return nil
}

var fixedNow = time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

func newTestNotifier(t *testing.T, mailer Mailer, core zapcore.Core) *Notifier {
	t.Helper()

	now := func() time.Time { return fixedNow }
	composer, err := NewComposer(
		mail.Address{Name: "HR Team", Address: "hr@example.com"},
		"", "", "ABC Company", []string{"HR Team", "www.abccompany.com"}, now,
	)
	require.NoError(t, err)

	scheduler := NewScheduler(now, rand.New(rand.NewPCG(1, 2)), 0, 0, nil)
	return NewNotifier(mailer, composer, scheduler, 0, zap.New(core))
}

func TestSendAllNoInviteesSendsNothing(t *testing.T) {
	mailer := &fakeMailer{}
	n := newTestNotifier(t, mailer, zapcore.NewNopCore())

	results, err := n.SendAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, mailer.sent)
}

func TestSendAllContinuesAfterFailures(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	transportErr := errors.New("connection reset")
	mailer := &fakeMailer{failFor: map[string]error{"bounce@example.com": transportErr}}
	n := newTestNotifier(t, mailer, core)

	results, err := n.SendAll(context.Background(), []domain.Invitee{
		{Name: "No Mail", Email: domain.Unknown},
		{Name: "Bounce", Email: "bounce@example.com"},
		{Name: "Jane Doe", Email: "jane@example.com"},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.ErrorIs(t, results[0].Err, domain.ErrInvalidAddress)
	assert.ErrorIs(t, results[1].Err, transportErr)
	assert.True(t, results[2].Sent())

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "hr@example.com", mailer.sent[0].from)
	assert.Equal(t, "jane@example.com", mailer.sent[0].to)

	assert.Equal(t, 2, logs.FilterMessage("invitation failed").Len())
	sent := logs.FilterMessage("invitation sent").All()
	require.Len(t, sent, 1)
	assert.Equal(t, "Jane Doe", sent[0].ContextMap()["candidate"])
}

func TestSendAllMessageContent(t *testing.T) {
	mailer := &fakeMailer{}
	n := newTestNotifier(t, mailer, zapcore.NewNopCore())

	results, err := n.SendAll(context.Background(), []domain.Invitee{{Name: "Jane Doe", Email: "jane@example.com"}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, mailer.sent, 1)

	msg := strings.ReplaceAll(mailer.sent[0].msg, "\r\n", "\n")
	assert.Contains(t, msg, "Subject: Interview Invitation - Jane Doe")
	assert.Contains(t, msg, "Dear Jane Doe,")
	assert.Contains(t, msg, "Interview Date: "+results[0].Slot.Date)
	assert.Contains(t, msg, "Interview Time: "+results[0].Slot.Time)
	assert.Contains(t, msg, "Interview Format: Virtual (Google Meet)")
	assert.Contains(t, msg, "ABC Company\nHR Team\nwww.abccompany.com")
	assert.Contains(t, msg, "text/plain")
}

func TestSendAllStopsOnCancelledContext(t *testing.T) {
	mailer := &fakeMailer{}
	n := newTestNotifier(t, mailer, zapcore.NewNopCore())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := n.SendAll(ctx, []domain.Invitee{{Name: "Jane", Email: "jane@example.com"}})
	require.Error(t, err)
	assert.Empty(t, mailer.sent)
}

func TestConfigValidate(t *testing.T) {
	valid := Config{Host: DefaultHost, Port: DefaultPort, From: "hr@example.com"}
	require.NoError(t, valid.Validate())

	for name, mutate := range map[string]func(*Config){
		"missing host":  func(c *Config) { c.Host = "" },
		"bad port":      func(c *Config) { c.Port = 0 },
		"bad from":      func(c *Config) { c.From = "nobody" },
		"inverted days": func(c *Config) { c.MinDays, c.MaxDays = 5, 3 },
		"negative rate": func(c *Config) { c.RatePerSecond = -1 },
	} {
		t.Run(name, func(t *testing.T) {
			c := valid
			mutate(&c)
			require.Error(t, c.Validate())
		})
	}
}
