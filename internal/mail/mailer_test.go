package mail_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kbreport/internal/config"
	"kbreport/internal/errkind"
	"kbreport/internal/logging"
	"kbreport/internal/mail"
)

func testConfig() config.EmailConfig {
	return config.EmailConfig{
		Enabled:    true,
		Host:       "smtp.example.com",
		Port:       587,
		User:       "reports@example.com",
		Password:   "secret",
		Recipients: "team@example.com",
	}
}

func TestNotify_InvalidRecipient(t *testing.T) {
	cfg := testConfig()
	cfg.Recipients = "team@example.com, not-an-address"

	m := mail.New(cfg, logging.Discard())
	err := m.Notify(context.Background(), "subject", "body")
	require.Error(t, err)
	assert.Equal(t, errkind.InvalidRecipient, errkind.KindOf(err))
	assert.Equal(t, "notify", errkind.StepOf(err))
}

func TestNotify_NoRecipients(t *testing.T) {
	cfg := testConfig()
	cfg.Recipients = " , "

	m := mail.New(cfg, logging.Discard())
	err := m.Notify(context.Background(), "subject", "body")
	require.Error(t, err)
	assert.Equal(t, errkind.InvalidRecipient, errkind.KindOf(err))
}

func TestNotify_InvalidFromAddress(t *testing.T) {
	cfg := testConfig()
	cfg.User = "not an address"

	m := mail.New(cfg, logging.Discard())
	err := m.Notify(context.Background(), "subject", "body")
	require.Error(t, err)
	assert.Equal(t, errkind.InvalidRecipient, errkind.KindOf(err))
}

func TestNotify_UnreachableHost(t *testing.T) {
	cfg := testConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 1 // nothing listens here

	m := mail.New(cfg, logging.Discard())
	err := m.Notify(context.Background(), "subject", "body")
	require.Error(t, err)
	assert.Equal(t, errkind.RemoteUnavailable, errkind.KindOf(err))
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "Kanboard Report - Project 16", mail.Subject(16))
}
