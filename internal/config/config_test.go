package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, "en", cfg.Locale)
	assert.Equal(t, "sqlite://data/sessions.db", cfg.SessionStore)
	assert.Equal(t, 3*time.Second, cfg.GuestPollInterval)
	assert.Equal(t, 3*time.Second, cfg.RejectionExitDelay)
	assert.Equal(t, 10*time.Second, cfg.PartySyncInterval)
	assert.Zero(t, cfg.HTTPTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Credential.TTL)
	assert.Equal(t, "voteparty.guest.lifecycle", cfg.Notify.AMQPQueue)
	assert.Equal(t, 8080, cfg.MockPort)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("VOTEPARTY_API_URL", "https://party.example.com/")
	t.Setenv("VOTEPARTY_SESSION_STORE", "redis://localhost:6379/2")
	t.Setenv("VOTEPARTY_GUEST_POLL_INTERVAL", "500ms")
	t.Setenv("VOTEPARTY_CREDENTIAL_SUBJECT", "host-1")
	t.Setenv("VOTEPARTY_CREDENTIAL_SECRET", "0123456789abcdef")
	t.Setenv("VOTEPARTY_LOG_FORMAT", "json")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "https://party.example.com", cfg.APIURL)
	assert.Equal(t, "redis://localhost:6379/2", cfg.SessionStore)
	assert.Equal(t, 500*time.Millisecond, cfg.GuestPollInterval)
	assert.Equal(t, "host-1", cfg.Credential.Subject)
}

func TestFromEnv_EmptyAPIURLIsRelative(t *testing.T) {
	t.Setenv("VOTEPARTY_API_URL", "")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Empty(t, cfg.APIURL)

	t.Setenv("VOTEPARTY_API_URL", "   ")
	cfg, err = FromEnv()
	require.NoError(t, err)
	assert.Empty(t, cfg.APIURL)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"parse error":         {"VOTEPARTY_PARTY_SYNC_INTERVAL": "soon"},
		"zero interval":       {"VOTEPARTY_GUEST_POLL_INTERVAL": "0s"},
		"negative timeout":    {"VOTEPARTY_HTTP_TIMEOUT": "-1s"},
		"api scheme":          {"VOTEPARTY_API_URL": "ftp://x"},
		"store scheme":        {"VOTEPARTY_SESSION_STORE": "mongodb://x"},
		"sqlite without path": {"VOTEPARTY_SESSION_STORE": "sqlite://"},
		"secret and token":    {"VOTEPARTY_CREDENTIAL_SECRET": "s", "VOTEPARTY_CREDENTIAL_TOKEN": "t", "VOTEPARTY_CREDENTIAL_SUBJECT": "x"},
		"secret no subject":   {"VOTEPARTY_CREDENTIAL_SECRET": "0123456789abcdef"},
		"webhook":             {"VOTEPARTY_DISCORD_WEBHOOK_URL": "https://discord.com/api/hooks"},
		"log format":          {"VOTEPARTY_LOG_FORMAT": "xml"},
		"mock port":           {"VOTEPARTY_MOCK_PORT": "70000"},
		"amqp queue missing":  {"VOTEPARTY_AMQP_URL": "amqp://localhost", "VOTEPARTY_AMQP_QUEUE": " "},
	}
	for name, vars := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range vars {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.ErrorContains(t, err, "config:")
		})
	}
}

func TestParseWebhookURL(t *testing.T) {
	id, token, err := ParseWebhookURL("https://discord.com/api/webhooks/123456/abc-DEF")
	require.NoError(t, err)
	assert.Equal(t, "123456", id)
	assert.Equal(t, "abc-DEF", token)

	_, _, err = ParseWebhookURL("https://discord.com/api/webhooks/abc/def")
	assert.Error(t, err)
}
