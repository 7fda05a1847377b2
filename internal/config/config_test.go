package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SESSION_TTL", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("MAIL_DRIVER", "")

	cfg := Load()

	assert.Equal(t, "5000", cfg.ServerPort)
	assert.Equal(t, 5*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "log", cfg.MailDriver)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("RESET_DB", "true")
	t.Setenv("AUTH_RATE_LIMIT", "not-a-number")

	cfg := Load()

	assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.True(t, cfg.ResetDB)
	assert.Equal(t, 5, cfg.AuthRateLimit)
}

func TestConfig_Location(t *testing.T) {
	cfg := &Config{Timezone: "UTC"}
	assert.Equal(t, time.UTC, cfg.Location())

	cfg.Timezone = "Not/AZone"
	assert.Equal(t, time.Local, cfg.Location())

	cfg.Timezone = "Local"
	assert.Equal(t, time.Local, cfg.Location())
}
