package config_test

import (
	"testing"

	"github.com/crewbase/crewbase/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestLoadEmailDefaults(t *testing.T) {
	cfg := config.Load()

	assert.Equal(t, "sendgrid", cfg.Email.Provider)
	assert.Equal(t, "localhost", cfg.SMTP.Host)
	assert.Equal(t, 587, cfg.SMTP.Port)
}

func TestLoadEmailFromEnv(t *testing.T) {
	t.Setenv("EMAIL_PROVIDER", "smtp")
	t.Setenv("SMTP_HOST", "mail.crewbase.test")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("SMTP_USERNAME", "mailer")
	t.Setenv("SMTP_PASSWORD", "hunter2")
	t.Setenv("SMTP_FROM", "no-reply@crewbase.test")

	cfg := config.Load()

	assert.Equal(t, "smtp", cfg.Email.Provider)
	assert.Equal(t, "mail.crewbase.test", cfg.SMTP.Host)
	assert.Equal(t, 2525, cfg.SMTP.Port)
	assert.Equal(t, "mailer", cfg.SMTP.Username)
	assert.Equal(t, "hunter2", cfg.SMTP.Password)
	assert.Equal(t, "no-reply@crewbase.test", cfg.SMTP.From)
}

func TestLoadIgnoresBadSMTPPort(t *testing.T) {
	t.Setenv("SMTP_PORT", "not-a-port")

	cfg := config.Load()

	assert.Equal(t, 587, cfg.SMTP.Port)
}
