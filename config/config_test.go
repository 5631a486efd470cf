package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))

	require.NoError(t, err)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "reports", cfg.OutputDir)
	assert.Equal(t, ":8005", cfg.ListenAddr)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, "Weekly Data Report", cfg.EmailSubject)
	assert.Equal(t, "weekly", cfg.ScheduleEvery)
	assert.Equal(t, "monday", cfg.ScheduleDay)
	assert.Equal(t, "08:00", cfg.ScheduleAt)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DATA_DIR", "/tmp/input")
	t.Setenv("RECEIVER_EMAILS", "a@example.com,b@example.com")
	t.Setenv("SCHEDULE_EVERY", "daily")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "/tmp/input", cfg.DataDir)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.ReceiverEmails)
	assert.Equal(t, "daily", cfg.ScheduleEvery)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("OUTPUT_DIR=/tmp/out\n"), 0644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "/tmp/out", cfg.OutputDir)
	t.Cleanup(func() { os.Unsetenv("OUTPUT_DIR") })
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("SMTP_PORT", "99999")

	_, err := Load("")

	assert.Error(t, err)
}
