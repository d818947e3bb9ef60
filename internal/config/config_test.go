package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/moisture-sensor/internal/domain/moisture"
)

// validConfig returns a minimal configuration that passes validation.
func validConfig() *Config {
	cfg := &Config{
		SMTP: SMTPConfig{Host: "email-smtp.us-east-1.amazonaws.com"},
		Email: EmailConfig{
			From: "plantbot@example.com",
			To:   "owner@example.com",
		},
	}
	applyDefaults(cfg)

	return cfg
}

// TestValidate checks required fields and range validations.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Missing SMTP host.
	cfg := validConfig()
	cfg.SMTP.Host = ""
	require.ErrorIs(t, Validate(cfg), ErrSMTPHostRequired)

	// Missing sender.
	cfg = validConfig()
	cfg.Email.From = ""
	require.ErrorIs(t, Validate(cfg), ErrSenderRequired)

	// Missing recipient.
	cfg = validConfig()
	cfg.Email.To = ""
	require.ErrorIs(t, Validate(cfg), ErrRecipientRequired)

	// Channel out of range.
	cfg = validConfig()
	cfg.Sensor.Channel = 8
	require.Error(t, Validate(cfg))

	// Threshold out of range.
	cfg = validConfig()
	cfg.Threshold.Value = 2048
	require.Error(t, Validate(cfg))

	// Unknown polarity.
	cfg = validConfig()
	cfg.Threshold.DryWhen = "sideways"
	require.Error(t, Validate(cfg))

	// Okay.
	require.NoError(t, Validate(validConfig()))
}

// TestApplyDefaults ensures zero-value fields are filled in.
func TestApplyDefaults(t *testing.T) {
	t.Parallel()

	cfg := new(Config)
	applyDefaults(cfg)

	require.Equal(t, DefaultPollInterval, cfg.PollInterval)
	require.Equal(t, DefaultThreshold, cfg.Threshold.Value)
	require.Equal(t, moisture.DryBelow, cfg.Threshold.DryWhen)
	require.Equal(t, 587, cfg.SMTP.Port)
	require.True(t, cfg.SMTP.StartTLS)
	require.Equal(t, DefaultSubject, cfg.Email.Subject)

	// Implicit TLS port keeps STARTTLS off.
	cfg = &Config{SMTP: SMTPConfig{Port: 465}}
	applyDefaults(cfg)
	require.False(t, cfg.SMTP.StartTLS)
}

// TestLoadFromFile ensures YAML settings are read and validated.
func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	contents := `
sensor:
  channel: 3
poll_interval: 30s
threshold:
  value: 600
  dry_when: above
smtp:
  host: smtp.example.com
  port: 465
email:
  from: plantbot@example.com
  to: owner@example.com
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := Load(path, "")
	require.NoError(t, err)
	require.Equal(t, 3, cfg.Sensor.Channel)
	require.Equal(t, 30*time.Second, cfg.PollInterval)
	require.Equal(t, 600, cfg.Threshold.Value)
	require.Equal(t, moisture.DryAbove, cfg.Threshold.DryWhen)
	require.Equal(t, 465, cfg.SMTP.Port)
	require.False(t, cfg.SMTP.StartTLS)
}

// TestLoadMissingExplicitFile ensures an explicitly provided path must exist.
func TestLoadMissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), "")
	require.Error(t, err)
}

// TestEnvOverridesFile ensures environment variables win over file values
// and that an environment-only deployment works without a settings file.
func TestEnvOverridesFile(t *testing.T) { //nolint:paralleltest // t.Setenv forbids parallel.
	path := filepath.Join(t.TempDir(), "settings.yaml")
	contents := `
threshold:
  value: 600
smtp:
  host: smtp.example.com
email:
  from: plantbot@example.com
  to: owner@example.com
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	t.Setenv("MOISTURE_THRESHOLD", "450")
	t.Setenv("MOISTURE_SMTP_PASS", "hunter2")
	t.Setenv("MOISTURE_POLL_INTERVAL", "2.5")

	cfg, err := Load(path, "")
	require.NoError(t, err)
	require.Equal(t, 450, cfg.Threshold.Value)
	require.Equal(t, "hunter2", cfg.SMTP.Password)

	// Plain numbers are seconds, POLLING_RATE style.
	require.Equal(t, 2500*time.Millisecond, cfg.PollInterval)
}

// TestLoadEnvFile ensures variables from an explicit env file are applied.
func TestLoadEnvFile(t *testing.T) { //nolint:paralleltest // Mutates process environment via godotenv.
	dir := t.TempDir()

	envPath := filepath.Join(dir, "monitor.env")
	envContents := "MOISTURE_SMTP_HOST=smtp.example.com\n" +
		"MOISTURE_EMAIL_FROM=plantbot@example.com\n" +
		"MOISTURE_EMAIL_TO=owner@example.com\n"
	require.NoError(t, os.WriteFile(envPath, []byte(envContents), 0o600))

	t.Cleanup(func() {
		_ = os.Unsetenv("MOISTURE_SMTP_HOST")
		_ = os.Unsetenv("MOISTURE_EMAIL_FROM")
		_ = os.Unsetenv("MOISTURE_EMAIL_TO")
	})

	cfg, err := Load(filepath.Join(dir, DefaultConfigFilename), "")
	require.Error(t, err, "explicit missing settings file must fail")

	cfg, err = Load("", envPath)
	require.NoError(t, err)
	require.Equal(t, "smtp.example.com", cfg.SMTP.Host)
	require.Equal(t, "plantbot@example.com", cfg.Email.From)
}
