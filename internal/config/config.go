package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/moisture-sensor/internal/domain/moisture"
)

// SensorConfig selects the SPI bus and the ADC channel the probe is wired to.
type SensorConfig struct {
	// SPIPort is the SPI bus number (0 for /dev/spidev0.x on a Raspberry Pi).
	SPIPort int `yaml:"spi_port"`
	// SPIDevice is the chip-select line on the bus.
	SPIDevice int `yaml:"spi_device"`
	// Channel is the MCP3008 channel (0-7) the probe's analog output feeds.
	Channel int `yaml:"channel"`
}

// ThresholdConfig defines the dryness boundary and its direction.
type ThresholdConfig struct {
	// Value is the raw-reading boundary between wet and dry (0-1023).
	Value int `yaml:"value"`
	// DryWhen is "below" or "above": which side of the threshold means dry.
	DryWhen moisture.Polarity `yaml:"dry_when"`
}

// NotifyConfig controls when alerts are re-sent.
type NotifyConfig struct {
	// EveryReading sends an alert on every dry evaluation instead of only
	// on the wet-to-dry transition.
	EveryReading bool `yaml:"every_reading"`
}

// SMTPConfig holds outbound mail server settings. Amazon SES is reached
// through its SMTP endpoint with these same fields.
type SMTPConfig struct {
	// Host is the SMTP server hostname.
	Host string `yaml:"host"`
	// Port is the SMTP server port (587 STARTTLS by convention, 465 implicit TLS).
	Port int `yaml:"port"`
	// Username authenticates the SMTP session. Empty disables AUTH.
	Username string `yaml:"username"`
	// Password authenticates the SMTP session. Usually supplied via environment.
	Password string `yaml:"password"`
	// StartTLS upgrades a plain connection via STARTTLS instead of
	// connecting over implicit TLS.
	StartTLS bool `yaml:"start_tls"`
}

// EmailConfig describes the alert message itself.
type EmailConfig struct {
	// From is the sender address ("Name <addr>" or bare address).
	From string `yaml:"from"`
	// To is the recipient address.
	To string `yaml:"to"`
	// Subject is the alert subject line.
	Subject string `yaml:"subject"`
	// TemplatePath points to an html/template file for the alert body.
	// Empty uses the embedded default template.
	TemplatePath string `yaml:"template_path"`
}

// LogConfig controls the logger level and the optional file sink.
type LogConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `yaml:"level"`
	// Path appends log output to this file in addition to stdout.
	Path string `yaml:"path"`
}

// Config holds all settings for the moisture monitor daemon.
type Config struct {
	// Sensor selects the hardware interface.
	Sensor SensorConfig `yaml:"sensor"`
	// PollInterval is the fixed sleep between poll iterations.
	PollInterval time.Duration `yaml:"poll_interval"`
	// Threshold defines the dryness boundary.
	Threshold ThresholdConfig `yaml:"threshold"`
	// Notify controls alert repetition.
	Notify NotifyConfig `yaml:"notify"`
	// SMTP holds outbound mail server settings.
	SMTP SMTPConfig `yaml:"smtp"`
	// Email describes the alert message.
	Email EmailConfig `yaml:"email"`
	// Log controls logging output.
	Log LogConfig `yaml:"log"`
}

const (
	// DefaultConfigFilename is the default filename for monitor settings.
	DefaultConfigFilename = "moisture-sensor-settings.yaml"

	// DefaultPollInterval is the default sleep between poll iterations.
	DefaultPollInterval = 10 * time.Second

	// DefaultThreshold is the default raw-reading dryness boundary. Freshly
	// watered soil reads around 500-600 on this probe and climbs as it dries.
	DefaultThreshold = 450

	// DefaultSubject is the default alert subject line.
	DefaultSubject = "Soil moisture alert"

	// maxChannel is the highest MCP3008 channel number.
	maxChannel = 7

	// maxReading is the highest raw value a 10-bit ADC can produce.
	maxReading = 1023

	// smtpsPort is the implicit-TLS SMTP port; every other port defaults to STARTTLS.
	smtpsPort = 465

	// defaultSMTPPort is the submission port used when none is configured.
	defaultSMTPPort = 587
)

var (
	// ErrSMTPHostRequired is returned when no SMTP host is configured.
	ErrSMTPHostRequired = errors.New("smtp host must be provided")
	// ErrSenderRequired is returned when no sender address is configured.
	ErrSenderRequired = errors.New("email sender address must be provided")
	// ErrRecipientRequired is returned when no recipient address is configured.
	ErrRecipientRequired = errors.New("email recipient address must be provided")
)

// Load reads configuration from the YAML file at path, overlays environment
// variables (optionally loading them from envFile first), applies defaults
// and validates the result.
//
// The YAML file is optional when path is the default filename: a deployment
// may configure the daemon entirely through the environment, which is where
// mail credentials belong anyway.
func Load(path, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	} else {
		// Best effort: a .env next to the binary is loaded when present.
		_ = godotenv.Load()
	}

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFilename
	}

	var cfg Config

	contents, err := os.ReadFile(filepath.Clean(path))

	switch {
	case err == nil:
		if err = yaml.Unmarshal(contents, &cfg); err != nil {
			return nil, fmt.Errorf("unmarshal settings: %w", err)
		}
	case os.IsNotExist(err) && !explicit:
		// No settings file, environment-only deployment.
	default:
		return nil, fmt.Errorf("read settings: %w", err)
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	if err = Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyEnv overlays MOISTURE_* environment variables onto the configuration.
// Set variables always win over file values.
func applyEnv(cfg *Config) {
	envInt("MOISTURE_SPI_PORT", &cfg.Sensor.SPIPort)
	envInt("MOISTURE_SPI_DEVICE", &cfg.Sensor.SPIDevice)
	envInt("MOISTURE_CHANNEL", &cfg.Sensor.Channel)
	envDuration("MOISTURE_POLL_INTERVAL", &cfg.PollInterval)
	envInt("MOISTURE_THRESHOLD", &cfg.Threshold.Value)

	if v, ok := os.LookupEnv("MOISTURE_DRY_WHEN"); ok {
		cfg.Threshold.DryWhen = moisture.Polarity(v)
	}

	envBool("MOISTURE_NOTIFY_EVERY_READING", &cfg.Notify.EveryReading)

	envString("MOISTURE_SMTP_HOST", &cfg.SMTP.Host)
	envInt("MOISTURE_SMTP_PORT", &cfg.SMTP.Port)
	envString("MOISTURE_SMTP_USER", &cfg.SMTP.Username)
	envString("MOISTURE_SMTP_PASS", &cfg.SMTP.Password)

	envString("MOISTURE_EMAIL_FROM", &cfg.Email.From)
	envString("MOISTURE_EMAIL_TO", &cfg.Email.To)
	envString("MOISTURE_EMAIL_SUBJECT", &cfg.Email.Subject)
	envString("MOISTURE_EMAIL_TEMPLATE", &cfg.Email.TemplatePath)

	envString("MOISTURE_LOG_LEVEL", &cfg.Log.Level)
	envString("MOISTURE_LOG_PATH", &cfg.Log.Path)
}

// applyDefaults fills zero-value fields with sensible defaults.
func applyDefaults(cfg *Config) {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}

	if cfg.Threshold.Value == 0 {
		cfg.Threshold.Value = DefaultThreshold
	}

	if cfg.Threshold.DryWhen == "" {
		cfg.Threshold.DryWhen = moisture.DryBelow
	}

	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = defaultSMTPPort
	}

	// STARTTLS is the convention on every port except implicit-TLS 465.
	if !cfg.SMTP.StartTLS && cfg.SMTP.Port != smtpsPort {
		cfg.SMTP.StartTLS = true
	}

	if cfg.Email.Subject == "" {
		cfg.Email.Subject = DefaultSubject
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Validate checks the configuration for required fields and value ranges.
func Validate(cfg *Config) error {
	if cfg.Sensor.Channel < 0 || cfg.Sensor.Channel > maxChannel {
		return fmt.Errorf("sensor channel %d out of range (0-%d)", cfg.Sensor.Channel, maxChannel)
	}

	if cfg.Threshold.Value < 0 || cfg.Threshold.Value > maxReading {
		return fmt.Errorf("threshold %d out of range (0-%d)", cfg.Threshold.Value, maxReading)
	}

	if !cfg.Threshold.DryWhen.Valid() {
		return fmt.Errorf("threshold dry_when %q must be %q or %q",
			cfg.Threshold.DryWhen, moisture.DryBelow, moisture.DryAbove)
	}

	if cfg.SMTP.Host == "" {
		return ErrSMTPHostRequired
	}

	if cfg.SMTP.Port < 1 || cfg.SMTP.Port > 65535 {
		return fmt.Errorf("smtp port %d out of range (1-65535)", cfg.SMTP.Port)
	}

	if cfg.Email.From == "" {
		return ErrSenderRequired
	}

	if cfg.Email.To == "" {
		return ErrRecipientRequired
	}

	return nil
}

// envString overlays a string field from the environment when the variable is set.
func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

// envInt overlays an int field from the environment, ignoring unparseable values.
func envInt(key string, dst *int) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}

	if n, err := strconv.Atoi(v); err == nil {
		*dst = n
	}
}

// envBool overlays a bool field from the environment, ignoring unparseable values.
func envBool(key string, dst *bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}

	if b, err := strconv.ParseBool(v); err == nil {
		*dst = b
	}
}

// envDuration overlays a duration field from the environment. Plain numbers
// are read as seconds for compatibility with the old POLLING_RATE variable.
func envDuration(key string, dst *time.Duration) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}

	if d, err := time.ParseDuration(v); err == nil {
		*dst = d
		return
	}

	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		*dst = time.Duration(secs * float64(time.Second))
	}
}
