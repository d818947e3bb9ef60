package monitor

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/oshokin/moisture-sensor/internal/config"
	"github.com/oshokin/moisture-sensor/internal/logger"
	"github.com/oshokin/moisture-sensor/internal/notify"
	"github.com/oshokin/moisture-sensor/internal/sensor"
)

// Options controls the monitor daemon.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// EnvFile specifies an env file to load before reading the environment.
	EnvFile string
	// Simulate replaces the hardware backend with the built-in simulator.
	Simulate bool
	// Debug logs alerts instead of delivering them, for testing the loop
	// without mail traffic.
	Debug bool
}

// Run starts the poll loop and blocks until the context is canceled or an
// iteration fails. Per the error policy there is no retry: a hardware or
// delivery error surfaces to the process.
func Run(ctx context.Context, opts *Options) error {
	// Load settings before anything else; logging setup depends on them.
	cfg, err := config.Load(opts.ConfigPath, opts.EnvFile)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if err = setupLogging(cfg); err != nil {
		return err
	}

	// Name the logger after setup so the scoped logger is the configured one.
	ctx = logger.WithName(ctx, "moisture-sensor")

	snsr, err := buildSensor(cfg, opts.Simulate)
	if err != nil {
		return fmt.Errorf("open sensor: %w", err)
	}

	defer func() {
		_ = snsr.Close()
	}()

	notifier, err := buildNotifier(cfg, opts.Debug)
	if err != nil {
		return fmt.Errorf("build notifier: %w", err)
	}

	// Host identification for the alert body.
	hostname, err := os.Hostname()
	if err != nil {
		return fmt.Errorf("hostname: %w", err)
	}

	m := newMonitor(cfg, snsr, notifier, hostname)

	logger.InfoKV(ctx, "Polling moisture sensor",
		"channel", cfg.Sensor.Channel,
		"interval", cfg.PollInterval.String(),
		"threshold", cfg.Threshold.Value,
		"dry_when", string(cfg.Threshold.DryWhen),
		"simulate", opts.Simulate)

	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, exiting")
			return nil
		case <-ticker.C:
			if err = m.poll(ctx); err != nil {
				logger.ErrorKV(ctx, "Poll iteration failed", "error", err)
				return fmt.Errorf("poll: %w", err)
			}
		}
	}
}

// setupLogging applies the configured level and optional file sink to the
// global logger.
func setupLogging(cfg *config.Config) error {
	level, ok := logger.ParseLogLevel(cfg.Log.Level)
	if !ok {
		return fmt.Errorf("unknown log level %q", cfg.Log.Level)
	}

	if cfg.Log.Path != "" {
		l, err := logger.NewWithFile(level, cfg.Log.Path)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}

		logger.SetLogger(l)

		return nil
	}

	logger.SetLevel(level)

	return nil
}

// buildSensor opens the hardware backend, or the simulator when requested.
func buildSensor(cfg *config.Config, simulate bool) (sensor.Sensor, error) {
	if simulate {
		return sensor.NewSimulator(cfg.Sensor.Channel, 0, 0), nil
	}

	return sensor.OpenMCP3008(cfg.Sensor.SPIPort, cfg.Sensor.SPIDevice, cfg.Sensor.Channel)
}

// buildNotifier creates the e-mail notifier, or the dry-run one in debug mode.
func buildNotifier(cfg *config.Config, debug bool) (notify.Notifier, error) {
	if debug {
		return dryRunNotifier{}, nil
	}

	return notify.NewEmailNotifier(
		notify.SMTPSettings{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			StartTLS: cfg.SMTP.StartTLS,
		},
		notify.MessageSettings{
			From:         cfg.Email.From,
			To:           cfg.Email.To,
			Subject:      cfg.Email.Subject,
			TemplatePath: cfg.Email.TemplatePath,
		},
	)
}
