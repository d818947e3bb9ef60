package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/moisture-sensor/internal/service/monitor"
	"github.com/oshokin/moisture-sensor/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// envFile stores the path to an optional env file with MOISTURE_* variables.
	envFile string
	// simulate replaces the ADC with the built-in simulator.
	simulate bool
	// debug logs alerts instead of delivering them.
	debug bool

	// rootCmd represents the base command for the moisture monitor daemon.
	rootCmd = &cobra.Command{
		Use:   "moisture-sensor",
		Short: "Watch a soil-moisture probe and send an e-mail when the soil dries out.",
		Long: `Foreground daemon that polls a soil-moisture probe through an MCP3008 ADC on the SPI bus.

Each poll reads the configured ADC channel, compares the raw value against the
dryness threshold, and sends a templated alert e-mail on the wet-to-dry transition.
Settings come from a YAML file overlaid with MOISTURE_* environment variables,
optionally loaded from an env file, so mail credentials can stay out of the settings file.

Runs until interrupted; exits non-zero when the hardware or the mail server fails.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return monitor.Run(ctx, &monitor.Options{
				ConfigPath: configPath,
				EnvFile:    envFile,
				Simulate:   simulate,
				Debug:      debug,
			})
		},
	}
)

// Execute runs the moisture-sensor CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to configuration file")
	rootCmd.Flags().StringVarP(&envFile, "env-file", "e", "", "path to env file with MOISTURE_* variables")
	rootCmd.Flags().BoolVarP(&simulate, "simulate", "s", false, "use the built-in sensor simulator instead of SPI hardware")

	// Hidden debug flag to log alerts without sending mail.
	rootCmd.Flags().BoolVarP(&debug, "debug", "d", false, "log alerts instead of sending them")

	err := rootCmd.Flags().MarkHidden("debug")
	if err != nil {
		panic(err)
	}
}
