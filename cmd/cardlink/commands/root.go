package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"cardlink/internal/app"
	"cardlink/internal/config"
	"cardlink/internal/logging"
)

var (
	cfgPath  string
	relayURL string
	appID    string
	cardFile string
	timeout  time.Duration
	logLevel string

	cfg    *config.Config
	logger zerolog.Logger
)

// Execute runs the root command under ctx.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "cardlink",
		Short:        "Relay card details to a waiting checkout by scanning its QR code",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			applyFlags(cmd, loaded)
			if err := loaded.ValidateClient(); err != nil {
				return err
			}
			cfg = loaded
			logger = logging.NewConsole(cfg.LogLevel, os.Stderr)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "cardlink.yaml", "config file (YAML)")
	pf.StringVar(&relayURL, "relay", "", "relay base URL (e.g. http://192.168.1.100:3000)")
	pf.StringVar(&appID, "app-id", "", "app identifier sent when linking")
	pf.StringVar(&cardFile, "card", "", "card details JSON file (default: placeholder card)")
	pf.DurationVar(&timeout, "timeout", 0, "per-request timeout, e.g. 10s (0 disables)")
	pf.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(pairCmd(), runCmd(), cardCmd())
	return root
}

// applyFlags overrides file and environment settings with explicit flags.
func applyFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("relay") {
		c.Client.RelayURL = relayURL
	}
	if flags.Changed("app-id") {
		c.Client.AppIdentifier = appID
	}
	if flags.Changed("card") {
		c.Client.CardFile = cardFile
	}
	if flags.Changed("log-level") {
		c.LogLevel = logLevel
	}
	if flags.Changed("timeout") {
		c.Client.Timeout = timeout
	}
}

// newWire builds a session whose status messages are printed to out.
func newWire(out io.Writer) (*app.Wire, error) {
	return app.NewWire(app.Config{
		RelayURL:      cfg.Client.RelayURL,
		AppIdentifier: cfg.Client.AppIdentifier,
		CardFile:      cfg.Client.CardFile,
		Timeout:       cfg.Client.Timeout,
	}, logger, func(msg string) {
		fmt.Fprintf(out, "» %s\n", msg)
	})
}
