package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"cardlink/internal/config"
	"cardlink/internal/crypto"
	"cardlink/internal/logging"
	"cardlink/internal/relayserver"
)

func main() {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Development relay for the cardlink handheld",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			serve(cfgPath)
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", "cardlink.yaml", "config file (YAML)")
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serve(cfgPath string) {
	srv, st, logger, err := setup(cfgPath, os.Stdout)
	if err != nil {
		logger.Fatal().Err(err).Msg("relay setup failed")
	}
	defer st.Close()

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("relay starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("server error")
			done <- syscall.SIGTERM
		}
	}()

	<-done
	logger.Info().Msg("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
	logger.Info().Msg("relay stopped")
}

// setup loads configuration and builds the relay server over its store.
// The returned logger is usable even when err is set.
func setup(cfgPath string, out io.Writer) (*http.Server, *relayserver.SQLiteStore, zerolog.Logger, error) {
	logger := logging.New(config.DefaultLogLevel, out)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, logger, err
	}
	logger = logging.New(cfg.LogLevel, out)
	if err := cfg.ValidateServer(); err != nil {
		return nil, nil, logger, errors.Wrap(err, "invalid config")
	}

	// SQLite
	st, err := relayserver.OpenSQLite(cfg.Server.DBPath)
	if err != nil {
		return nil, nil, logger, errors.Wrap(err, "open database")
	}
	sealer, err := crypto.NewSealer([]byte(cfg.Server.SealSecret))
	if err != nil {
		st.Close()
		return nil, nil, logger, err
	}

	srv := &http.Server{
		Addr:         cfg.Server.ListenAddr,
		Handler:      relayserver.New(st, sealer, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	logger.Info().Str("db", cfg.Server.DBPath).Msg("relay configured")
	return srv, st, logger, nil
}
