package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/ericfisherdev/dogdiscoverer/internal/adapter/driven/dogceo"
	"github.com/ericfisherdev/dogdiscoverer/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "dogdiscoverer",
	Short: "Discover random dogs, skipping the ones you have banned",
	Long: `Dog Discoverer shows random dog images from the Dog CEO API. Breeds and
attributes can be banned; banned dogs are skipped. Configuration is read from
DOGDISCOVERER_* environment variables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	// Running without a subcommand starts the server.
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

// errNoDog ends fetch with exit code 1 after the message has been printed.
var errNoDog = errors.New("no dog found")

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	os.Exit(exitCode(rootCmd.Execute(), os.Stderr))
}

// exitCode maps a command error to the process exit code, printing it to w
// unless the command already reported it.
func exitCode(err error, w io.Writer) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errNoDog):
		return 1
	default:
		fmt.Fprintln(w, "Error:", err)
		return 1
	}
}

// loadConfig loads configuration and installs the default logger at the
// configured level. Config errors fail fast before anything is started.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))
	return cfg, nil
}

// newDogClient builds the dog.ceo client with the configured outbound rate
// limit. A zero rate disables limiting.
func newDogClient(cfg *config.Config) (*dogceo.Client, error) {
	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}

	client, err := dogceo.NewClient(cfg.DogAPIURL, cfg.RequestTimeout, limiter)
	if err != nil {
		return nil, fmt.Errorf("create dog api client: %w", err)
	}
	return client, nil
}
