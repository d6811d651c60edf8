// Command healthcheck queries the Dog Discoverer health endpoint and exits
// non-zero unless the server answers with status "ok". It is meant for
// container health checks.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	httphandler "github.com/ericfisherdev/dogdiscoverer/internal/adapter/driving/http"
)

const defaultAddr = "127.0.0.1:8080"

func main() {
	if err := newCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	var (
		listen  string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:           "healthcheck",
		Short:         "Check that a running dogdiscoverer reports healthy",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if listen == "" {
				listen = os.Getenv("DOGDISCOVERER_LISTEN_ADDR")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			if err := check(ctx, http.DefaultClient, normalizeAddr(listen)); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "healthcheck: %v\n", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Server address (default $DOGDISCOVERER_LISTEN_ADDR or "+defaultAddr+")")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Second, "Overall request timeout")
	return cmd
}

// check fetches /api/v1/health from addr and requires a 200 JSON body whose
// status is "ok".
func check(ctx context.Context, client *http.Client, addr string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+addr+"/api/v1/health", nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var health httphandler.HealthResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&health); err != nil {
		return fmt.Errorf("decode health response: %w", err)
	}
	if health.Status != "ok" {
		return fmt.Errorf("server reports status %q", health.Status)
	}
	return nil
}

// normalizeAddr turns a listen address into one the check can dial. An
// unspecified host means the server bound every interface, so loopback is
// used.
func normalizeAddr(raw string) string {
	host, port, err := net.SplitHostPort(raw)
	if err != nil {
		return defaultAddr
	}

	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "127.0.0.1"
	}

	return net.JoinHostPort(host, port)
}
