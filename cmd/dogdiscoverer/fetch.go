package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/ericfisherdev/dogdiscoverer/internal/application"
	"github.com/ericfisherdev/dogdiscoverer/internal/domain/model"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch one acceptable dog and print its breed and image URL",
	Long: `Runs a single discovery against the Dog CEO API, skipping dogs whose
breed or attributes are banned with --ban. Exits non-zero when no dog is found
within the attempt budget.`,
	Example: `  dogdiscoverer fetch
  dogdiscoverer fetch --ban Labrador --ban "Hound Afghan"`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		terms, _ := cmd.Flags().GetStringArray("ban")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		client, err := newDogClient(cfg)
		if err != nil {
			return err
		}

		d := application.NewDiscoverer(client, cfg.MaxAttempts, nil)
		dog, attempts, err := d.Discover(cmd.Context(), model.NewBanList(terms...))
		if errors.Is(err, application.ErrNotFound) {
			slog.Debug("no acceptable dog", "attempts", attempts)
			fmt.Fprintln(cmd.ErrOrStderr(), errNoDog)
			return errNoDog
		}
		if err != nil {
			return err
		}

		printDog(cmd.OutOrStdout(), dog, attempts)
		return nil
	},
}

// printDog writes "breed<TAB>url". Terminals get a colored breed; pipes get
// plain text.
func printDog(w io.Writer, dog model.DogResult, attempts int) {
	out := termenv.NewOutput(w)
	breed := out.String(dog.Breed).Bold().Foreground(out.Color("#a78bfa"))
	fmt.Fprintf(w, "%s\t%s\n", breed, dog.ImageURL)
	slog.Debug("dog fetched", "breed", dog.Breed, "attempts", attempts)
}

func init() {
	fetchCmd.Flags().StringArray("ban", nil, "Breed or attribute to skip (repeatable)")
	rootCmd.AddCommand(fetchCmd)
}
