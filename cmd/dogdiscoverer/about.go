package main

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	webhandler "github.com/ericfisherdev/dogdiscoverer/internal/adapter/driving/web"
)

var aboutCmd = &cobra.Command{
	Use:   "about",
	Short: "Explain how discovery and the ban list work",
	RunE: func(cmd *cobra.Command, _ []string) error {
		width, _ := cmd.Flags().GetInt("width")

		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return fmt.Errorf("create markdown renderer: %w", err)
		}

		out, err := r.Render(webhandler.AboutMarkdown())
		if err != nil {
			return fmt.Errorf("render about text: %w", err)
		}

		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	aboutCmd.Flags().Int("width", 80, "Wrap rendered text at this column")
	rootCmd.AddCommand(aboutCmd)
}
