// Package fescmder
package fescmder

import (
	"github.com/spf13/cobra"

	configcmder "github.com/priyankark/fetch-event-source/cmd/fes/config"
	tailcmder "github.com/priyankark/fetch-event-source/cmd/fes/tail"
	versioncmder "github.com/priyankark/fetch-event-source/cmd/version"
)

const fesLongDesc string = `fes is a resilient Server-Sent Events client.

It keeps a subscription alive across dropped connections, resuming from the
last seen event id, and honors server-driven retry intervals.

Tail a stream using:
  fes tail <url>       Subscribe to a stream and print its messages`

const fesShortDesc string = "fes - resilient SSE streaming"

func NewFesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fes",
		Short: fesShortDesc,
		Long:  fesLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .fes/ config directory")

	// Add subcommands
	cmd.AddCommand(tailcmder.NewTailCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
