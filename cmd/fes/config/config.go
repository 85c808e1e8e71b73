// Package configcmder provides the config command for managing persistent
// fes configuration stored in the .fes/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent fes configuration.

Configuration is stored as config.toml in the .fes/ directory and provides
default values for command flags. CLI flags always take precedence over
config file values.

Keys use dotted notation matching the TOML section structure:
  stream.method, stream.initial_retry_ms,
  kafka.brokers, kafka.topic,
  log.json, log.pretty, log.file

Use subcommands to get, set, or list configuration values:
  fes config set <key> <value>    Set a configuration value
  fes config get <key>            Get a configuration value
  fes config list                 List all configuration values

Examples:
  fes config set stream.initial_retry_ms 3000
  fes config set kafka.brokers localhost:9092
  fes config get stream.method
  fes config list`

const configShortDesc string = "Manage persistent fes configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
