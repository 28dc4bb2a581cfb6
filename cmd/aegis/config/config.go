// Package configcmder provides the config command for managing persistent
// aegis configuration stored as config.toml.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent aegis configuration.

Configuration is stored as config.toml in the directory given by --config
and provides default values for command flags. CLI flags and AEGIS_
environment variables always take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  gateway.listen, gateway.allowed_origins,
  upstream.endpoint, upstream.api_key, upstream.deployment,
  upstream.api_version, upstream.model,
  moderation.content_safety, moderation.threat_detection,
  audit.sqlite_path

Use subcommands to get, set, or list configuration values:
  aegis config set <key> <value>    Set a configuration value
  aegis config get <key>            Get a configuration value
  aegis config list                 List all configuration values

Examples:
  aegis config set upstream.endpoint https://my-resource.openai.azure.com
  aegis config set moderation.threat_detection false
  aegis config get gateway.listen
  aegis config list`

const configShortDesc string = "Manage persistent aegis configuration"

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
