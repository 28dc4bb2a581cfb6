// Package aegiscmder
package aegiscmder

import (
	"github.com/spf13/cobra"

	configcmder "github.com/papercomputeco/aegis/cmd/aegis/config"
	servecmder "github.com/papercomputeco/aegis/cmd/aegis/serve"
)

const aegisLongDesc string = `Aegis is an AI security gateway.

Run the gateway using:
  aegis serve          Run the gateway server

Manage configuration using:
  aegis config set <key> <value>
  aegis config get <key>
  aegis config list`

const aegisShortDesc string = "Aegis - AI Security Gateway"

func NewAegisCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aegis",
		Short: aegisShortDesc,
		Long:  aegisLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config", "", "Path to directory containing config.toml")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())

	return cmd
}
