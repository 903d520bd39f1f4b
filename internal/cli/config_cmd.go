package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chouse/internal/config"
)

// configCommand creates the "config" command, which prints the effective
// configuration with secrets redacted.
func (c *CLI) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}

			path := c.configPath
			if path == "" {
				if path, err = config.DefaultPath(); err != nil {
					path = "(none)"
				}
			}
			printKeyValue("Config file", path)
			if err := cfg.Validate(); err != nil {
				printWarning("%v", err)
			}

			out, err := cfg.Redacted().TOML()
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
}
