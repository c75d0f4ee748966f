// Package configcmder provides the config command for managing persistent
// sucker configuration stored in the .sucker/ directory.
package configcmder

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/sucker/pkg/cliui"
	"github.com/papercomputeco/sucker/pkg/config"
)

const configLongDesc string = `Manage persistent sucker configuration.

Configuration is stored as config.toml in the .sucker/ directory and provides
default values for command flags. CLI flags and SUCKER_ environment variables
always take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  storage.sqlite_path,
  input.data_dir, input.pattern,
  report.format, report.width, report.pretty,
  analysis.excerpt_len

Use subcommands to get, set, or list configuration values:
  sucker config set <key> <value>    Set a configuration value
  sucker config get <key>            Get a configuration value
  sucker config list                 List all configuration values

Examples:
  sucker config set input.data_dir ./data
  sucker config set report.format markdown
  sucker config get report.width
  sucker config list`

const configShortDesc string = "Manage persistent sucker configuration"

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

func completeKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

func checkKey(key string) error {
	if !config.IsValidConfigKey(key) {
		return fmt.Errorf("unknown config key: %q\n\nValid keys: %s",
			key, strings.Join(config.ValidConfigKeys(), ", "))
	}
	return nil
}

func printTarget(w io.Writer, cfger *config.Configer) {
	target := cfger.GetTarget()
	if target != "" {
		fmt.Fprintf(w, "\n  %s %s\n\n",
			cliui.KeyStyle.Render("Config file:"),
			cliui.DimStyle.Render(target),
		)
		return
	}
	fmt.Fprintf(w, "\n  %s\n\n", cliui.DimStyle.Render("No config file found. Using defaults."))
}
