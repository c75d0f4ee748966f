// Package suckercmder
package suckercmder

import (
	"github.com/spf13/cobra"

	analyzecmder "github.com/papercomputeco/sucker/cmd/sucker/analyze"
	"github.com/papercomputeco/sucker/cmd/sucker/cmdutil"
	configcmder "github.com/papercomputeco/sucker/cmd/sucker/config"
	exportcmder "github.com/papercomputeco/sucker/cmd/sucker/export"
	factscmder "github.com/papercomputeco/sucker/cmd/sucker/facts"
	runscmder "github.com/papercomputeco/sucker/cmd/sucker/runs"
	versioncmder "github.com/papercomputeco/sucker/cmd/version"
)

const suckerLongDesc string = `Sucker analyzes deception in So Long Sucker games played by LLMs.

It reads the session logs recorded by the game harness, extracts chat,
kill, donation and outcome facts, and reports who lied, who broke promises
and whether talking more wins games.

Get started using:
  sucker analyze data/           Print the deception report
  sucker facts data/ -t kills    Dump a fact table as JSON lines
  sucker export data/            Store fact tables in SQLite
  sucker config list             Show persistent settings`

const suckerShortDesc string = "Sucker - So Long Sucker deception analysis"

func NewSuckerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "sucker",
		Short:        suckerShortDesc,
		Long:         suckerLongDesc,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP(cmdutil.FlagDebug, "d", false, "Enable debug logging")
	cmd.PersistentFlags().String(cmdutil.FlagLogFile, "", "Also write JSON logs to this file")
	cmd.PersistentFlags().String(cmdutil.FlagConfigDir, "", "Override path to .sucker/ config directory")

	// Add subcommands
	cmd.AddCommand(analyzecmder.NewAnalyzeCmd())
	cmd.AddCommand(factscmder.NewFactsCmd())
	cmd.AddCommand(exportcmder.NewExportCmd())
	cmd.AddCommand(runscmder.NewRunsCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
