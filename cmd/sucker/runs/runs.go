// Package runscmder provides the runs command, which lists the runs stored
// by sucker export.
package runscmder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/sucker/cmd/sucker/cmdutil"
	"github.com/papercomputeco/sucker/cmd/sucker/sqlitepath"
	"github.com/papercomputeco/sucker/pkg/cliui"
	"github.com/papercomputeco/sucker/pkg/config"
	"github.com/papercomputeco/sucker/pkg/storage"
	"github.com/papercomputeco/sucker/pkg/storage/sqlite"
)

type runsCommander struct {
	sqlitePath string
	json       bool

	out io.Writer
}

const runsLongDesc string = `List exported runs.

Prints every run stored in the SQLite database by "sucker export", oldest
first, with its source file and table sizes.

Examples:
  sucker runs
  sucker runs --sqlite ./games.db --json`

const runsShortDesc string = "List exported runs"

func NewRunsCmd() *cobra.Command {
	cmder := &runsCommander{}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: runsShortDesc,
		Long:  runsLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			v, err := cmdutil.Settings(cmd, config.FlagSQLite)
			if err != nil {
				return err
			}
			cmder.sqlitePath = v.GetString("storage.sqlite_path")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.out = cmd.OutOrStdout()
			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagSQLite, &cmder.sqlitePath)
	cmd.Flags().BoolVar(&cmder.json, "json", false, "Print runs as JSON lines")

	return cmd
}

func (c *runsCommander) run(ctx context.Context) error {
	dbPath, err := sqlitepath.ResolveSQLitePath(c.sqlitePath)
	if err != nil {
		return err
	}
	driver, err := sqlite.NewDriver(dbPath)
	if err != nil {
		return err
	}
	defer driver.Close()

	runs, err := driver.Runs(ctx)
	if err != nil {
		return err
	}

	if c.json {
		enc := json.NewEncoder(c.out)
		for _, r := range runs {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	}

	return c.print(runs)
}

func (c *runsCommander) print(runs []*storage.Run) error {
	if len(runs) == 0 {
		fmt.Fprintf(c.out, "\n  %s\n\n", cliui.DimStyle.Render("No runs exported yet."))
		return nil
	}

	fmt.Fprintln(c.out)
	for _, r := range runs {
		fmt.Fprintf(c.out, "  %s  %s\n", cliui.ValueStyle.Render(r.ID), r.Source)
		fmt.Fprintf(c.out, "    %s\n", cliui.DimStyle.Render(fmt.Sprintf("%s  %d messages, %d kills, %d donations, %d games ended",
			r.CreatedAt.Local().Format(time.DateTime), r.Counts.Messages, r.Counts.Kills, r.Counts.Donations, r.Counts.Outcomes)))
	}
	fmt.Fprintln(c.out)
	return nil
}
