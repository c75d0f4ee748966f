// Package exportcmder provides the export command, which stores walked fact
// tables in SQLite for later querying.
package exportcmder

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/sucker/cmd/sucker/cmdutil"
	"github.com/papercomputeco/sucker/cmd/sucker/ingest"
	"github.com/papercomputeco/sucker/cmd/sucker/sqlitepath"
	"github.com/papercomputeco/sucker/pkg/cliui"
	"github.com/papercomputeco/sucker/pkg/config"
	"github.com/papercomputeco/sucker/pkg/eventlog"
	"github.com/papercomputeco/sucker/pkg/storage"
	"github.com/papercomputeco/sucker/pkg/storage/sqlite"
)

type exportCommander struct {
	dataDir    string
	pattern    string
	sqlitePath string
	configDir  string

	out    io.Writer
	logger *slog.Logger

	openDriver func(path string) (storage.Driver, error)
}

const exportLongDesc string = `Export fact tables to SQLite.

Walks every session file and stores its fact tables as one run in the
SQLite database. Each run gets a new id, printed on completion, which
"sucker analyze --run" and "sucker facts --run" accept.

The database defaults to sucker.db in the .sucker/ directory; use --sqlite
or the storage.sqlite_path config key to choose another file.

Examples:
  sucker export data/
  sucker export session-1706.json --sqlite ./games.db`

const exportShortDesc string = "Export fact tables to SQLite"

var flagKeys = []string{
	config.FlagDataDir,
	config.FlagPattern,
	config.FlagSQLite,
}

func NewExportCmd() *cobra.Command {
	cmder := &exportCommander{
		openDriver: func(path string) (storage.Driver, error) {
			return sqlite.NewDriver(path)
		},
	}

	cmd := &cobra.Command{
		Use:   "export [files or directories...]",
		Short: exportShortDesc,
		Long:  exportLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			v, err := cmdutil.Settings(cmd, flagKeys...)
			if err != nil {
				return err
			}
			cmder.dataDir = v.GetString("input.data_dir")
			cmder.pattern = v.GetString("input.pattern")
			cmder.sqlitePath = v.GetString("storage.sqlite_path")
			cmder.configDir, _ = cmd.Flags().GetString(cmdutil.FlagConfigDir)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			log, closeLog, err := cmdutil.NewLogger(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()

			cmder.logger = log
			cmder.out = cmd.OutOrStdout()
			return cmder.run(cmd.Context(), args)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagDataDir, &cmder.dataDir)
	config.AddStringFlag(cmd, config.Flags, config.FlagPattern, &cmder.pattern)
	config.AddStringFlag(cmd, config.Flags, config.FlagSQLite, &cmder.sqlitePath)

	return cmd
}

func (c *exportCommander) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{c.dataDir}
	}
	paths, err := eventlog.ResolvePathsMatching(args, c.pattern)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no session files matching %q in %v", c.pattern, args)
	}

	dbPath, err := sqlitepath.WritePath(c.sqlitePath, c.configDir)
	if err != nil {
		return err
	}
	driver, err := c.openDriver(dbPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", dbPath, err)
	}
	defer driver.Close()

	c.logger.Info("exporting sessions", "files", len(paths), "db", dbPath)

	fmt.Fprintf(c.out, "\n  %s %s\n\n", cliui.KeyStyle.Render("Database:"), cliui.DimStyle.Render(dbPath))
	for _, path := range paths {
		run, err := c.export(ctx, driver, path)
		fmt.Fprintf(c.out, "  %s %s\n", cliui.Mark(err), path)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "    %s %s  %s\n",
			cliui.KeyStyle.Render("run"),
			cliui.ValueStyle.Render(run.ID),
			cliui.DimStyle.Render(fmt.Sprintf("%d messages, %d kills, %d games ended",
				run.Counts.Messages, run.Counts.Kills, run.Counts.Outcomes)),
		)
	}
	fmt.Fprintln(c.out)
	return nil
}

func (c *exportCommander) export(ctx context.Context, driver storage.Driver, path string) (*storage.Run, error) {
	res, err := ingest.Load(ctx, []string{path}, "", c.pattern, c.logger)
	if err != nil {
		return nil, err
	}

	run, err := driver.SaveTables(ctx, storage.NewRunID(), path, res.Tables)
	if err != nil {
		return nil, fmt.Errorf("saving %s: %w", path, err)
	}
	c.logger.Debug("exported session", "path", path, "run", run.ID)
	return run, nil
}
