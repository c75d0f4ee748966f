// Package analyzecmder provides the analyze command, which walks session
// logs and prints the deception analysis report.
package analyzecmder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/sucker/cmd/sucker/cmdutil"
	"github.com/papercomputeco/sucker/cmd/sucker/ingest"
	"github.com/papercomputeco/sucker/cmd/sucker/sqlitepath"
	"github.com/papercomputeco/sucker/pkg/analysis"
	"github.com/papercomputeco/sucker/pkg/cliui"
	"github.com/papercomputeco/sucker/pkg/config"
	"github.com/papercomputeco/sucker/pkg/report"
	"github.com/papercomputeco/sucker/pkg/storage/sqlite"
)

type analyzeCommander struct {
	format     string
	width      uint
	pretty     bool
	excerptLen uint
	dataDir    string
	pattern    string
	sqlitePath string
	runID      string
	limit      int
	watch      bool
	debounce   time.Duration

	out    io.Writer
	errOut io.Writer
	logger *slog.Logger
}

const analyzeLongDesc string = `Analyze So Long Sucker session logs.

Walks every session file named on the command line (directories are scanned
for files matching --pattern) and prints per-player statistics, message
timing by game phase, broken promises, donation honesty and the chat volume
versus winning comparison.

With no arguments the configured data directory is scanned. Use --run to
analyze tables previously stored with "sucker export" instead.

Examples:
  sucker analyze data/
  sucker analyze session-1706.json --format markdown
  sucker analyze data/ --format json > report.json
  sucker analyze data/ --watch
  sucker analyze --run 3f0c... --sqlite sucker.db`

const analyzeShortDesc string = "Analyze session logs"

var flagKeys = []string{
	config.FlagFormat,
	config.FlagWidth,
	config.FlagPretty,
	config.FlagExcerptLen,
	config.FlagDataDir,
	config.FlagPattern,
	config.FlagSQLite,
}

func NewAnalyzeCmd() *cobra.Command {
	cmder := &analyzeCommander{}

	cmd := &cobra.Command{
		Use:   "analyze [files or directories...]",
		Short: analyzeShortDesc,
		Long:  analyzeLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			v, err := cmdutil.Settings(cmd, flagKeys...)
			if err != nil {
				return err
			}

			cmder.format = v.GetString("report.format")
			cmder.width = v.GetUint("report.width")
			cmder.pretty = v.GetBool("report.pretty")
			cmder.excerptLen = v.GetUint("analysis.excerpt_len")
			cmder.dataDir = v.GetString("input.data_dir")
			cmder.pattern = v.GetString("input.pattern")
			cmder.sqlitePath = v.GetString("storage.sqlite_path")

			if !config.IsValidFormat(cmder.format) {
				return fmt.Errorf("invalid --format %q (available: %v)", cmder.format, config.ValidFormats())
			}
			if cmder.watch && cmder.runID != "" {
				return fmt.Errorf("--watch cannot be combined with --run")
			}
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
			cmder.errOut = cmd.ErrOrStderr()
			return cmder.run(cmd.Context(), args)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagFormat, &cmder.format)
	config.AddUintFlag(cmd, config.Flags, config.FlagWidth, &cmder.width)
	config.AddBoolFlag(cmd, config.Flags, config.FlagPretty, &cmder.pretty)
	config.AddUintFlag(cmd, config.Flags, config.FlagExcerptLen, &cmder.excerptLen)
	config.AddStringFlag(cmd, config.Flags, config.FlagDataDir, &cmder.dataDir)
	config.AddStringFlag(cmd, config.Flags, config.FlagPattern, &cmder.pattern)
	config.AddStringFlag(cmd, config.Flags, config.FlagSQLite, &cmder.sqlitePath)
	cmd.Flags().StringVar(&cmder.runID, "run", "", "Analyze a run stored by sucker export instead of session files")
	cmd.Flags().IntVar(&cmder.limit, "limit", report.DefaultLimit, "Maximum cases listed per section (-1 for all)")
	cmd.Flags().BoolVarP(&cmder.watch, "watch", "w", false, "Re-run the analysis when session files change")
	cmd.Flags().DurationVar(&cmder.debounce, "debounce", 500*time.Millisecond, "Quiet period before re-running in --watch mode")

	return cmd
}

func (c *analyzeCommander) run(ctx context.Context, args []string) error {
	if err := c.analyze(ctx, args); err != nil {
		return err
	}
	if !c.watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	roots := args
	if len(roots) == 0 {
		roots = []string{c.dataDir}
	}
	c.logger.Info("watching for session changes", "paths", roots, "pattern", c.pattern)

	err := watchSessions(ctx, roots, c.pattern, c.debounce, c.logger, func() {
		if err := c.analyze(ctx, args); err != nil {
			c.logger.Error("analysis failed", "error", err)
		}
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func (c *analyzeCommander) analyze(ctx context.Context, args []string) error {
	var res *ingest.Result
	load := func() error {
		var err error
		res, err = c.load(ctx, args)
		return err
	}

	var err error
	if cliui.IsTerminal(c.errOut) && c.format != config.FormatJSON {
		err = cliui.Step(c.errOut, "Loading sessions", load)
	} else {
		err = load()
	}
	if err != nil {
		return err
	}

	rep := analysis.Analyze(res.Tables, analysis.Options{
		ExcerptLen: int(c.excerptLen),
		Models:     res.Models,
		Sources:    res.Sources,
	})
	c.logger.Debug("analysis complete",
		"games", rep.Games,
		"messages", rep.Counts.Messages,
		"broken_promises", len(rep.BrokenPromises),
	)

	return report.Write(c.out, rep, report.Options{
		Format: c.format,
		Width:  int(c.width),
		Color:  c.pretty && cliui.IsTerminal(c.out),
		Limit:  c.limit,
	})
}

func (c *analyzeCommander) load(ctx context.Context, args []string) (*ingest.Result, error) {
	if c.runID == "" {
		return ingest.Load(ctx, args, c.dataDir, c.pattern, c.logger)
	}

	dbPath, err := sqlitepath.ResolveSQLitePath(c.sqlitePath)
	if err != nil {
		return nil, err
	}
	driver, err := sqlite.NewDriver(dbPath)
	if err != nil {
		return nil, err
	}
	defer driver.Close()

	return ingest.LoadRun(ctx, driver, c.runID)
}
