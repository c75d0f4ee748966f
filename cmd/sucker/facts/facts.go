// Package factscmder provides the facts command, which prints one fact
// table as JSON lines.
package factscmder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"slices"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/sucker/cmd/sucker/cmdutil"
	"github.com/papercomputeco/sucker/cmd/sucker/ingest"
	"github.com/papercomputeco/sucker/cmd/sucker/sqlitepath"
	"github.com/papercomputeco/sucker/pkg/config"
	"github.com/papercomputeco/sucker/pkg/eventlog"
	"github.com/papercomputeco/sucker/pkg/facts"
	"github.com/papercomputeco/sucker/pkg/storage"
	"github.com/papercomputeco/sucker/pkg/storage/sqlite"
)

// Table names accepted by --table.
const (
	TableMessages  = "messages"
	TableKills     = "kills"
	TableDonations = "donations"
	TableOutcomes  = "outcomes"
	TableTurns     = "turns"
	TableSnapshots = "snapshots"
)

var tableNames = []string{TableMessages, TableKills, TableDonations, TableOutcomes, TableTurns, TableSnapshots}

type factsCommander struct {
	table      string
	game       string
	player     string
	phase      string
	fromTurn   int
	toTurn     int
	dataDir    string
	pattern    string
	sqlitePath string
	runID      string

	out    io.Writer
	logger *slog.Logger
}

const factsLongDesc string = `Print a fact table as JSON lines.

Walks the session files named on the command line (or the configured data
directory) and prints one JSON object per row of the selected table. Rows
keep the order in which their events appear in the logs.

Tables: messages, kills, donations, outcomes, turns, snapshots.

--player matches the acting player: the speaker, the killer, the player
answering a donation. For outcomes it matches the winner, and the turn
range applies to the game's final turn count, so --from-turn 30 lists
games that lasted at least 30 turns.

Examples:
  sucker facts data/ --table kills
  sucker facts session-1706.json --player red --phase late
  sucker facts data/ --table turns --game session-1706/0 | jq .thoughts
  sucker facts --run 3f0c... --table donations`

const factsShortDesc string = "Print a fact table as JSON lines"

var flagKeys = []string{
	config.FlagDataDir,
	config.FlagPattern,
	config.FlagSQLite,
}

func NewFactsCmd() *cobra.Command {
	cmder := &factsCommander{}

	cmd := &cobra.Command{
		Use:   "facts [files or directories...]",
		Short: factsShortDesc,
		Long:  factsLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			v, err := cmdutil.Settings(cmd, flagKeys...)
			if err != nil {
				return err
			}
			cmder.dataDir = v.GetString("input.data_dir")
			cmder.pattern = v.GetString("input.pattern")
			cmder.sqlitePath = v.GetString("storage.sqlite_path")

			if !slices.Contains(tableNames, cmder.table) {
				return fmt.Errorf("invalid --table %q (available: %v)", cmder.table, tableNames)
			}
			if cmder.phase != "" && cmder.table != TableMessages {
				return fmt.Errorf("--phase only applies to the %s table", TableMessages)
			}
			if cmder.phase != "" && !slices.Contains(append(slices.Clone(facts.Phases), facts.PhaseUnknown), facts.Phase(cmder.phase)) {
				return fmt.Errorf("invalid --phase %q", cmder.phase)
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
			return cmder.run(cmd.Context(), args)
		},
	}

	cmd.Flags().StringVarP(&cmder.table, "table", "t", TableMessages, "Fact table to print")
	cmd.Flags().StringVar(&cmder.game, "game", "", "Only rows of this game id")
	cmd.Flags().StringVar(&cmder.player, "player", "", "Only rows acted by this player color")
	cmd.Flags().StringVar(&cmder.phase, "phase", "", "Only messages of this phase (early, mid, late, unknown)")
	cmd.Flags().IntVar(&cmder.fromTurn, "from-turn", 0, "Only rows at or after this turn")
	cmd.Flags().IntVar(&cmder.toTurn, "to-turn", -1, "Only rows at or before this turn (-1 for no limit)")
	cmd.Flags().StringVar(&cmder.runID, "run", "", "Read a run stored by sucker export instead of session files")
	config.AddStringFlag(cmd, config.Flags, config.FlagDataDir, &cmder.dataDir)
	config.AddStringFlag(cmd, config.Flags, config.FlagPattern, &cmder.pattern)
	config.AddStringFlag(cmd, config.Flags, config.FlagSQLite, &cmder.sqlitePath)

	return cmd
}

func (c *factsCommander) run(ctx context.Context, args []string) error {
	var rows []any
	if c.runID != "" {
		driver, err := c.openStore()
		if err != nil {
			return err
		}
		defer driver.Close()

		rows, err = c.storedRows(ctx, driver)
		if err != nil {
			return err
		}
	} else {
		res, err := ingest.Load(ctx, args, c.dataDir, c.pattern, c.logger)
		if err != nil {
			return err
		}
		rows = c.rows(res.Tables)
	}
	c.logger.Debug("printing facts", "table", c.table, "rows", len(rows))

	enc := json.NewEncoder(c.out)
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("writing %s: %w", c.table, err)
		}
	}
	return nil
}

func (c *factsCommander) openStore() (storage.Driver, error) {
	dbPath, err := sqlitepath.ResolveSQLitePath(c.sqlitePath)
	if err != nil {
		return nil, err
	}
	return sqlite.NewDriver(dbPath)
}

// storedRows reads a stored run. Messages are filtered by the store; the
// other tables are loaded whole and filtered like walked tables.
func (c *factsCommander) storedRows(ctx context.Context, driver storage.Driver) ([]any, error) {
	if _, err := driver.Run(ctx, c.runID); err != nil {
		return nil, err
	}

	if c.table == TableMessages {
		msgs, err := driver.Messages(ctx, storage.MessageFilter{
			RunID:  c.runID,
			Game:   eventlog.GameID(c.game),
			Player: c.playerID(),
			Phase:  facts.Phase(c.phase),
		})
		if err != nil {
			return nil, err
		}
		return selectRows(msgs, c), nil
	}

	t, err := driver.Tables(ctx, c.runID)
	if err != nil {
		return nil, err
	}
	return c.rows(t), nil
}

func (c *factsCommander) playerID() eventlog.PlayerID {
	if c.player == "" {
		return ""
	}
	return eventlog.ParsePlayerID(c.player)
}

func (c *factsCommander) rows(t *facts.Tables) []any {
	switch c.table {
	case TableKills:
		return selectRows(t.Kills, c)
	case TableDonations:
		return selectRows(t.Donations, c)
	case TableOutcomes:
		return selectRows(t.Outcomes, c)
	case TableTurns:
		return selectRows(t.Turns, c)
	case TableSnapshots:
		return selectRows(t.Snapshots, c)
	default:
		msgs := t.Messages
		if c.phase != "" {
			msgs = facts.ByPhase(msgs, facts.Phase(c.phase))
		}
		return selectRows(msgs, c)
	}
}

func selectRows[T facts.Fact](rows []T, c *factsCommander) []any {
	if c.game != "" {
		rows = facts.ByGame(rows, eventlog.GameID(c.game))
	}
	if c.player != "" {
		rows = facts.ByPlayer(rows, c.playerID())
	}
	if c.fromTurn > 0 || c.toTurn >= 0 {
		to := c.toTurn
		if to < 0 {
			to = math.MaxInt
		}
		rows = facts.InTurnRange(rows, c.fromTurn, to)
	}

	out := make([]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, r)
	}
	return out
}
