// Package sqlite provides a SQLite-backed storage driver.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/papercomputeco/sucker/pkg/facts"
	"github.com/papercomputeco/sucker/pkg/storage"
)

// schema is applied on open. Every fact table carries an ord column that
// preserves encounter order within its run.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		messages INTEGER NOT NULL,
		kills INTEGER NOT NULL,
		donations INTEGER NOT NULL,
		outcomes INTEGER NOT NULL,
		turns INTEGER NOT NULL,
		snapshots INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		ord INTEGER NOT NULL,
		game_id TEXT NOT NULL,
		player TEXT NOT NULL,
		turn INTEGER NOT NULL,
		max_turn INTEGER NOT NULL,
		phase TEXT NOT NULL,
		text TEXT NOT NULL,
		PRIMARY KEY (run_id, ord)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_game_player ON messages(game_id, player)`,
	`CREATE TABLE IF NOT EXISTS kills (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		ord INTEGER NOT NULL,
		game_id TEXT NOT NULL,
		killer TEXT NOT NULL,
		victim_chip TEXT NOT NULL,
		turn INTEGER NOT NULL,
		PRIMARY KEY (run_id, ord)
	)`,
	`CREATE TABLE IF NOT EXISTS donations (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		ord INTEGER NOT NULL,
		game_id TEXT NOT NULL,
		player TEXT NOT NULL,
		turn INTEGER NOT NULL,
		accepted INTEGER NOT NULL,
		to_player TEXT NOT NULL,
		color TEXT NOT NULL,
		PRIMARY KEY (run_id, ord)
	)`,
	`CREATE TABLE IF NOT EXISTS outcomes (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		ord INTEGER NOT NULL,
		game_id TEXT NOT NULL,
		winner TEXT NOT NULL,
		elimination_order TEXT NOT NULL,
		turns INTEGER NOT NULL,
		duration_ns INTEGER NOT NULL,
		PRIMARY KEY (run_id, ord)
	)`,
	`CREATE TABLE IF NOT EXISTS turns (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		ord INTEGER NOT NULL,
		game_id TEXT NOT NULL,
		player TEXT NOT NULL,
		turn INTEGER NOT NULL,
		body TEXT NOT NULL,
		PRIMARY KEY (run_id, ord)
	)`,
	`CREATE TABLE IF NOT EXISTS snapshots (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		ord INTEGER NOT NULL,
		game_id TEXT NOT NULL,
		player TEXT NOT NULL,
		turn INTEGER NOT NULL,
		body TEXT NOT NULL,
		PRIMARY KEY (run_id, ord)
	)`,
}

// Driver implements storage.Driver using SQLite.
type Driver struct {
	db *sql.DB
}

// NewDriver opens the database at dbPath and creates the schema.
// The dbPath can be a file path or ":memory:" for an in-memory database.
func NewDriver(dbPath string) (*Driver, error) {
	// Open the database using the github.com/mattn/go-sqlite3 driver (registered as "sqlite3")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return &Driver{db: db}, nil
}

// SaveTables stores t under runID in a single transaction.
func (d *Driver) SaveTables(ctx context.Context, runID, source string, t *facts.Tables) (*storage.Run, error) {
	if t == nil {
		return nil, errors.New("cannot store nil tables")
	}

	run := &storage.Run{
		ID:        runID,
		Source:    source,
		CreatedAt: time.Now().UTC(),
		Counts:    t.Counts(),
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	c := run.Counts
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, source, created_at, messages, kills, donations, outcomes, turns, snapshots)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Source, run.CreatedAt.UnixNano(),
		c.Messages, c.Kills, c.Donations, c.Outcomes, c.Turns, c.Snapshots,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return nil, fmt.Errorf("%w: %s", storage.ErrRunExists, runID)
		}
		return nil, fmt.Errorf("failed to insert run: %w", err)
	}

	if err := insertFacts(ctx, tx, runID, t); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit run: %w", err)
	}
	return run, nil
}

func insertFacts(ctx context.Context, tx *sql.Tx, runID string, t *facts.Tables) error {
	for i, m := range t.Messages {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO messages (run_id, ord, game_id, player, turn, max_turn, phase, text) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, i, m.GameID, m.Player, m.Turn, m.MaxTurn, m.Phase, m.Text,
		); err != nil {
			return fmt.Errorf("failed to insert message: %w", err)
		}
	}

	for i, k := range t.Kills {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO kills (run_id, ord, game_id, killer, victim_chip, turn) VALUES (?, ?, ?, ?, ?, ?)`,
			runID, i, k.GameID, k.Killer, k.VictimChip, k.Turn,
		); err != nil {
			return fmt.Errorf("failed to insert kill: %w", err)
		}
	}

	for i, dn := range t.Donations {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO donations (run_id, ord, game_id, player, turn, accepted, to_player, color) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, i, dn.GameID, dn.Player, dn.Turn, dn.Accepted, dn.ToPlayer, dn.Color,
		); err != nil {
			return fmt.Errorf("failed to insert donation: %w", err)
		}
	}

	for i, o := range t.Outcomes {
		order, err := json.Marshal(o.EliminationOrder)
		if err != nil {
			return fmt.Errorf("failed to marshal elimination order: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO outcomes (run_id, ord, game_id, winner, elimination_order, turns, duration_ns) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, i, o.GameID, o.Winner, string(order), o.Turns, int64(o.Duration),
		); err != nil {
			return fmt.Errorf("failed to insert outcome: %w", err)
		}
	}

	for i, tc := range t.Turns {
		body, err := json.Marshal(tc)
		if err != nil {
			return fmt.Errorf("failed to marshal turn: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO turns (run_id, ord, game_id, player, turn, body) VALUES (?, ?, ?, ?, ?, ?)`,
			runID, i, tc.GameID, tc.Player, tc.Turn, string(body),
		); err != nil {
			return fmt.Errorf("failed to insert turn: %w", err)
		}
	}

	for i, s := range t.Snapshots {
		body, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("failed to marshal snapshot: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshots (run_id, ord, game_id, player, turn, body) VALUES (?, ?, ?, ?, ?, ?)`,
			runID, i, s.GameID, s.Player, s.Turn, string(body),
		); err != nil {
			return fmt.Errorf("failed to insert snapshot: %w", err)
		}
	}

	return nil
}

// Run returns one run.
func (d *Driver) Run(ctx context.Context, runID string) (*storage.Run, error) {
	row := d.db.QueryRowContext(ctx, runColumns+` WHERE id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.NotFoundError{RunID: runID}
	}
	return run, err
}

// Runs returns every run, oldest first.
func (d *Driver) Runs(ctx context.Context) ([]*storage.Run, error) {
	rows, err := d.db.QueryContext(ctx, runColumns+` ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*storage.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

const runColumns = `SELECT id, source, created_at, messages, kills, donations, outcomes, turns, snapshots FROM runs`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*storage.Run, error) {
	var run storage.Run
	var created int64
	c := &run.Counts
	err := s.Scan(&run.ID, &run.Source, &created,
		&c.Messages, &c.Kills, &c.Donations, &c.Outcomes, &c.Turns, &c.Snapshots)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	run.CreatedAt = time.Unix(0, created).UTC()
	return &run, nil
}

// Messages returns messages matching filter.
func (d *Driver) Messages(ctx context.Context, filter storage.MessageFilter) ([]facts.Message, error) {
	var where []string
	var args []any
	add := func(clause string, v any) {
		where = append(where, clause)
		args = append(args, v)
	}
	if filter.RunID != "" {
		add("m.run_id = ?", filter.RunID)
	}
	if filter.Game != "" {
		add("m.game_id = ?", string(filter.Game))
	}
	if filter.Player != "" {
		add("m.player = ?", string(filter.Player))
	}
	if filter.Phase != "" {
		add("m.phase = ?", string(filter.Phase))
	}

	query := `SELECT m.game_id, m.player, m.turn, m.max_turn, m.phase, m.text
		FROM messages m JOIN runs r ON r.id = m.run_id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY r.created_at, r.rowid, m.ord"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var out []facts.Message
	for rows.Next() {
		var m facts.Message
		if err := rows.Scan(&m.GameID, &m.Player, &m.Turn, &m.MaxTurn, &m.Phase, &m.Text); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Tables loads every table of a run.
func (d *Driver) Tables(ctx context.Context, runID string) (*facts.Tables, error) {
	if _, err := d.Run(ctx, runID); err != nil {
		return nil, err
	}

	t := &facts.Tables{}
	var err error
	if t.Messages, err = d.Messages(ctx, storage.MessageFilter{RunID: runID}); err != nil {
		return nil, err
	}

	err = d.each(ctx, `SELECT game_id, killer, victim_chip, turn FROM kills WHERE run_id = ? ORDER BY ord`, runID,
		func(s scanner) error {
			var k facts.KillEvent
			if err := s.Scan(&k.GameID, &k.Killer, &k.VictimChip, &k.Turn); err != nil {
				return err
			}
			t.Kills = append(t.Kills, k)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to load kills: %w", err)
	}

	err = d.each(ctx, `SELECT game_id, player, turn, accepted, to_player, color FROM donations WHERE run_id = ? ORDER BY ord`, runID,
		func(s scanner) error {
			var dn facts.DonationEvent
			if err := s.Scan(&dn.GameID, &dn.Player, &dn.Turn, &dn.Accepted, &dn.ToPlayer, &dn.Color); err != nil {
				return err
			}
			t.Donations = append(t.Donations, dn)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to load donations: %w", err)
	}

	err = d.each(ctx, `SELECT game_id, winner, elimination_order, turns, duration_ns FROM outcomes WHERE run_id = ? ORDER BY ord`, runID,
		func(s scanner) error {
			var o facts.GameOutcome
			var order string
			var duration int64
			if err := s.Scan(&o.GameID, &o.Winner, &order, &o.Turns, &duration); err != nil {
				return err
			}
			if err := json.Unmarshal([]byte(order), &o.EliminationOrder); err != nil {
				return err
			}
			o.Duration = time.Duration(duration)
			t.Outcomes = append(t.Outcomes, o)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to load outcomes: %w", err)
	}

	err = d.each(ctx, `SELECT body FROM turns WHERE run_id = ? ORDER BY ord`, runID,
		func(s scanner) error {
			var body string
			if err := s.Scan(&body); err != nil {
				return err
			}
			var tc facts.ThinkChatTurn
			if err := json.Unmarshal([]byte(body), &tc); err != nil {
				return err
			}
			t.Turns = append(t.Turns, tc)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to load turns: %w", err)
	}

	err = d.each(ctx, `SELECT body FROM snapshots WHERE run_id = ? ORDER BY ord`, runID,
		func(s scanner) error {
			var body string
			if err := s.Scan(&body); err != nil {
				return err
			}
			var snap facts.StateSnapshot
			if err := json.Unmarshal([]byte(body), &snap); err != nil {
				return err
			}
			t.Snapshots = append(t.Snapshots, snap)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshots: %w", err)
	}

	return t, nil
}

func (d *Driver) each(ctx context.Context, query, runID string, fn func(scanner) error) error {
	rows, err := d.db.QueryContext(ctx, query, runID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Close closes the database connection.
func (d *Driver) Close() error {
	return d.db.Close()
}

var _ storage.Driver = (*Driver)(nil)
