// Package ingest loads session files or stored runs into merged fact tables
// for the sucker commands.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/papercomputeco/sucker/pkg/eventlog"
	"github.com/papercomputeco/sucker/pkg/facts"
	"github.com/papercomputeco/sucker/pkg/storage"
	"github.com/papercomputeco/sucker/pkg/walker"
)

// Result is the merged output of one or more walks.
type Result struct {
	Sources []string
	Tables  *facts.Tables
	Stats   walker.Stats

	// Models names the model behind each seat, first session wins.
	Models map[eventlog.PlayerID]string
}

// Load walks the session files named by args, expanding directories with
// pattern. With no args, dataDir is scanned. When more than one file is
// walked, game ids are qualified with SourceNames so slot numbers reused
// across sessions stay distinct.
func Load(ctx context.Context, args []string, dataDir, pattern string, logger *slog.Logger) (*Result, error) {
	if len(args) == 0 {
		args = []string{dataDir}
	}
	if pattern == "" {
		pattern = eventlog.DefaultPattern
	}

	paths, err := eventlog.ResolvePathsMatching(args, pattern)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no session files matching %q in %s", pattern, strings.Join(args, ", "))
	}

	paths = dedupe(paths)
	names := SourceNames(paths)

	res := &Result{Models: map[eventlog.PlayerID]string{}}
	parts := make([]*facts.Tables, 0, len(paths))
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		log, err := eventlog.LoadFile(path)
		if err != nil {
			return nil, err
		}

		tables, stats := walker.Walk(log)
		logger.Debug("walked session",
			"path", path,
			"events", stats.Events,
			"games", stats.GamesOpened,
			"messages", len(tables.Messages),
			"truncated", stats.Truncated,
		)
		if n := stats.Anomalies(); n > 0 {
			logger.Warn("session has unattributed records",
				"path", path,
				"orphans", stats.Orphans,
				"unmatched_ends", stats.UnmatchedEnds,
				"unknown_players", stats.UnknownPlayers,
			)
		}
		if stats.MislabeledDecisions > 0 {
			logger.Debug("decisions labeled with another game",
				"path", path,
				"count", stats.MislabeledDecisions,
			)
		}

		if len(paths) > 1 {
			tables = tables.Qualify(names[i])
		}
		parts = append(parts, tables)
		res.Sources = append(res.Sources, path)
		res.Stats.Add(stats)

		for _, p := range eventlog.Players {
			if _, ok := res.Models[p]; ok {
				continue
			}
			if m := log.Session.ModelFor(p); m != "" {
				res.Models[p] = m
			}
		}
	}

	res.Tables = facts.Merge(parts...)
	return res, nil
}

// LoadRun reads the tables of a stored run.
func LoadRun(ctx context.Context, driver storage.Driver, runID string) (*Result, error) {
	run, err := driver.Run(ctx, runID)
	if err != nil {
		return nil, err
	}
	tables, err := driver.Tables(ctx, runID)
	if err != nil {
		return nil, err
	}
	return &Result{
		Sources: []string{run.Source},
		Tables:  tables,
		Models:  map[eventlog.PlayerID]string{},
	}, nil
}

// SourceName is the base name of path without its extension.
func SourceName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// SourceNames names each path by SourceName. Paths whose base names
// collide are named by their cleaned slash path without extension instead.
func SourceNames(paths []string) []string {
	seen := make(map[string]int, len(paths))
	for _, p := range paths {
		seen[SourceName(p)]++
	}
	names := make([]string, len(paths))
	for i, p := range paths {
		name := SourceName(p)
		if seen[name] > 1 {
			clean := filepath.ToSlash(filepath.Clean(p))
			name = strings.TrimSuffix(clean, filepath.Ext(clean))
		}
		names[i] = name
	}
	return names
}

// dedupe drops repeated paths, such as a file named both directly and
// through its directory.
func dedupe(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := paths[:0:0]
	for _, p := range paths {
		key := filepath.Clean(p)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}
