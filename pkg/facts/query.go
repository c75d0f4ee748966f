package facts

import (
	"github.com/papercomputeco/sucker/pkg/eventlog"
)

// GamePlayer is the grouping key for per-player, per-game aggregates.
type GamePlayer struct {
	Game   eventlog.GameID
	Player eventlog.PlayerID
}

// Where returns the rows matching keep, in order. The input is not modified.
func Where[T any](rows []T, keep func(T) bool) []T {
	var out []T
	for _, r := range rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// ByGame keeps rows of one game.
func ByGame[T Fact](rows []T, game eventlog.GameID) []T {
	return Where(rows, func(r T) bool { return r.FactKey().Game == game })
}

// ByPlayer keeps rows acted by one player.
func ByPlayer[T Fact](rows []T, player eventlog.PlayerID) []T {
	return Where(rows, func(r T) bool { return r.FactKey().Player == player })
}

// InTurnRange keeps rows with from <= turn <= to.
func InTurnRange[T Fact](rows []T, from, to int) []T {
	return Where(rows, func(r T) bool {
		turn := r.FactKey().Turn
		return turn >= from && turn <= to
	})
}

// ByPhase keeps messages of one phase.
func ByPhase(msgs []Message, phase Phase) []Message {
	return Where(msgs, func(m Message) bool { return m.Phase == phase })
}

// GroupByGame buckets rows per game, each bucket in input order.
func GroupByGame[T Fact](rows []T) map[eventlog.GameID][]T {
	out := make(map[eventlog.GameID][]T)
	for _, r := range rows {
		g := r.FactKey().Game
		out[g] = append(out[g], r)
	}
	return out
}

// GroupByGamePlayer buckets rows per (game, player), each bucket in input
// order.
func GroupByGamePlayer[T Fact](rows []T) map[GamePlayer][]T {
	out := make(map[GamePlayer][]T)
	for _, r := range rows {
		k := r.FactKey()
		gp := GamePlayer{Game: k.Game, Player: k.Player}
		out[gp] = append(out[gp], r)
	}
	return out
}

// GameOrder lists the distinct games of rows in first-seen order. Use it to
// iterate a GroupByGame result deterministically.
func GameOrder[T Fact](rows []T) []eventlog.GameID {
	var order []eventlog.GameID
	seen := map[eventlog.GameID]bool{}
	for _, r := range rows {
		g := r.FactKey().Game
		if !seen[g] {
			seen[g] = true
			order = append(order, g)
		}
	}
	return order
}

// CountBy tallies rows per key.
func CountBy[T any, K comparable](rows []T, key func(T) K) map[K]int {
	out := make(map[K]int)
	for _, r := range rows {
		out[key(r)]++
	}
	return out
}
